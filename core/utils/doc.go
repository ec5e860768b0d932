// Package utils provides hashing and path helpers shared by the fetcher,
// the reconciler, and the packaging workflow.
package utils
