// Package middleware groups the HTTP middlewares used by the distribution
// server.
package middleware
