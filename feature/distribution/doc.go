// Package distribution makes built packs available to clients: an HTTP
// surface serving the current index and archives, and a publisher that
// pushes releases to object storage.
package distribution
