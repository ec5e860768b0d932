// Package server holds the distribution HTTP server configuration.
package server
