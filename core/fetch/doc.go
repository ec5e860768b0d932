// Package fetch downloads mod artifacts.
//
// The HTTP fetcher streams response bodies to disk while computing SHA-1
// and SHA-512 digests in the same pass, so large jars are never buffered in
// memory. A file that already exists at the destination with the expected
// size is reused instead of re-downloaded; its digests are computed from
// disk so the caller can still re-stamp manifest metadata.
package fetch
