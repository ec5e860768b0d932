// Package mods implements single-mod manifest operations: adding a mod by
// its catalog release ID, listing tracked mods, and removing a mod by its
// project ID.
package mods
