// Package versions is the persistent version cache: one durable record per
// upstream project holding the last-synced version number, source URL, size
// and digests. It is the single source of truth for "what we last synced".
package versions
