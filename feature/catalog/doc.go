// Package catalog talks to the upstream release catalog (the Modrinth v2
// API by default). The reconciler consumes the Client interface only, so
// tests substitute a fake.
package catalog
