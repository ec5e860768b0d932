// Package updater is the reconciliation engine and the packaging workflow
// around it.
//
// The Reconciler compares, for every manifest entry, the upstream catalog
// state, the version cache, and the file on disk, and applies the minimal
// corrective action: nothing, or fetch-and-restamp. Per-entry failures
// (malformed entry, no compatible release, transfer error) are recovered
// locally and surfaced through the update report; they never abort a run.
//
// The Workflow wraps each pass in a state machine:
//
//	Idle -> PreflightCheck -> Backup -> Reconciling -> Restamping -> Archiving -> Done
//
// with Aborted reachable from PreflightCheck and Backup. The build variant
// runs the same machine minus Reconciling, so a pack can be re-versioned
// and re-archived without contacting the catalog. Dry runs stop after the
// reconciliation decisions: no backup, no persist, no archive.
package updater
