package updater

import "fmt"

// State is a stage of the packaging workflow.
type State string

const (
	StateIdle        State = "idle"
	StatePreflight   State = "preflight-check"
	StateBackup      State = "backup"
	StateReconciling State = "reconciling"
	StateRestamping  State = "restamping"
	StateArchiving   State = "archiving"
	StateDone        State = "done"
	StateAborted     State = "aborted"
)

// allowedTransitions encodes the workflow state machine. Aborted is
// reachable only from the pre-mutation stages; once reconciliation has
// started, failures surface as errors against the current state instead.
var allowedTransitions = map[State][]State{
	StateIdle:        {StatePreflight},
	StatePreflight:   {StateBackup, StateAborted},
	StateBackup:      {StateReconciling, StateRestamping, StateAborted},
	StateReconciling: {StateRestamping},
	// Restamping -> Done covers dry runs, which skip persist and archive.
	StateRestamping: {StateArchiving, StateDone},
	StateArchiving:   {StateDone},
}

// transition validates and performs a state change.
func (w *Workflow) transition(to State) error {
	for _, allowed := range allowedTransitions[w.state] {
		if allowed == to {
			w.state = to
			return nil
		}
	}
	return fmt.Errorf("disallowed workflow transition: %s -> %s", w.state, to)
}

// State returns the workflow's current state.
func (w *Workflow) State() State {
	return w.state
}
