package orchestrator

import "fmt"

// Phase is a step of a generation run. Phases run strictly in declaration
// order.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseGenerateUsers
	PhaseGenerateProducts
	PhaseGenerateOrders
	PhaseWriteRelational
	PhaseWriteKeyValue
	PhaseWriteRelationalPostLoad
	PhasePrune
	PhaseSummary
	PhaseDone
)

var phaseNames = [...]string{
	PhaseInit:                    "init",
	PhaseGenerateUsers:           "generate_users",
	PhaseGenerateProducts:        "generate_products",
	PhaseGenerateOrders:          "generate_orders",
	PhaseWriteRelational:         "write_relational",
	PhaseWriteKeyValue:           "write_key_value",
	PhaseWriteRelationalPostLoad: "write_relational_post_load",
	PhasePrune:                   "prune_stale",
	PhaseSummary:                 "summary",
	PhaseDone:                    "done",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// PhaseError reports the phase a run aborted in.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("orchestrator: %s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }
