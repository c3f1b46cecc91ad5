package spreading

// Role classifies how a node participates in propagation. Ordinary nodes
// accept, drift, and broadcast; liars and truth-tellers broadcast a fixed
// code and never accept or mutate.
type Role int

const (
	// RoleOrdinary nodes follow the full accept/drift/broadcast cycle.
	RoleOrdinary Role = iota

	// RoleLiar nodes permanently hold and broadcast the fully distorted code.
	RoleLiar

	// RoleTruthTeller nodes permanently hold and broadcast the true code.
	RoleTruthTeller
)

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleOrdinary:
		return "ordinary"
	case RoleLiar:
		return "liar"
	case RoleTruthTeller:
		return "truth-teller"
	default:
		return "unknown"
	}
}
