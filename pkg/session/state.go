package session

// State is the lifecycle tag of a Session.
type State uint8

const (
	// StateNew is set between construction and first persistence.
	StateNew State = iota
	// StateInProgress covers the whole stored lifetime of a session.
	StateInProgress
	// StateDeleted is terminal; the record is removed when the owning scope exits.
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateInProgress:
		return "in_progress"
	case StateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}
