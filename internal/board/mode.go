package board

// Mode selects which operations are live.
type Mode int

// Modes of the edit state machine. ModeMain is the initial state.
const (
	ModeMain Mode = iota
	ModeCardEdit
	ModeListEdit
)

// String returns the label shown in the footer.
func (m Mode) String() string {
	switch m {
	case ModeMain:
		return "Main"
	case ModeCardEdit:
		return "CardEdit"
	case ModeListEdit:
		return "ListEdit"
	default:
		return "Unknown"
	}
}

// Editing reports whether a pending-edit buffer exists.
func (m Mode) Editing() bool {
	return m == ModeCardEdit || m == ModeListEdit
}
