package board

// Snapshot is an immutable copy of the board taken between input events.
// Renderers and persistence read snapshots, never the live board.
type Snapshot struct {
	Lists    []List
	Cursor   Cursor
	Mode     Mode
	Running  bool
	Revision uint64
}

// Snapshot captures the current state.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Lists:    b.Lists(),
		Cursor:   b.Cursor(),
		Mode:     b.mode,
		Running:  b.running,
		Revision: b.rev,
	}
}

// Selected reports whether the card at (col, row) is under the cursor.
func (s Snapshot) Selected(col, row int) bool {
	if col < 0 || col >= len(s.Lists) {
		return false
	}
	return s.Cursor.Col == col && s.Cursor.Row == row && row < len(s.Lists[col].Cards)
}

// CardCount returns the total number of cards across all lists.
func (s Snapshot) CardCount() int {
	n := 0
	for _, l := range s.Lists {
		n += len(l.Cards)
	}
	return n
}
