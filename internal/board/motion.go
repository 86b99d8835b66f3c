package board

// MotionLeft selects the previous list, stopping at the first one.
func (b *Board) MotionLeft() {
	if b.mode != ModeMain {
		return
	}
	b.setCursor(max(b.col-1, 0), b.row)
}

// MotionRight selects the next list; re-clamping stops it at the last one.
func (b *Board) MotionRight() {
	if b.mode != ModeMain {
		return
	}
	b.setCursor(b.col+1, b.row)
}

// MotionUp selects the previous card, stopping at the first one.
func (b *Board) MotionUp() {
	if b.mode != ModeMain {
		return
	}
	b.setCursor(b.col, max(b.row-1, 0))
}

// MotionDown selects the next card; re-clamping stops it at the last one.
func (b *Board) MotionDown() {
	if b.mode != ModeMain {
		return
	}
	b.setCursor(b.col, b.row+1)
}
