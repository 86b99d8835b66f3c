package board

import "slices"

// MoveCardLeft moves the selected card into the previous list. The card lands
// at the same row, or at the end when the target list is shorter.
func (b *Board) MoveCardLeft() {
	if b.mode != ModeMain || b.col == 0 {
		return
	}
	b.moveCardTo(b.col - 1)
}

// MoveCardRight moves the selected card into the next list. The card lands
// at the same row, or at the end when the target list is shorter.
func (b *Board) MoveCardRight() {
	if b.mode != ModeMain || b.col+1 >= len(b.lists) {
		return
	}
	b.moveCardTo(b.col + 1)
}

// moveCardTo relocates the cursor card into list target and follows it.
func (b *Board) moveCardTo(target int) {
	if !b.hasCard() {
		return
	}
	src := &b.lists[b.col]
	card := src.Cards[b.row]
	src.Cards = slices.Delete(src.Cards, b.row, b.row+1)

	dst := &b.lists[target]
	row := min(b.row, len(dst.Cards))
	dst.Cards = slices.Insert(dst.Cards, row, card)

	b.col, b.row = target, row
	b.touch()
}

// MoveCardUp swaps the selected card with the one above it.
func (b *Board) MoveCardUp() {
	if b.mode != ModeMain {
		return
	}
	b.swapCard(b.row - 1)
}

// MoveCardDown swaps the selected card with the one below it.
func (b *Board) MoveCardDown() {
	if b.mode != ModeMain {
		return
	}
	b.swapCard(b.row + 1)
}

func (b *Board) swapCard(target int) {
	cards := b.lists[b.col].Cards
	if !b.hasCard() || target < 0 || target >= len(cards) {
		return
	}
	cards[b.row], cards[target] = cards[target], cards[b.row]
	b.row = target
	b.touch()
}

// AppendCard inserts a placeholder card below the cursor and starts editing it.
func (b *Board) AppendCard() {
	if b.mode != ModeMain {
		return
	}
	b.insertCard(min(b.row+1, len(b.lists[b.col].Cards)))
}

// PrependCard inserts a placeholder card at the cursor row and starts editing it.
func (b *Board) PrependCard() {
	if b.mode != ModeMain {
		return
	}
	b.insertCard(b.row)
}

func (b *Board) insertCard(index int) {
	l := &b.lists[b.col]
	l.Cards = slices.Insert(l.Cards, index, NewCardText)
	b.row = index
	b.touch()
	b.EditCard()
}

// RemoveCard deletes the selected card. Empty lists are left alone.
func (b *Board) RemoveCard() {
	if b.mode != ModeMain || !b.hasCard() {
		return
	}
	l := &b.lists[b.col]
	l.Cards = slices.Delete(l.Cards, b.row, b.row+1)
	b.reclamp()
	b.touch()
}

// AppendList inserts a placeholder list right of the cursor and starts
// editing its name.
func (b *Board) AppendList() {
	if b.mode != ModeMain {
		return
	}
	b.insertList(b.col + 1)
}

// PrependList inserts a placeholder list at the cursor column and starts
// editing its name.
func (b *Board) PrependList() {
	if b.mode != ModeMain {
		return
	}
	b.insertList(b.col)
}

func (b *Board) insertList(index int) {
	b.lists = slices.Insert(b.lists, index, List{Name: NewListName, Cards: []string{NewCardText}})
	b.col = index
	b.reclamp()
	b.touch()
	b.EditList()
}

// RemoveList deletes the selected list. The last remaining list is never
// removed.
func (b *Board) RemoveList() {
	if b.mode != ModeMain || len(b.lists) <= 1 {
		return
	}
	b.lists = slices.Delete(b.lists, b.col, b.col+1)
	b.reclamp()
	b.touch()
}
