// Package board holds the in-memory kanban state model: ordered lists of
// ordered cards, a single cursor, and the edit-mode state machine.
//
// Every operation either applies completely or leaves the board untouched.
// None of them return errors; a failed precondition is a silent no-op.
package board

// Placeholder text used for freshly created cards and lists.
const (
	NewCardText = "New Card"
	NewListName = "New List"
)

// List is one named column of cards.
type List struct {
	Name  string
	Cards []string
}

// clone deep-copies the list so callers never alias board storage.
func (l List) clone() List {
	return List{Name: l.Name, Cards: append([]string(nil), l.Cards...)}
}

// Cursor identifies the selected list (Col) and card (Row).
type Cursor struct {
	Col int
	Row int
}

// Board is the full kanban state. The zero value is not usable; build one
// with New or Default.
type Board struct {
	lists   []List
	col     int
	row     int
	mode    Mode
	pending string
	running bool
	rev     uint64
}

// New constructs a board from the provided lists. The input is deep-copied.
// An empty input yields a single empty list so the board is never list-less.
func New(lists ...List) *Board {
	b := &Board{running: true, mode: ModeMain}
	for _, l := range lists {
		b.lists = append(b.lists, l.clone())
	}
	if len(b.lists) == 0 {
		b.lists = []List{{Name: NewListName}}
	}
	return b
}

// Default returns the seed board shipped with a fresh install.
func Default() *Board {
	return New(DefaultLists()...)
}

// DefaultLists returns the seed lists backing Default.
func DefaultLists() []List {
	return []List{
		{Name: "List 1", Cards: []string{"Card 1 in List 1", "Card 2 in List 1", "Card 3 in List 1"}},
		{Name: "List 2", Cards: []string{"Card 1 in List 2"}},
		{Name: "List 3", Cards: []string{"Absolutly Nothing"}},
	}
}

// Running reports whether Quit has not been called yet.
func (b *Board) Running() bool {
	return b.running
}

// Quit clears the running flag polled by the hosting loop.
func (b *Board) Quit() {
	if !b.running {
		return
	}
	b.running = false
	b.touch()
}

// Mode returns the active edit mode.
func (b *Board) Mode() Mode {
	return b.mode
}

// Cursor returns the current selection.
func (b *Board) Cursor() Cursor {
	return Cursor{Col: b.col, Row: b.row}
}

// Revision is bumped by every call that changes board state. Equal revisions
// mean nothing observable changed in between.
func (b *Board) Revision() uint64 {
	return b.rev
}

// Lists returns a deep copy of every list in order.
func (b *Board) Lists() []List {
	out := make([]List, 0, len(b.lists))
	for _, l := range b.lists {
		out = append(out, l.clone())
	}
	return out
}

// CurrentList returns a copy of the list under the cursor.
func (b *Board) CurrentList() List {
	return b.lists[b.col].clone()
}

// CurrentCard returns the text of the card under the cursor, if any.
func (b *Board) CurrentCard() (string, bool) {
	if !b.hasCard() {
		return "", false
	}
	return b.lists[b.col].Cards[b.row], true
}

func (b *Board) touch() {
	b.rev++
}

// hasCard reports whether the cursor addresses a real card.
func (b *Board) hasCard() bool {
	return b.row < len(b.lists[b.col].Cards)
}

// reclamp restores the cursor bounds after any shrink or motion.
func (b *Board) reclamp() {
	b.col = clampIndex(b.col, len(b.lists))
	b.row = clampIndex(b.row, len(b.lists[b.col].Cards))
}

// clampIndex bounds v to [0, n-1], collapsing to 0 when n is 0.
func clampIndex(v, n int) int {
	if v > n-1 {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// setCursor moves the cursor and bumps the revision only when it changed.
func (b *Board) setCursor(col, row int) {
	before := b.Cursor()
	b.col, b.row = col, row
	b.reclamp()
	if b.Cursor() != before {
		b.touch()
	}
}
