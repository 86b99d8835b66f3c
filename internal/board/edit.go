package board

import "unicode/utf8"

// EditCard enters ModeCardEdit on the selected card and records its text as
// the rollback point. Without a card under the cursor nothing happens.
func (b *Board) EditCard() {
	if b.mode != ModeMain || !b.hasCard() {
		return
	}
	b.pending = b.lists[b.col].Cards[b.row]
	b.mode = ModeCardEdit
	b.touch()
}

// EditList enters ModeListEdit on the selected list and records its name as
// the rollback point.
func (b *Board) EditList() {
	if b.mode != ModeMain {
		return
	}
	b.pending = b.lists[b.col].Name
	b.mode = ModeListEdit
	b.touch()
}

// EditText returns the live text of the edit session, if one is open.
func (b *Board) EditText() (string, bool) {
	target := b.editTarget()
	if target == nil {
		return "", false
	}
	return *target, true
}

// Type appends r to the text being edited.
func (b *Board) Type(r rune) {
	target := b.editTarget()
	if target == nil {
		return
	}
	*target += string(r)
	b.touch()
}

// Backspace removes the last rune of the text being edited.
func (b *Board) Backspace() {
	target := b.editTarget()
	if target == nil || *target == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(*target)
	*target = (*target)[:len(*target)-size]
	b.touch()
}

// Confirm keeps the edited text and returns to ModeMain.
func (b *Board) Confirm() {
	if !b.mode.Editing() {
		return
	}
	b.finishEdit()
}

// Cancel restores the text captured when the edit started and returns to
// ModeMain.
func (b *Board) Cancel() {
	target := b.editTarget()
	if target == nil {
		return
	}
	*target = b.pending
	b.finishEdit()
}

func (b *Board) finishEdit() {
	b.mode = ModeMain
	b.pending = ""
	b.touch()
}

// editTarget returns a pointer to the string the active mode edits.
func (b *Board) editTarget() *string {
	switch b.mode {
	case ModeCardEdit:
		if !b.hasCard() {
			return nil
		}
		return &b.lists[b.col].Cards[b.row]
	case ModeListEdit:
		return &b.lists[b.col].Name
	default:
		return nil
	}
}
