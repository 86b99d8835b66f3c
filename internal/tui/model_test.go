package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/kanban/internal/board"
)

type savedCall struct {
	name string
	snap board.Snapshot
}

type fakeService struct {
	calls []savedCall
	err   error
}

func (f *fakeService) SaveBoard(_ context.Context, name string, snap board.Snapshot) error {
	f.calls = append(f.calls, savedCall{name: name, snap: snap})
	return f.err
}

func (f *fakeService) last(t *testing.T) savedCall {
	t.Helper()
	if len(f.calls) == 0 {
		t.Fatal("expected at least one save")
	}
	return f.calls[len(f.calls)-1]
}

func newTestModel(svc Service, opts ...Option) Model {
	opts = append([]Option{WithClipboard(func(string) error { return nil })}, opts...)
	return NewModel(svc, board.Default(), opts...)
}

func TestModelMotionKeys(t *testing.T) {
	m := newTestModel(nil)
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	if got := m.board.Cursor(); got.Col != 2 || got.Row != 0 {
		t.Fatalf("unexpected cursor after right motions %#v", got)
	}
	m = applyMsg(t, m, keyRune('l'))
	if got := m.board.Cursor(); got.Col != 2 {
		t.Fatalf("expected cursor to stay on last list, got %#v", got)
	}
	m = applyMsg(t, m, keyRune('h'))
	m = applyMsg(t, m, keyRune('h'))
	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = applyMsg(t, m, keyRune('j'))
	if got := m.board.Cursor(); got.Col != 0 || got.Row != 2 {
		t.Fatalf("unexpected cursor after down motions %#v", got)
	}
	m = applyMsg(t, m, keyRune('k'))
	if got := m.board.Cursor(); got.Row != 1 {
		t.Fatalf("expected row 1 after up motion, got %#v", got)
	}
}

func TestModelMoveCardKeys(t *testing.T) {
	m := newTestModel(nil)
	m = applyMsg(t, m, keyRune('L'))
	lists := m.board.Lists()
	if len(lists[0].Cards) != 2 || lists[1].Cards[0] != "Card 1 in List 1" {
		t.Fatalf("expected card moved right, got %#v", lists)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyLeft, Mod: tea.ModShift})
	lists = m.board.Lists()
	if len(lists[0].Cards) != 3 || lists[0].Cards[0] != "Card 1 in List 1" {
		t.Fatalf("expected card moved back left, got %#v", lists)
	}
	m = applyMsg(t, m, keyRune('J'))
	if card, _ := m.board.CurrentCard(); card != "Card 1 in List 1" || m.board.Cursor().Row != 1 {
		t.Fatalf("expected card swapped down with cursor following, got %q at %#v", card, m.board.Cursor())
	}
}

func TestModelAppendCardAutosavesAfterConfirm(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc, WithBoardName("work"))
	m = applyMsg(t, m, keyRune('a'))
	if m.board.Mode() != board.ModeCardEdit {
		t.Fatalf("expected card edit mode, got %s", m.board.Mode())
	}
	m = applyMsg(t, m, keyRune('!'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'é', Text: "é"})
	if len(svc.calls) != 0 {
		t.Fatalf("expected no save while editing, got %d", len(svc.calls))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.board.Mode() != board.ModeMain {
		t.Fatalf("expected main mode after enter, got %s", m.board.Mode())
	}
	if len(svc.calls) != 1 {
		t.Fatalf("expected one autosave, got %d", len(svc.calls))
	}
	call := svc.last(t)
	if call.name != "work" {
		t.Fatalf("unexpected board name %q", call.name)
	}
	if got := call.snap.Lists[0].Cards[1]; got != board.NewCardText+"!é" {
		t.Fatalf("unexpected saved card %q", got)
	}
	if m.status != "saved" {
		t.Fatalf("expected saved status, got %q", m.status)
	}
}

func TestModelCursorOnlyChangesDoNotSave(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	for _, r := range "ljjkh" {
		m = applyMsg(t, m, keyRune(r))
	}
	if len(svc.calls) != 0 {
		t.Fatalf("expected no saves for cursor motion, got %d", len(svc.calls))
	}
}

func TestModelEscapeCancelsEdit(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m = applyMsg(t, m, keyRune('e'))
	m = applyMsg(t, m, keyRune('z'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if card, _ := m.board.CurrentCard(); card != "Card 1 in List 1" {
		t.Fatalf("expected cancelled edit to restore card, got %q", card)
	}
	if len(svc.calls) != 0 {
		t.Fatalf("expected no save after cancel, got %d", len(svc.calls))
	}
}

func TestModelListEditKeys(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m = applyMsg(t, m, keyRune('A'))
	if m.board.Mode() != board.ModeListEdit || m.board.Cursor().Col != 1 {
		t.Fatalf("expected list edit on new list, got %s at %#v", m.board.Mode(), m.board.Cursor())
	}
	for range len(board.NewListName) {
		m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	}
	for _, r := range "Doing" {
		m = applyMsg(t, m, keyRune(r))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := m.board.CurrentList().Name; got != "Doing" {
		t.Fatalf("unexpected list name %q", got)
	}
	if got := svc.last(t).snap.Lists[1].Name; got != "Doing" {
		t.Fatalf("unexpected saved list name %q", got)
	}

	m = applyMsg(t, m, keyRune('X'))
	if len(m.board.Lists()) != 3 {
		t.Fatalf("expected list removed, got %d lists", len(m.board.Lists()))
	}
}

func TestModelIgnoresCtrlTextWhileEditing(t *testing.T) {
	m := newTestModel(nil)
	m = applyMsg(t, m, keyRune('e'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'w', Text: "w", Mod: tea.ModCtrl})
	if got, _ := m.board.EditText(); got != "Card 1 in List 1" {
		t.Fatalf("expected ctrl chord ignored, got %q", got)
	}
}

func TestModelQuitWithoutChanges(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	updated, cmd := m.Update(keyRune('q'))
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected quit cmd")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg without pending changes")
	}
	if m.board.Running() {
		t.Fatal("expected board to stop running")
	}
	if len(svc.calls) != 0 {
		t.Fatalf("expected no save on clean quit, got %d", len(svc.calls))
	}
}

func TestModelQuitSavesPendingChanges(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc, WithAutosave(false))
	m = applyMsg(t, m, keyRune('x'))
	if len(svc.calls) != 0 {
		t.Fatalf("expected autosave disabled, got %d saves", len(svc.calls))
	}

	updated, cmd := m.Update(keyRune('q'))
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected final save cmd")
	}
	saved, ok := cmd().(savedMsg)
	if !ok {
		t.Fatal("expected savedMsg from final save")
	}
	updated, cmd = m.Update(saved)
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected quit after final save")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg after final save")
	}
	if len(svc.calls) != 1 || len(svc.last(t).snap.Lists[0].Cards) != 2 {
		t.Fatalf("unexpected final save %#v", svc.calls)
	}
	if svc.last(t).snap.Running {
		t.Fatal("expected final snapshot to be taken after quit")
	}

	m = applyMsg(t, m, keyRune('x'))
	if len(m.board.Lists()[0].Cards) != 2 {
		t.Fatal("expected keys ignored after quit")
	}
}

func TestModelCtrlCWhileEditingCancelsAndQuits(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m = applyMsg(t, m, keyRune('e'))
	m = applyMsg(t, m, keyRune('z'))
	updated, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	m = updated.(Model)
	if m.board.Mode() != board.ModeMain || m.board.Running() {
		t.Fatalf("expected cancelled edit and stopped board, got %s running=%t", m.board.Mode(), m.board.Running())
	}
	if card, _ := m.board.CurrentCard(); card != "Card 1 in List 1" {
		t.Fatalf("expected rollback before quit, got %q", card)
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestModelSaveErrorSurfaces(t *testing.T) {
	svc := &fakeService{err: errors.New("disk full")}
	m := newTestModel(svc)
	m = applyMsg(t, m, keyRune('x'))
	if !errors.Is(m.Err(), svc.err) {
		t.Fatalf("expected save error recorded, got %v", m.Err())
	}
	if !strings.Contains(m.status, "disk full") {
		t.Fatalf("expected save failure status, got %q", m.status)
	}
}

func TestModelManualSave(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc, WithAutosave(false))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	if len(svc.calls) != 1 {
		t.Fatalf("expected manual save, got %d saves", len(svc.calls))
	}
}

func TestModelYankCopiesSelectedCard(t *testing.T) {
	var copied string
	m := newTestModel(nil, WithClipboard(func(s string) error {
		copied = s
		return nil
	}))
	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, keyRune('y'))
	if copied != "Card 2 in List 1" {
		t.Fatalf("unexpected clipboard text %q", copied)
	}
	if m.status != "copied card" {
		t.Fatalf("unexpected status %q", m.status)
	}

	failing := newTestModel(nil, WithClipboard(func(string) error { return errors.New("no clipboard") }))
	failing = applyMsg(t, failing, keyRune('y'))
	if !strings.Contains(failing.status, "no clipboard") {
		t.Fatalf("expected copy failure status, got %q", failing.status)
	}

	empty := NewModel(nil, board.New(board.List{Name: "Empty"}))
	empty = applyMsg(t, empty, keyRune('y'))
	if empty.status != "no card to copy" {
		t.Fatalf("unexpected empty-list status %q", empty.status)
	}
}

func TestModelKeyConfigOverridesYank(t *testing.T) {
	var copied string
	m := newTestModel(nil, WithKeyConfig(KeyConfig{Yank: "c"}), WithClipboard(func(s string) error {
		copied = s
		return nil
	}))
	m = applyMsg(t, m, keyRune('y'))
	if copied != "" {
		t.Fatalf("expected default yank key unbound, copied %q", copied)
	}
	m = applyMsg(t, m, keyRune('c'))
	if copied != "Card 1 in List 1" {
		t.Fatalf("unexpected clipboard text %q", copied)
	}
}

func TestModelCollidingKeyConfigKeepsYankReachable(t *testing.T) {
	var copied string
	m := newTestModel(nil, WithKeyConfig(KeyConfig{Yank: "y", Help: "y"}), WithClipboard(func(s string) error {
		copied = s
		return nil
	}))
	if !strings.Contains(m.status, "key config ignored") {
		t.Fatalf("expected collision reported on status line, got %q", m.status)
	}
	m = applyMsg(t, m, keyRune('y'))
	if m.help.ShowAll {
		t.Fatal("expected y to copy, not open help")
	}
	if copied != "Card 1 in List 1" {
		t.Fatalf("unexpected clipboard text %q", copied)
	}
	m = applyMsg(t, m, keyRune('?'))
	if !m.help.ShowAll {
		t.Fatal("expected default help key to stay bound")
	}
}

func TestModelTracksInFlightSave(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	updated, cmd := m.Update(keyRune('x'))
	if cmd == nil {
		t.Fatal("expected autosave command")
	}
	pending := updated.(Model)
	if !pending.saving {
		t.Fatal("expected returned model to record the in-flight save")
	}
	updated, dup := pending.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	if dup != nil {
		t.Fatal("expected no second save while one is in flight")
	}
	if got := updated.(Model).status; got != "save in progress" {
		t.Fatalf("unexpected status %q", got)
	}
	done := applyCmd(t, updated.(Model), cmd)
	if done.saving || len(svc.calls) != 1 {
		t.Fatalf("expected one finished save, saving=%t calls=%d", done.saving, len(svc.calls))
	}
}

func TestModelHelpOverlayBlocksBoardKeys(t *testing.T) {
	m := newTestModel(nil)
	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	m = applyMsg(t, m, keyRune('?'))
	if !m.help.ShowAll {
		t.Fatal("expected help overlay open")
	}
	if !strings.Contains(m.render(), "Kanban Help") {
		t.Fatal("expected help overlay in render")
	}
	m = applyMsg(t, m, keyRune('x'))
	if len(m.board.Lists()[0].Cards) != 3 {
		t.Fatal("expected board keys ignored while help is open")
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.help.ShowAll {
		t.Fatal("expected esc to close help")
	}
}

func TestModelRenderShowsBoardAndCaret(t *testing.T) {
	m := newTestModel(nil, WithBoardName("work"))
	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	out := m.render()
	for _, want := range []string{"kanban", "work", "0 List 1", "2 List 3", "Card 1 in List 1", "[Main]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected render to contain %q\n%s", want, out)
		}
	}

	m = applyMsg(t, m, keyRune('e'))
	out = m.render()
	if !strings.Contains(out, "Card 1 in List 1"+editCaret) || !strings.Contains(out, "[CardEdit]") {
		t.Fatalf("expected edit caret and mode in render\n%s", out)
	}
	if !strings.Contains(out, "confirm") {
		t.Fatalf("expected edit help in footer\n%s", out)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	m = applyMsg(t, m, keyRune('E'))
	if out = m.render(); !strings.Contains(out, "List 1"+editCaret) || !strings.Contains(out, "[ListEdit]") {
		t.Fatalf("expected list caret in render\n%s", out)
	}
	m = applyMsg(t, m, keyRune('!'))
	if out = m.render(); !strings.Contains(out, "List 1!"+editCaret) {
		t.Fatalf("expected live list name in render\n%s", out)
	}
}

func TestModelRenderScrollsColumnsToCursor(t *testing.T) {
	m := newTestModel(nil)
	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 50, Height: 30})
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, keyRune('l'))
	out := m.render()
	if !strings.Contains(out, "2 List 3") {
		t.Fatalf("expected selected list visible\n%s", out)
	}
	if strings.Contains(out, "0 List 1") {
		t.Fatalf("expected first list scrolled out\n%s", out)
	}
}

func TestModelPreviewToggle(t *testing.T) {
	m := newTestModel(nil)
	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if strings.Contains(m.render(), "Preview") {
		t.Fatal("expected preview hidden by default")
	}
	m = applyMsg(t, m, keyRune('p'))
	if !m.showPreview || !strings.Contains(m.render(), "Preview") {
		t.Fatal("expected preview shown after toggle")
	}
	if NewModel(nil, nil, WithPreview(true)).showPreview != true {
		t.Fatal("expected WithPreview to open preview")
	}
}

func TestModelViewUsesAltScreen(t *testing.T) {
	v := newTestModel(nil).View()
	if !v.AltScreen {
		t.Fatal("expected alt screen view")
	}
}

func TestTruncateHelpers(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate() = %q", got)
	}
	if got := truncateLeft("abcdef_", 4); got != "…ef_" {
		t.Fatalf("truncateLeft() = %q", got)
	}
	if got := truncate("日本語", 6); got != "日本語" {
		t.Fatalf("truncate() wide = %q", got)
	}
	if got := truncate("日本語", 5); got != "日本…" {
		t.Fatalf("truncate() wide cut = %q", got)
	}
	if start, end := windowBounds(10, 9, 3); start != 7 || end != 10 {
		t.Fatalf("windowBounds() = %d,%d", start, end)
	}
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}
