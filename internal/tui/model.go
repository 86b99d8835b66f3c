package tui

import (
	"context"
	"slices"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/kanban/internal/board"
)

// Service persists board snapshots.
type Service interface {
	SaveBoard(context.Context, string, board.Snapshot) error
}

// saveTimeout bounds a single save command.
const saveTimeout = 5 * time.Second

// defaultBoardName is used when no WithBoardName option is given.
const defaultBoardName = "main"

// Model is the Bubble Tea model driving one board.
type Model struct {
	svc       Service
	board     *board.Board
	boardName string

	ready  bool
	width  int
	height int

	status string
	err    error

	help     help.Model
	keys     keyMap
	editKeys editKeyMap

	autosave    bool
	columnWidth int
	showPreview bool
	preview     *markdownRenderer
	clipboard   ClipboardWriter

	saving     bool
	savedRev   uint64
	savedLists []board.List
	quitting   bool
}

// savedMsg reports the result of one save command.
type savedMsg struct {
	rev   uint64
	lists []board.List
	err   error
}

// yankedMsg reports the result of a clipboard copy.
type yankedMsg struct {
	err error
}

// NewModel constructs a model over b. The board as given is treated as the
// last saved state.
func NewModel(svc Service, b *board.Board, opts ...Option) Model {
	if b == nil {
		b = board.Default()
	}
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:         svc,
		board:       b,
		boardName:   defaultBoardName,
		status:      "ready",
		help:        h,
		keys:        newKeyMap(),
		editKeys:    newEditKeyMap(),
		autosave:    true,
		columnWidth: 40,
		preview:     &markdownRenderer{},
		clipboard:   defaultClipboard,
		savedRev:    b.Revision(),
		savedLists:  b.Lists(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Board returns the board driven by the model.
func (m Model) Board() *board.Board {
	return m.board
}

// Err returns the last save error, if the most recent save failed.
func (m Model) Err() error {
	return m.err
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case savedMsg:
		return m.handleSaved(msg)

	case yankedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "copied card"
		return m, nil

	case tea.KeyPressMsg:
		if m.quitting {
			return m, nil
		}
		if m.help.ShowAll {
			return m.handleHelpKey(msg)
		}
		switch m.board.Mode() {
		case board.ModeMain:
			return m.handleMainKey(msg)
		case board.ModeCardEdit, board.ModeListEdit:
			return m.handleEditKey(msg)
		default:
			return m, nil
		}

	default:
		return m, nil
	}
}

// handleHelpKey closes the help overlay. Quit still works.
func (m Model) handleHelpKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.help.ShowAll = false
		return m.quit()
	case key.Matches(msg, m.keys.toggleHelp), msg.Code == tea.KeyEscape:
		m.help.ShowAll = false
	}
	return m, nil
}

// handleMainKey dispatches navigation and structural keys.
func (m Model) handleMainKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	b := m.board
	rev := b.Revision()
	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()

	case key.Matches(msg, m.keys.cardLeft):
		b.MoveCardLeft()
	case key.Matches(msg, m.keys.cardRight):
		b.MoveCardRight()
	case key.Matches(msg, m.keys.cardUp):
		b.MoveCardUp()
	case key.Matches(msg, m.keys.cardDown):
		b.MoveCardDown()

	case key.Matches(msg, m.keys.moveLeft):
		b.MotionLeft()
	case key.Matches(msg, m.keys.moveRight):
		b.MotionRight()
	case key.Matches(msg, m.keys.moveUp):
		b.MotionUp()
	case key.Matches(msg, m.keys.moveDown):
		b.MotionDown()

	case key.Matches(msg, m.keys.appendCard):
		b.AppendCard()
	case key.Matches(msg, m.keys.prependCard):
		b.PrependCard()
	case key.Matches(msg, m.keys.editCard):
		b.EditCard()
	case key.Matches(msg, m.keys.removeCard):
		b.RemoveCard()

	case key.Matches(msg, m.keys.appendList):
		b.AppendList()
	case key.Matches(msg, m.keys.prependList):
		b.PrependList()
	case key.Matches(msg, m.keys.editList):
		b.EditList()
	case key.Matches(msg, m.keys.removeList):
		b.RemoveList()

	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = true
		return m, nil
	case key.Matches(msg, m.keys.preview):
		m.showPreview = !m.showPreview
		return m, nil
	case key.Matches(msg, m.keys.yank):
		return m.yank()
	case key.Matches(msg, m.keys.save):
		if m.saving {
			m.status = "save in progress"
			return m, nil
		}
		m.status = "saving..."
		cmd := m.startSave()
		return m, cmd

	default:
		return m, nil
	}

	if b.Revision() != rev {
		m.status = ""
	}
	cmd := m.afterChange()
	return m, cmd
}

// handleEditKey feeds text input to the open edit session.
func (m Model) handleEditKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	b := m.board
	switch {
	case msg.String() == "ctrl+c":
		b.Cancel()
		return m.quit()
	case msg.Code == tea.KeyEnter:
		b.Confirm()
	case msg.Code == tea.KeyEscape:
		b.Cancel()
	case msg.Code == tea.KeyBackspace:
		b.Backspace()
	case msg.Text != "" && msg.Mod&(tea.ModCtrl|tea.ModAlt) == 0:
		for _, r := range msg.Text {
			b.Type(r)
		}
	default:
		return m, nil
	}
	cmd := m.afterChange()
	return m, cmd
}

// yank copies the selected card text to the clipboard.
func (m Model) yank() (tea.Model, tea.Cmd) {
	card, ok := m.board.CurrentCard()
	if !ok {
		m.status = "no card to copy"
		return m, nil
	}
	write := m.clipboard
	return m, func() tea.Msg {
		return yankedMsg{err: write(card)}
	}
}

// quit stops the board and issues a final save when content changed.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.board.Quit()
	m.quitting = true
	if m.saving {
		// handleSaved finishes the shutdown.
		return m, nil
	}
	if m.svc == nil || !m.dirty() {
		return m, tea.Quit
	}
	cmd := m.startSave()
	return m, cmd
}

// handleSaved records a finished save and decides whether another one or the
// final quit should follow.
func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if msg.err != nil {
		m.err = msg.err
		m.status = "save failed: " + msg.err.Error()
	} else {
		m.err = nil
		if msg.rev >= m.savedRev {
			m.savedRev = msg.rev
			m.savedLists = msg.lists
		}
		if !m.quitting {
			m.status = "saved"
		}
	}
	if m.quitting {
		if msg.err == nil && m.dirty() {
			cmd := m.startSave()
			return m, cmd
		}
		return m, tea.Quit
	}
	if msg.err != nil {
		// retried on the next content change
		return m, nil
	}
	cmd := m.afterChange()
	return m, cmd
}

// afterChange returns an autosave command when the board is back in Main
// with unsaved content.
func (m *Model) afterChange() tea.Cmd {
	if !m.autosave || m.saving || m.board.Mode() != board.ModeMain || !m.dirty() {
		return nil
	}
	return m.startSave()
}

// startSave snapshots the board and returns the command that writes it.
func (m *Model) startSave() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	m.saving = true
	snap := m.board.Snapshot()
	svc, name := m.svc, m.boardName
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		err := svc.SaveBoard(ctx, name, snap)
		return savedMsg{rev: snap.Revision, lists: snap.Lists, err: err}
	}
}

// dirty reports whether list content differs from the last saved state.
// Cursor-only changes are not dirty.
func (m Model) dirty() bool {
	if m.board.Revision() == m.savedRev {
		return false
	}
	return !slices.EqualFunc(m.board.Lists(), m.savedLists, func(a, b board.List) bool {
		return a.Name == b.Name && slices.Equal(a.Cards, b.Cards)
	})
}
