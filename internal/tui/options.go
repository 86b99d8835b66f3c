package tui

import "github.com/atotto/clipboard"

// Option configures a Model.
type Option func(*Model)

// ClipboardWriter copies text to the system clipboard.
type ClipboardWriter func(string) error

// defaultClipboard writes through the OS clipboard tools.
func defaultClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// WithBoardName sets the board name used for saves and the header.
func WithBoardName(name string) Option {
	return func(m *Model) {
		if name != "" {
			m.boardName = name
		}
	}
}

// WithAutosave toggles saving after each content change.
func WithAutosave(enabled bool) Option {
	return func(m *Model) {
		m.autosave = enabled
	}
}

// WithColumnWidth sets the inner width of each list column.
func WithColumnWidth(width int) Option {
	return func(m *Model) {
		if width > 0 {
			m.columnWidth = width
		}
	}
}

// WithPreview sets whether the markdown preview starts open.
func WithPreview(show bool) Option {
	return func(m *Model) {
		m.showPreview = show
	}
}

// WithKeyConfig applies binding overrides. Colliding overrides are dropped
// and reported on the status line.
func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		if err := m.keys.applyConfig(cfg); err != nil {
			m.status = "key config ignored: " + err.Error()
		}
	}
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(write ClipboardWriter) Option {
	return func(m *Model) {
		if write != nil {
			m.clipboard = write
		}
	}
}
