package tui

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// KeyConfig holds user overrides for the optional bindings.
type KeyConfig struct {
	Yank    string
	Preview string
	Help    string
}

// keyMap holds the Main-mode bindings.
type keyMap struct {
	quit       key.Binding
	toggleHelp key.Binding
	save       key.Binding

	moveLeft  key.Binding
	moveRight key.Binding
	moveUp    key.Binding
	moveDown  key.Binding

	cardLeft  key.Binding
	cardRight key.Binding
	cardUp    key.Binding
	cardDown  key.Binding

	appendCard  key.Binding
	prependCard key.Binding
	editCard    key.Binding
	removeCard  key.Binding

	appendList  key.Binding
	prependList key.Binding
	editList    key.Binding
	removeList  key.Binding

	yank    key.Binding
	preview key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),

		moveLeft:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "list left")),
		moveRight: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "list right")),
		moveUp:    key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "card up")),
		moveDown:  key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "card down")),

		cardLeft:  key.NewBinding(key.WithKeys("H", "shift+h", "shift+left"), key.WithHelp("H", "move card left")),
		cardRight: key.NewBinding(key.WithKeys("L", "shift+l", "shift+right"), key.WithHelp("L", "move card right")),
		cardUp:    key.NewBinding(key.WithKeys("K", "shift+k", "shift+up"), key.WithHelp("K", "move card up")),
		cardDown:  key.NewBinding(key.WithKeys("J", "shift+j", "shift+down"), key.WithHelp("J", "move card down")),

		appendCard:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "append card")),
		prependCard: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "prepend card")),
		editCard:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit card")),
		removeCard:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove card")),

		appendList:  key.NewBinding(key.WithKeys("A", "shift+a"), key.WithHelp("A", "append list")),
		prependList: key.NewBinding(key.WithKeys("I", "shift+i"), key.WithHelp("I", "prepend list")),
		editList:    key.NewBinding(key.WithKeys("E", "shift+e"), key.WithHelp("E", "edit list")),
		removeList:  key.NewBinding(key.WithKeys("X", "shift+x"), key.WithHelp("X", "remove list")),

		yank:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy card")),
		preview: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "toggle preview")),
	}
}

// applyConfig replaces the overridable bindings. Blank values keep defaults.
// A colliding config is rejected whole and the defaults stay in place.
func (k *keyMap) applyConfig(cfg KeyConfig) error {
	if err := validateKeyConfig(k.fixedKeys(), cfg); err != nil {
		return err
	}
	configureBinding(&k.yank, cfg.Yank, "y", "copy card")
	configureBinding(&k.preview, cfg.Preview, "p", "toggle preview")
	configureBinding(&k.toggleHelp, cfg.Help, "?", "toggle help")
	return nil
}

// fixedKeys maps every key of a non-overridable binding to its help text.
func (k keyMap) fixedKeys() map[string]string {
	fixed := []key.Binding{
		k.quit, k.save,
		k.moveLeft, k.moveRight, k.moveUp, k.moveDown,
		k.cardLeft, k.cardRight, k.cardUp, k.cardDown,
		k.appendCard, k.prependCard, k.editCard, k.removeCard,
		k.appendList, k.prependList, k.editList, k.removeList,
	}
	taken := make(map[string]string)
	for _, b := range fixed {
		for _, name := range b.Keys() {
			taken[name] = b.Help().Desc
		}
	}
	return taken
}

// ValidateKeyConfig reports overrides that collide with a fixed binding or
// with another override.
func ValidateKeyConfig(cfg KeyConfig) error {
	return validateKeyConfig(newKeyMap().fixedKeys(), cfg)
}

func validateKeyConfig(taken map[string]string, cfg KeyConfig) error {
	optional := []struct {
		field, raw, fallback string
	}{
		{"keys.yank", cfg.Yank, "y"},
		{"keys.preview", cfg.Preview, "p"},
		{"keys.help", cfg.Help, "?"},
	}
	for _, o := range optional {
		keys, _ := parseBindingKeys(o.raw, o.fallback)
		for _, name := range keys {
			if owner, ok := taken[name]; ok {
				return fmt.Errorf("%s %q is already bound to %s", o.field, name, owner)
			}
		}
		for _, name := range keys {
			taken[name] = o.field
		}
	}
	return nil
}

// configureBinding rewrites b for raw, falling back when raw is blank.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, helpKey := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(helpKey, desc)
}

// parseBindingKeys turns one configured key into matcher keys and a help label.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if strings.EqualFold(raw, "space") || raw == " " {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
		}
		return []string{raw}, raw
	}
	return []string{strings.ToLower(raw)}, raw
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.appendCard, k.editCard, k.removeCard, k.cardLeft, k.cardRight, k.appendList, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown},
		{k.cardLeft, k.cardRight, k.cardUp, k.cardDown},
		{k.appendCard, k.prependCard, k.editCard, k.removeCard},
		{k.appendList, k.prependList, k.editList, k.removeList},
		{k.yank, k.preview, k.save, k.toggleHelp, k.quit},
	}
}

// editKeyMap holds the bindings shown while text is being edited.
type editKeyMap struct {
	confirm   key.Binding
	cancel    key.Binding
	backspace key.Binding
}

func newEditKeyMap() editKeyMap {
	return editKeyMap{
		confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete")),
	}
}

// ShortHelp handles short help.
func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.confirm, k.cancel, k.backspace}
}

// FullHelp handles full help.
func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
