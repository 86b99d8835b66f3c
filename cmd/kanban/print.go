package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/evanschultz/kanban/internal/board"
	"github.com/muesli/termenv"
)

// applyPrintColorProfile drops color when --no-color or NO_COLOR is set.
func applyPrintColorProfile(noColor bool) {
	if noColor || strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// renderBoardTable renders snap with one column per list.
func renderBoardTable(name string, snap board.Snapshot) string {
	headers := make([]string, 0, len(snap.Lists))
	depth := 0
	for _, l := range snap.Lists {
		headers = append(headers, fmt.Sprintf("%s (%d)", l.Name, len(l.Cards)))
		depth = max(depth, len(l.Cards))
	}

	rows := make([][]string, 0, depth)
	for row := range depth {
		cells := make([]string, len(snap.Lists))
		for col, l := range snap.Lists {
			if row < len(l.Cards) {
				cells[col] = l.Cards[row]
			}
		}
		rows = append(rows, cells)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("239"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	title := lipgloss.NewStyle().Bold(true).Render(name)
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).
		Render(fmt.Sprintf("%d lists • %d cards", len(snap.Lists), snap.CardCount()))
	return title + "  " + summary + "\n" + t.Render()
}
