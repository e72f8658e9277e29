package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/goliatone/go-userform/pkg/render"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	idStyle     = cellStyle.Foreground(lipgloss.AdaptiveColor{Light: "#52606D", Dark: "#9AA5B1"})
)

// TableRenderer renders the user list as a bordered terminal table.
type TableRenderer struct{}

var _ render.Renderer = TableRenderer{}

func (TableRenderer) Name() string { return "table" }

func (TableRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (TableRenderer) Render(_ context.Context, view render.View) ([]byte, error) {
	if view.Registry == nil {
		return nil, errors.New("tui: view has no registry")
	}
	if len(view.Users) == 0 {
		return []byte("No users yet.\n"), nil
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(render.Headers(view.Registry)...).
		Rows(render.Rows(view.Registry, view.Users)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return idStyle
			default:
				return cellStyle
			}
		})
	return []byte(t.Render() + "\n"), nil
}
