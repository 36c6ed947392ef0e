package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"sigs.k8s.io/yaml"

	"github.com/sunet/openstack-operator/api/v1alpha1"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	readyStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	failedStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

// table is a simple column-aligned table. Cells are padded on the raw text
// and styled afterwards, so escape codes do not break the alignment.
type table struct {
	header []string
	rows   [][]string
	// style picks the style of a cell; nil leaves it plain.
	style func(row, col int) *lipgloss.Style
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) widths() []int {
	w := make([]int, len(t.header))
	for i, h := range t.header {
		w[i] = len(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			if n := lipgloss.Width(c); n > w[i] {
				w[i] = n
			}
		}
	}
	return w
}

func (t *table) render(out io.Writer, styled bool) {
	w := t.widths()
	line := func(cells []string, cellStyle func(col int) *lipgloss.Style) {
		var b strings.Builder
		for i, c := range cells {
			cell := c
			if i < len(cells)-1 {
				cell = fmt.Sprintf("%-*s", w[i], c)
			}
			if styled {
				if s := cellStyle(i); s != nil {
					cell = s.Render(cell)
				}
			}
			b.WriteString(cell)
			if i < len(cells)-1 {
				b.WriteString("   ")
			}
		}
		fmt.Fprintln(out, strings.TrimRight(b.String(), " "))
	}

	line(t.header, func(int) *lipgloss.Style { return &headerStyle })
	for r, row := range t.rows {
		line(row, func(col int) *lipgloss.Style {
			if t.style == nil {
				return nil
			}
			return t.style(r, col)
		})
	}
}

func phaseStyle(phase v1alpha1.ResourcePhase) *lipgloss.Style {
	switch phase {
	case v1alpha1.PhaseReady:
		return &readyStyle
	case v1alpha1.PhaseError:
		return &failedStyle
	case v1alpha1.PhaseProvisioning, v1alpha1.PhaseDeleting:
		return &warningStyle
	}
	return &dimStyle
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func printYAML(out io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func printTitle(out io.Writer, title string, styled bool) {
	if styled {
		title = titleStyle.Render(title)
	}
	fmt.Fprintln(out, title)
}
