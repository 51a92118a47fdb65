// Package render formats aggregated reminders and priorities for the
// terminal, colouring each reminder by its priority.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/rmnd/internal/models"
)

// Options controls text rendering.
type Options struct {
	// ShowIDs prefixes each reminder with its 1-based index in its file.
	ShowIDs bool
	// Profile forces a colour profile. The zero value detects it from the
	// writer, which yields plain text for anything but a terminal.
	Profile *termenv.Profile
}

// Renderer writes reminders and priorities to a single writer.
type Renderer struct {
	w    io.Writer
	r    *lipgloss.Renderer
	opts Options
}

// New returns a Renderer writing to w.
func New(w io.Writer, opts Options) *Renderer {
	r := lipgloss.NewRenderer(w)
	if opts.Profile != nil {
		r.SetColorProfile(*opts.Profile)
	}
	return &Renderer{w: w, r: r, opts: opts}
}

// TerminalColor maps a priority colour to a lipgloss colour: the ANSI palette
// index for named colours and the hex triplet for true colour.
func TerminalColor(c models.Color) lipgloss.Color {
	if c.IsTrueColor() {
		return lipgloss.Color(c.String())
	}
	return lipgloss.Color(strconv.Itoa(int(c.Kind)))
}

// Reminders writes every group of sum under a header naming its source file.
// Reminders whose priority no longer exists are written uncoloured.
func (r *Renderer) Reminders(sum *models.ConfigSum) error {
	header := r.r.NewStyle().Bold(true)
	for _, g := range sum.Groups() {
		if _, err := fmt.Fprintln(r.w, header.Render(g.Path)); err != nil {
			return err
		}
		for _, rem := range g.Reminders {
			line := rem.Text
			if p, ok := sum.FindPriority(rem.Priority); ok {
				line = r.r.NewStyle().Foreground(TerminalColor(p.Color)).Render(line)
			}
			if r.opts.ShowIDs {
				line = fmt.Sprintf("[%d] %s", rem.Index, line)
			}
			if _, err := fmt.Fprintln(r.w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// Priorities writes one line per priority with a colour swatch.
func (r *Renderer) Priorities(prios []models.Priority) error {
	if len(prios) == 0 {
		_, err := fmt.Fprintln(r.w, "No priorities defined.")
		return err
	}
	for _, p := range prios {
		swatch := r.r.NewStyle().Foreground(TerminalColor(p.Color)).Render("■")
		if _, err := fmt.Fprintf(r.w, "%s %s (id %s, %s)\n", swatch, p.Name, p.ID, p.Color); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// YAML
// ---------------------------------------------------------------------------

type yamlReminder struct {
	ID       int    `yaml:"id"`
	Priority string `yaml:"priority"`
	Author   string `yaml:"author,omitempty"`
	Text     string `yaml:"text"`
}

type yamlGroup struct {
	Path      string         `yaml:"path"`
	Reminders []yamlReminder `yaml:"reminders"`
}

// RemindersYAML writes the groups of sum as a YAML sequence.
func RemindersYAML(w io.Writer, sum *models.ConfigSum) error {
	groups := make([]yamlGroup, 0)
	for _, g := range sum.Groups() {
		yg := yamlGroup{Path: g.Path, Reminders: make([]yamlReminder, 0, len(g.Reminders))}
		for _, rem := range g.Reminders {
			yg.Reminders = append(yg.Reminders, yamlReminder{
				ID:       rem.Index,
				Priority: rem.Priority,
				Author:   rem.Author,
				Text:     rem.Text,
			})
		}
		groups = append(groups, yg)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(groups); err != nil {
		return fmt.Errorf("render: encode yaml: %w", err)
	}
	return enc.Close()
}
