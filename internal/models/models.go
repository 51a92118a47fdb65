// Package models defines the core data types for rmnd: priorities, reminders,
// the on-disk config file and the ephemeral aggregation results.
package models

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PlaceholderID is the id given to every priority until ids are assigned
// properly. It is not unique.
const PlaceholderID = "0"

// DefaultAuthor is the author of the seeded reminders in a fresh config.
const DefaultAuthor = "John Doe, johndoe, johndoe@gmail.com"

// DefaultPriority is the name of the seeded priority in a fresh global config.
const DefaultPriority = "Critical"

// Priority is a named reminder level. Name is the lookup key.
type Priority struct {
	Name  string `toml:"name" yaml:"name"`
	ID    string `toml:"id" yaml:"id"`
	Color Color  `toml:"color" yaml:"color"`
}

// Validate implements validation.Validatable.
func (p Priority) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Color),
	)
}

// Reminder is a single reminder. Priority holds a priority name, which may no
// longer exist in the global list.
type Reminder struct {
	Priority string `toml:"priority" yaml:"priority"`
	Author   string `toml:"author" yaml:"author"`
	Text     string `toml:"text" yaml:"text"`
}

// Validate implements validation.Validatable.
func (r Reminder) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Priority, validation.Required),
		validation.Field(&r.Text, validation.Required),
	)
}

// LocalReminder pairs a reminder with the config file it was loaded from.
type LocalReminder struct {
	Reminder
	Path  string // absolute path of the source config file
	Index int    // 1-based position in the source file's reminder list
}

// Settings holds optional user details used as the default reminder author.
type Settings struct {
	Name     string `toml:"name,omitempty"`
	Username string `toml:"username,omitempty"`
	Email    string `toml:"email,omitempty"`
}

// Author joins the non-empty settings as "Name, username, email".
func (s Settings) Author() string {
	parts := make([]string, 0, 3)
	for _, v := range []string{s.Name, s.Username, s.Email} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// ConfigFile is the persisted unit, used for both the global config and
// local configs. Only the global config carries ConfigPaths and Priorities.
type ConfigFile struct {
	ConfigPaths []string   `toml:"config_paths"`
	Priorities  []Priority `toml:"priorities"`
	Reminders   []Reminder `toml:"reminders"`
	Settings    Settings   `toml:"settings"`

	// Path is the absolute location the file was loaded from. Never serialized.
	Path string `toml:"-"`
}

// DefaultGlobal returns the content written on first run.
func DefaultGlobal() *ConfigFile {
	return &ConfigFile{
		ConfigPaths: make([]string, 0),
		Priorities: []Priority{{
			Name:  DefaultPriority,
			ID:    PlaceholderID,
			Color: Named(Red),
		}},
		Reminders: []Reminder{{
			Priority: DefaultPriority,
			Author:   DefaultAuthor,
			Text:     "This is a global critical reminder!",
		}},
	}
}

// DefaultLocal returns the content written by `rmnd init`.
func DefaultLocal() *ConfigFile {
	return &ConfigFile{
		ConfigPaths: make([]string, 0),
		Priorities:  make([]Priority, 0),
		Reminders: []Reminder{{
			Priority: DefaultPriority,
			Author:   DefaultAuthor,
			Text:     "This is a local critical reminder!",
		}},
	}
}

// Normalize replaces nil slices with empty ones so that freshly decoded files
// compare equal to constructed ones.
func (c *ConfigFile) Normalize() {
	if c.ConfigPaths == nil {
		c.ConfigPaths = make([]string, 0)
	}
	if c.Priorities == nil {
		c.Priorities = make([]Priority, 0)
	}
	if c.Reminders == nil {
		c.Reminders = make([]Reminder, 0)
	}
}

// Validate checks every priority and reminder in the file.
func (c *ConfigFile) Validate() error {
	for i, p := range c.Priorities {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("priorities[%d]: %w", i, err)
		}
	}
	for i, r := range c.Reminders {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("reminders[%d]: %w", i, err)
		}
	}
	return nil
}

// FindPriority returns the first priority in list named name.
func FindPriority(list []Priority, name string) (Priority, bool) {
	for _, p := range list {
		if p.Name == name {
			return p, true
		}
	}
	return Priority{}, false
}

// ---------------------------------------------------------------------------
// Aggregation results
// ---------------------------------------------------------------------------

// ConfigSum is the merged view over one or more config files.
type ConfigSum struct {
	Priorities []Priority
	Reminders  []LocalReminder
}

// FindPriority looks up a priority by name in the merged priority list.
func (s *ConfigSum) FindPriority(name string) (Priority, bool) {
	return FindPriority(s.Priorities, name)
}

// Filter returns a copy of s keeping only reminders whose priority matches
// one of selectors by name or by id. An empty selector list keeps everything.
func (s *ConfigSum) Filter(selectors []string) *ConfigSum {
	out := &ConfigSum{Priorities: s.Priorities, Reminders: make([]LocalReminder, 0, len(s.Reminders))}
	if len(selectors) == 0 {
		out.Reminders = append(out.Reminders, s.Reminders...)
		return out
	}

	want := make(map[string]bool, len(selectors))
	for _, sel := range selectors {
		want[sel] = true
	}
	for _, r := range s.Reminders {
		if want[r.Priority] {
			out.Reminders = append(out.Reminders, r)
			continue
		}
		if p, ok := s.FindPriority(r.Priority); ok && want[p.ID] {
			out.Reminders = append(out.Reminders, r)
		}
	}
	return out
}

// ReminderGroup is a contiguous run of reminders from the same file.
type ReminderGroup struct {
	Path      string
	Reminders []LocalReminder
}

// Groups splits the reminders into contiguous runs sharing a source path.
func (s *ConfigSum) Groups() []ReminderGroup {
	var groups []ReminderGroup
	for _, r := range s.Reminders {
		if n := len(groups); n > 0 && groups[n-1].Path == r.Path {
			groups[n-1].Reminders = append(groups[n-1].Reminders, r)
			continue
		}
		groups = append(groups, ReminderGroup{Path: r.Path, Reminders: []LocalReminder{r}})
	}
	return groups
}
