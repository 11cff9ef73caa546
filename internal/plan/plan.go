// Package plan turns resolved levels into a serializable execution plan and
// renders it for humans and machines.
package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/vk/gridlevels/deplevel"
)

// Plan is the level-ordered schedule of a grid.
type Plan struct {
	Strategy string  `json:"strategy"`
	Levels   []Level `json:"levels"`
}

// Level lists the identifiers that can run together.
type Level struct {
	Level int      `json:"level"`
	IDs   []string `json:"ids"`
}

// FromLevels builds a plan from a resolution result. Identifiers within a
// level are sorted so that rendered output is stable.
func FromLevels(levels *deplevel.Levels[string], strategy deplevel.Strategy) *Plan {
	p := &Plan{
		Strategy: strategy.String(),
		Levels:   make([]Level, 0, levels.Len()),
	}
	for lv := range levels.IterLevel() {
		ids := lv.IDs.Slice()
		slices.Sort(ids)
		p.Levels = append(p.Levels, Level{Level: lv.Level, IDs: ids})
	}
	return p
}

// Count returns the number of identifiers across all levels.
func (p *Plan) Count() int {
	n := 0
	for _, lv := range p.Levels {
		n += len(lv.IDs)
	}
	return n
}

// MarshalIndent returns the indented JSON encoding of the plan.
func (p *Plan) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Write renders the plan in the given format, "text" or "json".
func (p *Plan) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		data, err := p.MarshalIndent()
		if err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "text", "":
		for _, lv := range p.Levels {
			if _, err := fmt.Fprintf(w, "level %d: %s\n", lv.Level, strings.Join(lv.IDs, ", ")); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
