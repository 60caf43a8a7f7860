package style

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Stable identifiers of the overrides the engine owns. Re-applying an action
// of the same kind replaces the override under the same id.
const (
	BackgroundOverrideID = "chat-bg-override"
	SpacingOverrideID    = "chat-spacing-override"
)

// Declarations maps CSS property names to values.
type Declarations map[string]string

// Override is a named presentation layer that supersedes the page defaults.
type Override struct {
	ID       string
	Selector string
	Decls    Declarations
}

// CSS renders the override as a single important rule with sorted properties.
func (o Override) CSS() string {
	var b strings.Builder
	b.WriteString(o.Selector)
	b.WriteString(" {")
	for _, k := range slices.Sorted(maps.Keys(o.Decls)) {
		fmt.Fprintf(&b, " %s: %s !important;", k, o.Decls[k])
	}
	b.WriteString(" }")
	return b.String()
}

// Surface is the live document the engine mutates.
type Surface interface {
	PutOverride(o Override)
	RemoveOverride(id string)
	SetInline(selector string, decls Declarations)
	ClearInline()
	SetRootFontScale(percent int)
	Reload()
}

// Sheet is an in-memory Surface. It is owned by a single widget controller and
// is not safe for concurrent writers.
type Sheet struct {
	overrides map[string]Override
	inline    map[string]Declarations
	fontScale int
	reloads   int
}

// NewSheet returns a Sheet showing the original presentation.
func NewSheet() *Sheet {
	return &Sheet{
		overrides: make(map[string]Override),
		inline:    make(map[string]Declarations),
		fontScale: BaseScale,
	}
}

func (s *Sheet) PutOverride(o Override) {
	s.overrides[o.ID] = Override{ID: o.ID, Selector: o.Selector, Decls: maps.Clone(o.Decls)}
}

func (s *Sheet) RemoveOverride(id string) {
	delete(s.overrides, id)
}

// SetInline merges decls into the inline style of every element matched by selector.
func (s *Sheet) SetInline(selector string, decls Declarations) {
	cur, ok := s.inline[selector]
	if !ok {
		cur = make(Declarations, len(decls))
		s.inline[selector] = cur
	}
	maps.Copy(cur, decls)
}

func (s *Sheet) ClearInline() {
	clear(s.inline)
}

func (s *Sheet) SetRootFontScale(percent int) {
	s.fontScale = percent
}

// Reload drops every live change and returns to the original presentation.
func (s *Sheet) Reload() {
	clear(s.overrides)
	clear(s.inline)
	s.fontScale = BaseScale
	s.reloads++
}

// Override returns the active override with the given id.
func (s *Sheet) Override(id string) (Override, bool) {
	o, ok := s.overrides[id]
	return o, ok
}

// Overrides returns the active overrides sorted by id.
func (s *Sheet) Overrides() []Override {
	out := make([]Override, 0, len(s.overrides))
	for _, id := range slices.Sorted(maps.Keys(s.overrides)) {
		out = append(out, s.overrides[id])
	}
	return out
}

// Inline returns a copy of the inline declarations for selector.
func (s *Sheet) Inline(selector string) Declarations {
	return maps.Clone(s.inline[selector])
}

func (s *Sheet) RootFontScale() int { return s.fontScale }

// Reloads counts how many times the original presentation was restored.
func (s *Sheet) Reloads() int { return s.reloads }

// Stylesheet renders every active override, one rule per line.
func (s *Sheet) Stylesheet() string {
	var lines []string
	for _, o := range s.Overrides() {
		lines = append(lines, o.CSS())
	}
	return strings.Join(lines, "\n")
}
