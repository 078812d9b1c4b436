// Package label resolves analysis tool ids to display names and icons.
package label

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// DefaultIcon is used for tools without a configured icon.
const DefaultIcon = "analysis-24x24.png"

// Provider resolves a tool origin id to its display name and icon path.
type Provider interface {
	Resolve(originID string) (displayName, iconPath string)
}

// Tool is one label definition.
type Tool struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type catalog struct {
	Version int    `yaml:"version"`
	Tools   []Tool `yaml:"tools"`
}

// Registry is a Provider backed by a fixed set of tool labels.
// It is read-only after construction.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry builds a registry from explicit tool labels.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.ID] = t
	}
	return r
}

// LoadBuiltin loads the built-in tool labels.
func LoadBuiltin() (*Registry, error) {
	data, err := builtinFS.ReadFile("builtin/tools.yaml")
	if err != nil {
		return nil, fmt.Errorf("label.LoadBuiltin: %w", err)
	}
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("label.LoadBuiltin: parse: %w", err)
	}
	return NewRegistry(c.Tools...), nil
}

// With returns a copy of r where the given labels replace or extend the
// existing ones. Empty fields keep the current value.
func (r *Registry) With(overrides map[string]Tool) *Registry {
	out := &Registry{tools: make(map[string]Tool, len(r.tools)+len(overrides))}
	for id, t := range r.tools {
		out.tools[id] = t
	}
	for id, o := range overrides {
		t := out.tools[id]
		t.ID = id
		if o.Name != "" {
			t.Name = o.Name
		}
		if o.Icon != "" {
			t.Icon = o.Icon
		}
		out.tools[id] = t
	}
	return out
}

// Resolve implements Provider. Unknown ids resolve to themselves.
func (r *Registry) Resolve(originID string) (string, string) {
	t, ok := r.tools[originID]
	if !ok {
		return originID, DefaultIcon
	}
	name, icon := t.Name, t.Icon
	if name == "" {
		name = originID
	}
	if icon == "" {
		icon = DefaultIcon
	}
	return name, icon
}

// IDs returns the known tool ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.tools))
	for id := range r.tools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DisplayNames resolves each origin and joins the names with ", ".
func DisplayNames(p Provider, origins []string) string {
	names := make([]string, 0, len(origins))
	for _, o := range origins {
		name, _ := p.Resolve(o)
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
