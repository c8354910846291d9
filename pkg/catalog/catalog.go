// Package catalog builds style definitions from configured components.
//
// Components name their base with "extends". The catalog arranges them in
// an extension graph ([dag.DAG], one row per extension depth), rejects
// unknown bases and cycles, and registers the definitions base first in a
// [styled.Registry]. Dynamic declarations are text/template strings with the
// sprig function set, executed against the element's props:
//
//	background:{{ .tone | default "navy" }};
//	width:{{ .cols | mul 8 }}px;
package catalog

import (
	"strings"

	"github.com/matzehuels/styletower/pkg/config"
	"github.com/matzehuels/styletower/pkg/dag"
	"github.com/matzehuels/styletower/pkg/errors"
	"github.com/matzehuels/styletower/pkg/styled"
)

// Node metadata keys.
const (
	MetaStatic  = "static"
	MetaDynamic = "dynamic"
)

// Graph metadata keys.
const (
	MetaBases  = "bases"
	MetaLeaves = "leaves"
	MetaDepth  = "depth"
)

// Catalog is an immutable set of definitions built from configuration.
type Catalog struct {
	registry *styled.Registry
	graph    *dag.DAG
	order    []string
}

// New builds a Catalog from components.
func New(components []config.Component) (*Catalog, error) {
	g := dag.New(nil)
	byName := make(map[string]config.Component, len(components))

	for _, c := range components {
		if err := errors.ValidateDefinitionKey(c.Name); err != nil {
			return nil, err
		}
		err := g.AddNode(dag.Node{
			ID: c.Name,
			Meta: dag.Metadata{
				MetaStatic:  c.Static,
				MetaDynamic: c.Dynamic,
			},
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "component %q", c.Name)
		}
		byName[c.Name] = c
	}

	for _, c := range components {
		if c.Extends == "" {
			continue
		}
		if _, ok := byName[c.Extends]; !ok {
			return nil, errors.New(errors.ErrCodeUnknownDefinition, "component %q extends unknown %q", c.Name, c.Extends)
		}
		if err := g.AddEdge(dag.Edge{From: c.Extends, To: c.Name}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "link %q to %q", c.Name, c.Extends)
		}
	}

	order, err := dag.AssignLayers(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphCycle, err, "components extend each other: %s",
			strings.Join(dag.Cycle(g), " -> "))
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "extension graph")
	}
	meta := g.Meta()
	meta[MetaBases] = dag.NodeIDs(g.Sources())
	meta[MetaLeaves] = dag.NodeIDs(g.Sinks())
	meta[MetaDepth] = g.MaxRow()

	reg := styled.NewRegistry()
	for _, name := range order {
		c := byName[name]

		var def *styled.Definition
		if c.Extends == "" {
			def, err = reg.Define(c.Name, c.Static...)
		} else {
			base, _ := reg.Lookup(c.Extends)
			def, err = reg.Extend(base, c.Name, c.Static...)
		}
		if err != nil {
			return nil, err
		}

		for i, text := range c.Dynamic {
			fn, err := compile(c.Name, i, text)
			if err != nil {
				return nil, err
			}
			def.WithDynamic(fn)
		}
	}

	return &Catalog{registry: reg, graph: g, order: order}, nil
}

// Lookup returns the definition for a component.
func (c *Catalog) Lookup(name string) (*styled.Definition, error) {
	def, ok := c.registry.Lookup(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownDefinition, "unknown component %q", name)
	}
	return def, nil
}

// Names returns component names base first.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of components.
func (c *Catalog) Len() int { return len(c.order) }

// Registry returns the definitions.
func (c *Catalog) Registry() *styled.Registry { return c.registry }

// Graph returns the extension graph. Callers must not modify it.
func (c *Catalog) Graph() *dag.DAG { return c.graph }

// Entry describes one component as registered.
type Entry struct {
	Name    string   `json:"name"`
	Extends string   `json:"extends,omitempty"`
	Chain   []string `json:"chain"`
	Depth   int      `json:"depth"`
	Static  []string `json:"static,omitempty"`
	Dynamic bool     `json:"dynamic"`
}

// Entries describes every component, base first.
func (c *Catalog) Entries() []Entry {
	entries := make([]Entry, 0, len(c.order))
	for _, name := range c.order {
		def, _ := c.registry.Lookup(name)
		e := Entry{
			Name:    name,
			Chain:   def.Chain(),
			Depth:   def.Depth(),
			Static:  def.Static(),
			Dynamic: def.IsDynamic(),
		}
		if parents := c.graph.Parents(name); len(parents) > 0 {
			e.Extends = parents[0]
		}
		entries = append(entries, e)
	}
	return entries
}
