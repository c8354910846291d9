package styled

import (
	"slices"
	"strings"

	"github.com/matzehuels/styletower/pkg/errors"
	"github.com/matzehuels/styletower/pkg/extract"
	"github.com/matzehuels/styletower/pkg/groupid"
	"github.com/matzehuels/styletower/pkg/sheet"
)

// Element is the result of rendering a definition for one element.
type Element struct {
	Definition string
	Classes    []string     // class names, base first
	Chain      []groupid.ID // group ids, base first
}

// ClassName joins the element's classes for a class attribute.
func (e Element) ClassName() string { return strings.Join(e.Classes, " ") }

// Extract returns the element as the extract package consumes it.
func (e Element) Extract() extract.Element {
	return extract.Element{Chain: slices.Clone(e.Chain)}
}

// Render allocates the groups of def's chain in s and adds their rules.
// Static declarations go through the sheet's deduplication. Dynamic
// declarations are resolved against props and inserted unless the group
// already holds the same resolved text.
func Render(s *sheet.StyleSheet, def *Definition, props Props) (Element, error) {
	if def == nil {
		return Element{}, errors.New(errors.ErrCodeInvalidInput, "render: definition is nil")
	}

	el := Element{Definition: def.key}
	for _, d := range def.lineage {
		id := s.Allocate(d.key)
		el.Chain = append(el.Chain, id)

		for _, decls := range d.static {
			name, err := s.AddRule(id, decls, sheet.RuleOptions{Static: true})
			if err != nil {
				return el, err
			}
			el.Classes = appendClass(el.Classes, name)
		}

		for _, fn := range d.dynamic {
			decls, err := fn(props)
			if err != nil {
				return el, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve dynamic declarations of %s", d.key)
			}
			if decls == "" {
				continue
			}
			name := s.NameFor(id, decls)
			if !s.HasName(id, name) {
				if _, err := s.AddRule(id, decls, sheet.RuleOptions{}); err != nil {
					return el, err
				}
			}
			el.Classes = appendClass(el.Classes, name)
		}
	}
	return el, nil
}

func appendClass(classes []string, name string) []string {
	if slices.Contains(classes, name) {
		return classes
	}
	return append(classes, name)
}
