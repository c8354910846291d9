package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/styletower/pkg/config"
	"github.com/matzehuels/styletower/pkg/errors"
	"github.com/matzehuels/styletower/pkg/sheet"
	"github.com/matzehuels/styletower/pkg/styled"
)

func components() []config.Component {
	// Extensions listed before their bases on purpose.
	return []config.Component{
		{Name: "DangerButton", Extends: "PrimaryButton", Static: []string{"background:crimson;"}},
		{Name: "PrimaryButton", Extends: "Button", Static: []string{"color:white;"},
			Dynamic: []string{`background:{{ .tone | default "navy" }};`}},
		{Name: "Button", Static: []string{"display:inline-flex;", "padding:4px 8px;"}},
		{Name: "Badge", Dynamic: []string{"width:{{ .w }}px;"}},
	}
}

func TestNew(t *testing.T) {
	c, err := New(components())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d", c.Len())
	}

	names := c.Names()
	pos := map[string]int{}
	for i, n := range names {
		pos[n] = i
	}
	if !(pos["Button"] < pos["PrimaryButton"] && pos["PrimaryButton"] < pos["DangerButton"]) {
		t.Errorf("Names() not base first: %v", names)
	}

	danger, err := c.Lookup("DangerButton")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got := strings.Join(danger.Chain(), ","); got != "Button,PrimaryButton,DangerButton" {
		t.Errorf("Chain() = %s", got)
	}
	if n, _ := c.Graph().Node("DangerButton"); n.Row != 2 {
		t.Errorf("DangerButton row = %d, want 2", n.Row)
	}

	if _, err := c.Lookup("Nope"); !errors.Is(err, errors.ErrCodeUnknownDefinition) {
		t.Errorf("Lookup(Nope) = %v", err)
	}

	meta := c.Graph().Meta()
	if got := strings.Join(meta[MetaBases].([]string), ","); got != "Button,Badge" {
		t.Errorf("bases = %s", got)
	}
	if got := strings.Join(meta[MetaLeaves].([]string), ","); got != "DangerButton,Badge" {
		t.Errorf("leaves = %s", got)
	}
	if meta[MetaDepth] != 2 {
		t.Errorf("depth = %v, want 2", meta[MetaDepth])
	}
}

func TestEntries(t *testing.T) {
	c, err := New(components())
	if err != nil {
		t.Fatal(err)
	}
	entries := c.Entries()
	if len(entries) != c.Len() {
		t.Fatalf("Entries() has %d entries, want %d", len(entries), c.Len())
	}

	byName := map[string]Entry{}
	for i, e := range entries {
		if e.Name != c.Names()[i] {
			t.Errorf("entry %d = %s, want %s", i, e.Name, c.Names()[i])
		}
		byName[e.Name] = e
	}

	tests := []struct {
		name    string
		extends string
		chain   string
		depth   int
		static  int
		dynamic bool
	}{
		{"Button", "", "Button", 0, 2, false},
		{"PrimaryButton", "Button", "Button,PrimaryButton", 1, 1, true},
		{"DangerButton", "PrimaryButton", "Button,PrimaryButton,DangerButton", 2, 1, false},
		{"Badge", "", "Badge", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := byName[tt.name]
			if e.Extends != tt.extends || strings.Join(e.Chain, ",") != tt.chain || e.Depth != tt.depth {
				t.Errorf("entry = %+v", e)
			}
			if len(e.Static) != tt.static || e.Dynamic != tt.dynamic {
				t.Errorf("declarations = %v, dynamic %v", e.Static, e.Dynamic)
			}
		})
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name  string
		comps []config.Component
		code  errors.Code
	}{
		{"unknown base", []config.Component{{Name: "A", Extends: "Ghost"}}, errors.ErrCodeUnknownDefinition},
		{"self extension", []config.Component{{Name: "A", Extends: "A"}}, errors.ErrCodeGraphCycle},
		{"cycle", []config.Component{{Name: "A", Extends: "B"}, {Name: "B", Extends: "A"}}, errors.ErrCodeGraphCycle},
		{"duplicate", []config.Component{{Name: "A"}, {Name: "A"}}, errors.ErrCodeInvalidInput},
		{"bad key", []config.Component{{Name: "a b"}}, errors.ErrCodeInvalidInput},
		{"bad template", []config.Component{{Name: "A", Dynamic: []string{"x:{{ .y"}}}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.comps)
			if !errors.Is(err, tt.code) {
				t.Errorf("New = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCycleErrorNamesComponents(t *testing.T) {
	_, err := New([]config.Component{{Name: "A", Extends: "B"}, {Name: "B", Extends: "A"}})
	if err == nil || !strings.Contains(err.Error(), "A -> B -> A") && !strings.Contains(err.Error(), "B -> A -> B") {
		t.Errorf("error should name the cycle: %v", err)
	}
}

func TestDynamicTemplates(t *testing.T) {
	c, err := New(components())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	primary, _ := c.Lookup("PrimaryButton")
	badge, _ := c.Lookup("Badge")

	s := sheet.New(sheet.Options{})
	tests := []struct {
		name  string
		def   *styled.Definition
		props styled.Props
		want  string
	}{
		{"default applies", primary, nil, "background:navy;"},
		{"prop wins", primary, styled.Props{"tone": "teal"}, "background:teal;"},
		{"plain prop", badge, styled.Props{"w": 12}, "width:12px;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el, err := styled.Render(s, tt.def, tt.props)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			id := el.Chain[len(el.Chain)-1]
			if !s.HasName(id, s.NameFor(id, tt.want)) {
				css, _ := s.GroupCSS(id)
				t.Errorf("group misses %q: %q", tt.want, css)
			}
		})
	}

	// A missing prop drops the declaration.
	el, err := styled.Render(s, badge, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(el.Classes) != 0 {
		t.Errorf("missing prop produced classes %v", el.Classes)
	}

	// Props cannot break out of the rule.
	if _, err := styled.Render(s, badge, styled.Props{"w": "1}body{x:y"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("brace injection = %v, want INVALID_INPUT", err)
	}
}

func TestToDOT(t *testing.T) {
	c, _ := New(components())

	dot := c.ToDOT(DOTOptions{})
	for _, want := range []string{
		"digraph G {",
		`"Button" -> "PrimaryButton";`,
		`"PrimaryButton" -> "DangerButton";`,
		`"Badge" [label="Badge", style="rounded,filled,dashed"`,
		`{rank=same; "Button"; "Badge";}`,
		`{rank=same; "PrimaryButton";}`,
		`{rank=same; "DangerButton";}`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT misses %q:\n%s", want, dot)
		}
	}

	detailed := c.ToDOT(DOTOptions{Detailed: true})
	if !strings.Contains(detailed, `depth: 2\nbackground:crimson;`) {
		t.Errorf("detailed DOT misses depth and declarations:\n%s", detailed)
	}
}

func TestRenderSVG(t *testing.T) {
	c, _ := New(components())
	svg, err := RenderSVG(context.Background(), c.ToDOT(DOTOptions{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "not a graph {"); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestToTree(t *testing.T) {
	c, err := New(components())
	if err != nil {
		t.Fatal(err)
	}

	tree := c.ToTree(DOTOptions{})
	indent := map[string]int{}
	for _, line := range strings.Split(tree, "\n") {
		for _, name := range c.Names() {
			if strings.HasSuffix(line, " "+name) {
				indent[name] = len(line) - len(name)
			}
		}
	}
	if len(indent) != 4 {
		t.Fatalf("tree misses components:\n%s", tree)
	}
	if indent["Button"] != indent["Badge"] {
		t.Errorf("bases should share a level:\n%s", tree)
	}
	if !(indent["Button"] < indent["PrimaryButton"] && indent["PrimaryButton"] < indent["DangerButton"]) {
		t.Errorf("extensions should nest under their base:\n%s", tree)
	}

	detailed := c.ToTree(DOTOptions{Detailed: true})
	if !strings.Contains(detailed, "[2 static, 0 dynamic]  Button") {
		t.Errorf("detailed tree misses counts:\n%s", detailed)
	}
	if !strings.Contains(detailed, "[0 static, 1 dynamic]  Badge") {
		t.Errorf("detailed tree misses leaf counts:\n%s", detailed)
	}
}
