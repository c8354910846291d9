package sheet

import (
	"strings"
	"testing"

	"github.com/matzehuels/styletower/pkg/errors"
	"github.com/matzehuels/styletower/pkg/groupid"
	"github.com/matzehuels/styletower/pkg/hasher"
	"github.com/matzehuels/styletower/pkg/tag"
)

func TestRegisterGroupIsIdempotent(t *testing.T) {
	s := New(Options{})
	s.RegisterGroup(3)
	s.RegisterGroup(3)

	css, err := s.GroupCSS(3)
	if err != nil {
		t.Fatalf("GroupCSS: %v", err)
	}
	if css != "" {
		t.Errorf("registered empty group CSS = %q, want empty", css)
	}
	if got := s.Groups(); len(got) != 1 || got[0] != 3 {
		t.Errorf("Groups() = %v", got)
	}
}

func TestGroupCSSUnknownGroup(t *testing.T) {
	s := New(Options{})
	_, err := s.GroupCSS(42)
	if !errors.Is(err, errors.ErrCodeUnknownGroup) {
		t.Fatalf("GroupCSS(unregistered) = %v, want UNKNOWN_GROUP", err)
	}
	if _, err := s.Token(42); !errors.Is(err, errors.ErrCodeUnknownGroup) {
		t.Errorf("Token(unregistered) = %v, want UNKNOWN_GROUP", err)
	}
	if err := s.ClearGroup(42); !errors.Is(err, errors.ErrCodeUnknownGroup) {
		t.Errorf("ClearGroup(unregistered) = %v, want UNKNOWN_GROUP", err)
	}
}

func TestAddRuleStaticDedup(t *testing.T) {
	s := New(Options{})
	id := s.Allocate("Button")

	n1, err := s.AddRule(id, "color:red;", RuleOptions{Static: true})
	if err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	n2, _ := s.AddRule(id, "color:red;", RuleOptions{Static: true})

	if n1 != n2 {
		t.Errorf("static dedup returned %q then %q", n1, n2)
	}
	if c, _ := s.RuleCount(id); c != 1 {
		t.Errorf("RuleCount = %d, want 1", c)
	}

	css, _ := s.GroupCSS(id)
	want := "." + n1 + "{color:red;}" + tag.RuleSeparator
	if css != want {
		t.Errorf("GroupCSS = %q, want %q", css, want)
	}
	if !s.HasName(id, n1) {
		t.Error("HasName should report the minted name")
	}
}

func TestAddRuleDynamicIsNotDeduplicated(t *testing.T) {
	s := New(Options{})
	id := s.Allocate("Badge")

	_, _ = s.AddRule(id, "color:red;", RuleOptions{})
	_, _ = s.AddRule(id, "color:red;", RuleOptions{})
	_, _ = s.AddRule(id, "color:blue;", RuleOptions{})

	if c, _ := s.RuleCount(id); c != 3 {
		t.Errorf("RuleCount = %d, want 3", c)
	}
	if len(s.Names(id)) != 2 {
		t.Errorf("Names = %v, want 2 distinct names", s.Names(id))
	}
}

func TestSameDeclarationsDifferentGroups(t *testing.T) {
	s := New(Options{})
	a := s.Allocate("A")
	b := s.Allocate("B")

	na, _ := s.AddRule(a, "margin:0;", RuleOptions{Static: true})
	nb, _ := s.AddRule(b, "margin:0;", RuleOptions{Static: true})

	if na == nb {
		t.Error("groups should get distinct names for equal declarations")
	}
	if c, _ := s.RuleCount(b); c != 1 {
		t.Errorf("dedup must be scoped to the group, RuleCount(b) = %d", c)
	}
}

func TestGroupRangesStayContiguous(t *testing.T) {
	// Small capacity so ranges straddle several tags.
	s := New(Options{Tag: tag.Options{Capacity: 2}})
	a := s.Allocate("A")
	b := s.Allocate("B")
	c := s.Allocate("C")

	add := func(id groupid.ID, decl string) {
		t.Helper()
		if _, err := s.AddRule(id, decl, RuleOptions{}); err != nil {
			t.Fatalf("AddRule(%d, %q): %v", id, decl, err)
		}
	}
	add(c, "c1;")
	add(a, "a1;")
	add(b, "b1;")
	add(a, "a2;")
	add(c, "c2;")
	add(a, "a3;")
	add(b, "b2;")

	if s.Segments() < 2 {
		t.Fatalf("expected the sheet to span several tags, got %d", s.Segments())
	}

	checks := map[groupid.ID][]string{
		a: {"a1;", "a2;", "a3;"},
		b: {"b1;", "b2;"},
		c: {"c1;", "c2;"},
	}
	for id, decls := range checks {
		rules, err := s.GroupRules(id)
		if err != nil {
			t.Fatalf("GroupRules(%d): %v", id, err)
		}
		if len(rules) != len(decls) {
			t.Fatalf("group %d has %d rules, want %d", id, len(rules), len(decls))
		}
		for i, r := range rules {
			if _, got, _ := SplitRule(r); got != decls[i] {
				t.Errorf("group %d rule %d = %q, want %q", id, i, got, decls[i])
			}
		}
	}

	// Groups are laid out in id order.
	all := s.String()
	if strings.Index(all, "a3;") > strings.Index(all, "b1;") || strings.Index(all, "b2;") > strings.Index(all, "c1;") {
		t.Errorf("groups out of id order:\n%s", all)
	}
}

func TestTokenCacheInvalidation(t *testing.T) {
	s := New(Options{})
	id := s.Allocate("Card")

	empty, _ := s.Token(id)
	if empty != hasher.Token("") {
		t.Errorf("empty group token = %s", empty)
	}

	_, _ = s.AddRule(id, "padding:4px;", RuleOptions{Static: true})
	t1, _ := s.Token(id)
	if t1 == empty {
		t.Error("token should change after a rule is added")
	}
	t1again, _ := s.Token(id)
	if t1 != t1again {
		t.Error("token should be stable while the group is unchanged")
	}

	css, _ := s.GroupCSS(id)
	if t1 != hasher.Token(css) {
		t.Error("token must be a function of the group's CSS text")
	}

	_ = s.ClearGroup(id)
	if t2, _ := s.Token(id); t2 != empty {
		t.Errorf("token after ClearGroup = %s, want %s", t2, empty)
	}
}

func TestIdenticalContentSharesToken(t *testing.T) {
	// Two sheets, as for two requests, render the same definition.
	s1 := New(Options{})
	s2 := New(Options{})
	s2.Allocate("Unrelated") // shifts ids in the second sheet

	id1 := s1.Allocate("Button")
	id2 := s2.Allocate("Button")
	if id1 == id2 {
		t.Fatal("test requires different ids")
	}

	_, _ = s1.AddRule(id1, "color:red;", RuleOptions{Static: true})
	_, _ = s2.AddRule(id2, "color:red;", RuleOptions{Static: true})

	t1, _ := s1.Token(id1)
	t2, _ := s2.Token(id2)
	if t1 != t2 {
		t.Errorf("identical content under different ids produced %s and %s", t1, t2)
	}
}

func TestClearGroup(t *testing.T) {
	s := New(Options{})
	a := s.Allocate("A")
	b := s.Allocate("B")

	na, _ := s.AddRule(a, "x:1;", RuleOptions{Static: true})
	_, _ = s.AddRule(b, "y:1;", RuleOptions{Static: true})

	if err := s.ClearGroup(a); err != nil {
		t.Fatalf("ClearGroup: %v", err)
	}
	if css, _ := s.GroupCSS(a); css != "" {
		t.Errorf("cleared group CSS = %q", css)
	}
	if s.HasName(a, na) {
		t.Error("cleared group should forget its names")
	}
	if css, _ := s.GroupCSS(b); !strings.Contains(css, "y:1;") {
		t.Errorf("other group damaged: %q", css)
	}

	// Static dedup starts over after clearing.
	_, _ = s.AddRule(a, "x:1;", RuleOptions{Static: true})
	if c, _ := s.RuleCount(a); c != 1 {
		t.Errorf("RuleCount after re-add = %d", c)
	}
}

func TestReset(t *testing.T) {
	s := New(Options{})
	id := s.Allocate("A")
	_, _ = s.AddRule(id, "x:1;", RuleOptions{})

	s.Reset()
	if s.Len() != 0 || len(s.Groups()) != 0 {
		t.Errorf("Reset left Len=%d groups=%v", s.Len(), s.Groups())
	}
	if again := s.Allocate("B"); again != groupid.First {
		t.Errorf("allocation after Reset starts at %d", again)
	}
}

func TestRestoreGroup(t *testing.T) {
	server := New(Options{})
	id := server.Allocate("Button")
	name, _ := server.AddRule(id, "color:red;", RuleOptions{Static: true})
	_, _ = server.AddRule(id, "background:blue;", RuleOptions{})
	rules, _ := server.GroupRules(id)

	client := New(Options{})
	if err := client.RestoreGroup("Button", id, rules); err != nil {
		t.Fatalf("RestoreGroup: %v", err)
	}
	// Restoring a later content state only appends the new rule.
	more := append(append([]string{}, rules...), ".zz{margin:0;}")
	if err := client.RestoreGroup("Button", id, more); err != nil {
		t.Fatalf("RestoreGroup again: %v", err)
	}
	if c, _ := client.RuleCount(id); c != 3 {
		t.Errorf("RuleCount = %d, want 3", c)
	}

	// A static add of server content is a no-op.
	got, _ := client.AddRule(id, "color:red;", RuleOptions{Static: true})
	if got != name {
		t.Errorf("AddRule returned %q, want restored name %q", got, name)
	}
	if c, _ := client.RuleCount(id); c != 3 {
		t.Errorf("static add of restored content inserted a rule, RuleCount = %d", c)
	}

	// New definitions allocate after the restored id.
	if next := client.Allocate("Card"); next <= id {
		t.Errorf("new group id %d collides with restored id %d", next, id)
	}

	if err := client.RestoreGroup("Other", id, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("restoring a taken id = %v, want INVALID_INPUT", err)
	}
}

func TestSplitRule(t *testing.T) {
	tests := []struct {
		rule  string
		name  string
		decls string
		ok    bool
	}{
		{".abc{color:red;}", "abc", "color:red;", true},
		{".aB{}", "aB", "", true},
		{"div{color:red;}", "", "", false},
		{".a-b{x:y}", "", "", false},
		{".{x:y}", "", "", false},
		{".abc{x:y", "", "", false},
		{"@media print{.a{x:y}}", "", "", false},
	}
	for _, tt := range tests {
		name, decls, ok := SplitRule(tt.rule)
		if ok != tt.ok || name != tt.name || decls != tt.decls {
			t.Errorf("SplitRule(%q) = %q, %q, %v", tt.rule, name, decls, ok)
		}
	}
}

func TestAddRuleNormalizesLineBreaks(t *testing.T) {
	s := New(Options{})
	id := s.Allocate("Card")

	crlf, _ := s.AddRule(id, "color:red;\r\nmargin:0;", RuleOptions{Static: true})
	lf, _ := s.AddRule(id, "color:red;\nmargin:0;", RuleOptions{Static: true})
	cr, _ := s.AddRule(id, "color:red;\rmargin:0;", RuleOptions{Static: true})

	if crlf != lf || lf != cr {
		t.Errorf("names differ: %q %q %q", crlf, lf, cr)
	}
	if c, _ := s.RuleCount(id); c != 1 {
		t.Errorf("RuleCount = %d, want 1", c)
	}
	if got := s.NameFor(id, "color:red;\r\nmargin:0;"); got != lf {
		t.Errorf("NameFor = %q, want %q", got, lf)
	}
	css, _ := s.GroupCSS(id)
	if strings.Contains(css, "\r") {
		t.Errorf("GroupCSS kept a carriage return: %q", css)
	}
}
