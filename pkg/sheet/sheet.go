package sheet

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/styletower/pkg/errors"
	"github.com/matzehuels/styletower/pkg/groupid"
	"github.com/matzehuels/styletower/pkg/hasher"
	"github.com/matzehuels/styletower/pkg/tag"
)

// Options configures a StyleSheet.
type Options struct {
	// Tag configures the underlying rule store.
	Tag tag.Options

	// Allocator assigns group ids. Nil means a fresh allocator.
	Allocator *groupid.Allocator
}

// RuleOptions qualifies a rule passed to AddRule.
type RuleOptions struct {
	// Static marks declarations that do not depend on props. Only static
	// rules are deduplicated through the names registry.
	Static bool
}

// nameKey is the composite key of the names registry.
type nameKey struct {
	group        groupid.ID
	declarations string
}

// StyleSheet tracks rules per group. The zero value is not usable; use New.
type StyleSheet struct {
	alloc *groupid.Allocator
	store *tag.Store

	sizes      map[groupid.ID]int
	names      map[nameKey]string
	groupNames map[groupid.ID]map[string]struct{}
	tokens     map[groupid.ID]string
}

// New creates an empty StyleSheet.
func New(opts Options) *StyleSheet {
	alloc := opts.Allocator
	if alloc == nil {
		alloc = groupid.New()
	}
	s := &StyleSheet{
		alloc: alloc,
		store: tag.NewStore(opts.Tag),
	}
	s.resetIndexes()
	return s
}

func (s *StyleSheet) resetIndexes() {
	s.sizes = make(map[groupid.ID]int)
	s.names = make(map[nameKey]string)
	s.groupNames = make(map[groupid.ID]map[string]struct{})
	s.tokens = make(map[groupid.ID]string)
}

// Allocator returns the allocator that assigns this sheet's group ids.
func (s *StyleSheet) Allocator() *groupid.Allocator { return s.alloc }

// Allocate returns the group id for key and registers the group.
func (s *StyleSheet) Allocate(key string) groupid.ID {
	id := s.alloc.Allocate(key)
	s.RegisterGroup(id)
	return id
}

// RegisterGroup ensures a zero-length range exists for id. It is idempotent.
func (s *StyleSheet) RegisterGroup(id groupid.ID) {
	if _, ok := s.sizes[id]; !ok {
		s.sizes[id] = 0
	}
}

// HasGroup reports whether id was registered.
func (s *StyleSheet) HasGroup(id groupid.ID) bool {
	_, ok := s.sizes[id]
	return ok
}

// Groups returns the registered group ids in layout order.
func (s *StyleSheet) Groups() []groupid.ID {
	ids := make([]groupid.ID, 0, len(s.sizes))
	for id := range s.sizes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Key returns the stable key of the definition behind id, if known.
func (s *StyleSheet) Key(id groupid.ID) string {
	k, _ := s.alloc.Key(id)
	return k
}

// NameFor returns the class name AddRule mints for declarations in group id.
func (s *StyleSheet) NameFor(id groupid.ID, declarations string) string {
	return hasher.Name(s.salt(id), normalizeNewlines(declarations))
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// normalizeNewlines rewrites CRLF and lone CR as LF, the form an HTML parser
// hands back for the text of a <style> element. Without it a group holding a
// CR could never be verified against its token after a round trip.
func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	return newlines.Replace(text)
}

func (s *StyleSheet) salt(id groupid.ID) string {
	if k, ok := s.alloc.Key(id); ok {
		return k
	}
	return "g" + strconv.Itoa(int(id))
}

// AddRule stores ".name{declarations}" at the end of the group's range and
// returns name. Static declarations already present in the group return
// their existing name without inserting. Unregistered groups are registered.
// Line breaks in declarations are stored as "\n".
func (s *StyleSheet) AddRule(id groupid.ID, declarations string, opts RuleOptions) (string, error) {
	s.RegisterGroup(id)
	declarations = normalizeNewlines(declarations)

	key := nameKey{group: id, declarations: declarations}
	if opts.Static {
		if name, ok := s.names[key]; ok {
			return name, nil
		}
	}

	name := s.NameFor(id, declarations)
	if err := s.insert(id, "."+name+"{"+declarations+"}"); err != nil {
		return "", err
	}
	s.recordName(id, name)
	if opts.Static {
		s.names[key] = name
	}
	return name, nil
}

// insert appends rule to the end of group id's range.
func (s *StyleSheet) insert(id groupid.ID, rule string) error {
	at := s.indexOf(id) + s.sizes[id]
	if err := s.store.InsertRule(at, rule); err != nil {
		return err
	}
	s.sizes[id]++
	delete(s.tokens, id)
	return nil
}

func (s *StyleSheet) recordName(id groupid.ID, name string) {
	set, ok := s.groupNames[id]
	if !ok {
		set = make(map[string]struct{})
		s.groupNames[id] = set
	}
	set[name] = struct{}{}
}

// indexOf returns the first store index of group id's range.
func (s *StyleSheet) indexOf(id groupid.ID) int {
	index := 0
	for g, n := range s.sizes {
		if g < id {
			index += n
		}
	}
	return index
}

// HasName reports whether name was minted for group id.
func (s *StyleSheet) HasName(id groupid.ID, name string) bool {
	_, ok := s.groupNames[id][name]
	return ok
}

// Names returns the names minted for group id, sorted.
func (s *StyleSheet) Names(id groupid.ID) []string {
	names := make([]string, 0, len(s.groupNames[id]))
	for n := range s.groupNames[id] {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// RuleCount returns the number of rules in group id.
func (s *StyleSheet) RuleCount(id groupid.ID) (int, error) {
	n, ok := s.sizes[id]
	if !ok {
		return 0, unknownGroup(id)
	}
	return n, nil
}

// GroupCSS returns the rules of group id in insertion order, each followed by
// tag.RuleSeparator. A registered group without rules yields "".
func (s *StyleSheet) GroupCSS(id groupid.ID) (string, error) {
	n, ok := s.sizes[id]
	if !ok {
		return "", unknownGroup(id)
	}
	return s.store.CSS(s.indexOf(id), n)
}

// GroupRules returns the rules of group id in insertion order.
func (s *StyleSheet) GroupRules(id groupid.ID) ([]string, error) {
	n, ok := s.sizes[id]
	if !ok {
		return nil, unknownGroup(id)
	}
	return s.store.Rules(s.indexOf(id), n)
}

// Token returns the content address of group id's current CSS text.
func (s *StyleSheet) Token(id groupid.ID) (string, error) {
	if tok, ok := s.tokens[id]; ok {
		return tok, nil
	}
	css, err := s.GroupCSS(id)
	if err != nil {
		return "", err
	}
	tok := hasher.Token(css)
	s.tokens[id] = tok
	return tok, nil
}

// ClearGroup removes every rule and name of group id. The group stays
// registered with an empty range.
func (s *StyleSheet) ClearGroup(id groupid.ID) error {
	n, ok := s.sizes[id]
	if !ok {
		return unknownGroup(id)
	}
	if err := s.store.RemoveRules(s.indexOf(id), n); err != nil {
		return err
	}
	s.sizes[id] = 0
	delete(s.groupNames, id)
	delete(s.tokens, id)
	for k := range s.names {
		if k.group == id {
			delete(s.names, k)
		}
	}
	return nil
}

// Reset drops all storage, groups, names and allocator state. It belongs at
// lifecycle boundaries, never in the middle of a render.
func (s *StyleSheet) Reset() {
	s.store.Reset()
	s.alloc.Reset()
	s.resetIndexes()
}

// Len returns the total number of rules in the sheet.
func (s *StyleSheet) Len() int { return s.store.Len() }

// Segments returns the number of physical tags in use.
func (s *StyleSheet) Segments() int { return s.store.Segments() }

// String returns the CSS of every group in layout order.
func (s *StyleSheet) String() string {
	css, _ := s.store.CSS(0, s.store.Len())
	return css
}

// RestoreGroup re-creates group id for key from rules emitted by a server.
// Rules already present in the group are skipped, so restoring several
// content states of the same group appends only what is new. Rules of the
// form ".name{declarations}" are entered into the names registry.
func (s *StyleSheet) RestoreGroup(key string, id groupid.ID, rules []string) error {
	if err := s.alloc.Restore(key, id); err != nil {
		return err
	}
	s.RegisterGroup(id)

	existing, err := s.GroupRules(id)
	if err != nil {
		return err
	}
	present := make(map[string]struct{}, len(existing)+len(rules))
	for _, r := range existing {
		present[r] = struct{}{}
	}

	for _, rule := range rules {
		rule = normalizeNewlines(rule)
		if _, ok := present[rule]; ok {
			continue
		}
		if err := s.insert(id, rule); err != nil {
			return err
		}
		present[rule] = struct{}{}
		if name, decls, ok := SplitRule(rule); ok {
			s.recordName(id, name)
			s.names[nameKey{group: id, declarations: decls}] = name
		}
	}
	return nil
}

// SplitRule splits ".name{declarations}" into its class name and
// declarations. It reports false for any other rule shape.
func SplitRule(rule string) (name, declarations string, ok bool) {
	if !strings.HasPrefix(rule, ".") || !strings.HasSuffix(rule, "}") {
		return "", "", false
	}
	open := strings.IndexByte(rule, '{')
	if open < 2 {
		return "", "", false
	}
	name = rule[1:open]
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return "", "", false
		}
	}
	return name, rule[open+1 : len(rule)-1], true
}

func unknownGroup(id groupid.ID) error {
	return errors.New(errors.ErrCodeUnknownGroup, "group %d was never registered", id)
}
