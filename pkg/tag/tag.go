package tag

// Tag is the physical container capability for rule text. Indices are
// zero-based and local to the Tag.
//
// Implementations are not required to be safe for concurrent use.
type Tag interface {
	// InsertRule inserts rule at index, shifting later rules. It reports false
	// when the Tag is full or index is outside [0, Len()].
	InsertRule(index int, rule string) bool

	// DeleteRule removes the rule at index. Out of range indices are ignored.
	DeleteRule(index int)

	// GetRule returns the rule at index, or "" when out of range.
	GetRule(index int) string

	// Len returns the number of rules held.
	Len() int
}

// Factory opens a new Tag able to hold capacity rules.
type Factory func(capacity int) Tag

// MemoryTag is an in-process Tag backed by a slice.
type MemoryTag struct {
	rules []string
	limit int
}

// NewMemoryTag creates a MemoryTag holding at most limit rules.
// A limit of zero or less means unbounded.
func NewMemoryTag(limit int) Tag {
	return &MemoryTag{limit: limit}
}

func (t *MemoryTag) InsertRule(index int, rule string) bool {
	if index < 0 || index > len(t.rules) {
		return false
	}
	if t.limit > 0 && len(t.rules) >= t.limit {
		return false
	}
	t.rules = append(t.rules, "")
	copy(t.rules[index+1:], t.rules[index:])
	t.rules[index] = rule
	return true
}

func (t *MemoryTag) DeleteRule(index int) {
	if index < 0 || index >= len(t.rules) {
		return
	}
	t.rules = append(t.rules[:index], t.rules[index+1:]...)
}

func (t *MemoryTag) GetRule(index int) string {
	if index < 0 || index >= len(t.rules) {
		return ""
	}
	return t.rules[index]
}

func (t *MemoryTag) Len() int { return len(t.rules) }

var _ Tag = (*MemoryTag)(nil)
