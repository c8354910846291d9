package tag

import (
	"strings"

	"github.com/matzehuels/styletower/pkg/errors"
)

// DefaultCapacity is the number of rules a segment holds unless configured.
const DefaultCapacity = 1000

// RuleSeparator terminates every rule returned by [Store.CSS].
const RuleSeparator = "\n"

// Options configures a Store.
type Options struct {
	// Capacity is the maximum number of rules per segment.
	// Zero means DefaultCapacity.
	Capacity int

	// MaxSegments bounds the number of segments. Zero means unbounded, in
	// which case insertion never fails for capacity reasons.
	MaxSegments int

	// NewTag opens segments. Nil means NewMemoryTag.
	NewTag Factory
}

func (o *Options) setDefaults() {
	if o.Capacity <= 0 {
		o.Capacity = DefaultCapacity
	}
	if o.NewTag == nil {
		o.NewTag = NewMemoryTag
	}
}

// Store is an ordered sequence of rules partitioned across bounded Tags.
// The zero value is not usable; use NewStore.
// Store is not safe for concurrent use without external synchronization.
type Store struct {
	opts Options
	segs []Tag
	n    int
}

// NewStore creates an empty Store.
func NewStore(opts Options) *Store {
	opts.setDefaults()
	return &Store{opts: opts}
}

// Len returns the total number of rules across all segments.
func (s *Store) Len() int { return s.n }

// Segments returns the number of physical segments currently open.
func (s *Store) Segments() int { return len(s.segs) }

// InsertRule inserts text at the logical index, shifting later rules.
func (s *Store) InsertRule(index int, text string) error {
	if index < 0 || index > s.n {
		return errors.New(errors.ErrCodeIndexOutOfRange, "insert at %d, store holds %d rules", index, s.n)
	}
	if len(s.segs) == 0 {
		if err := s.open(0); err != nil {
			return err
		}
	}

	seg, off := s.locateInsert(index)
	if s.segs[seg].InsertRule(off, text) {
		s.n++
		return nil
	}

	// The segment is full. Appending at its end may spill into the next one.
	if off == s.segs[seg].Len() && seg+1 < len(s.segs) && s.segs[seg+1].InsertRule(0, text) {
		s.n++
		return nil
	}
	appending := off == s.segs[seg].Len()
	if err := s.split(seg, off); err != nil {
		return err
	}

	if appending {
		seg, off = seg+1, 0
	} else {
		seg, off = s.locateInsert(index)
	}
	if !s.segs[seg].InsertRule(off, text) {
		return errors.New(errors.ErrCodeInternal, "segment %d rejected rule after split", seg)
	}
	s.n++
	return nil
}

// RemoveRules deletes count rules starting at start.
func (s *Store) RemoveRules(start, count int) error {
	if err := s.checkRange(start, count); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	seg, off := s.locate(start)
	for count > 0 {
		t := s.segs[seg]
		k := min(count, t.Len()-off)
		for range k {
			t.DeleteRule(off)
		}
		count -= k
		s.n -= k
		if t.Len() == 0 {
			s.segs = append(s.segs[:seg], s.segs[seg+1:]...)
		} else {
			seg++
		}
		off = 0
	}
	return nil
}

// CSS returns the text of count rules starting at start, each terminated by
// RuleSeparator.
func (s *Store) CSS(start, count int) (string, error) {
	if err := s.checkRange(start, count); err != nil {
		return "", err
	}
	if count == 0 {
		return "", nil
	}

	var b strings.Builder
	seg, off := s.locate(start)
	for count > 0 {
		t := s.segs[seg]
		for ; off < t.Len() && count > 0; off++ {
			b.WriteString(t.GetRule(off))
			b.WriteString(RuleSeparator)
			count--
		}
		seg++
		off = 0
	}
	return b.String(), nil
}

// Rules returns count rules starting at start as a slice.
func (s *Store) Rules(start, count int) ([]string, error) {
	if err := s.checkRange(start, count); err != nil {
		return nil, err
	}
	out := make([]string, 0, count)
	if count == 0 {
		return out, nil
	}
	seg, off := s.locate(start)
	for count > 0 {
		t := s.segs[seg]
		for ; off < t.Len() && count > 0; off++ {
			out = append(out, t.GetRule(off))
			count--
		}
		seg++
		off = 0
	}
	return out, nil
}

// Reset drops every segment.
func (s *Store) Reset() {
	s.segs = nil
	s.n = 0
}

func (s *Store) checkRange(start, count int) error {
	if start < 0 || count < 0 || start+count > s.n {
		return errors.New(errors.ErrCodeIndexOutOfRange, "range [%d,+%d) outside store of %d rules", start, count, s.n)
	}
	return nil
}

// locate finds the segment holding the rule at index, for 0 <= index < n.
func (s *Store) locate(index int) (seg, off int) {
	for i, t := range s.segs {
		if index < t.Len() {
			return i, index
		}
		index -= t.Len()
	}
	return len(s.segs) - 1, s.segs[len(s.segs)-1].Len()
}

// locateInsert finds where index lands for an insertion, 0 <= index <= n.
// A boundary index resolves to the end of the earlier segment.
func (s *Store) locateInsert(index int) (seg, off int) {
	for i, t := range s.segs {
		if index <= t.Len() {
			return i, index
		}
		index -= t.Len()
	}
	return len(s.segs) - 1, s.segs[len(s.segs)-1].Len()
}

// open inserts a new empty segment at position at.
func (s *Store) open(at int) error {
	if s.opts.MaxSegments > 0 && len(s.segs) >= s.opts.MaxSegments {
		return errors.New(errors.ErrCodeCapacityExceeded,
			"all %d segments of %d rules are full", s.opts.MaxSegments, s.opts.Capacity)
	}
	s.segs = append(s.segs, nil)
	copy(s.segs[at+1:], s.segs[at:])
	s.segs[at] = s.opts.NewTag(s.opts.Capacity)
	return nil
}

// split makes room in the full segment seg for an insertion at off. Rules
// after the midpoint move into a new segment opened right after seg. An
// append at the very end just opens the new segment.
func (s *Store) split(seg, off int) error {
	if err := s.open(seg + 1); err != nil {
		return err
	}
	src, dst := s.segs[seg], s.segs[seg+1]
	n := src.Len()
	if off == n {
		return nil
	}

	half := n / 2
	for i := half; i < n; i++ {
		if !dst.InsertRule(i-half, src.GetRule(i)) {
			return errors.New(errors.ErrCodeInternal, "new segment rejected rule %d during split", i)
		}
	}
	for i := n - 1; i >= half; i-- {
		src.DeleteRule(i)
	}
	return nil
}
