package extract

import (
	"io"
	"slices"
	"strings"

	"github.com/matzehuels/styletower/pkg/groupid"
	"github.com/matzehuels/styletower/pkg/sheet"
)

// Element is one rendered element: its extension chain, most basic
// definition first and the element's own group last.
type Element struct {
	Chain []groupid.ID
}

type emitted struct {
	group groupid.ID
	token string
}

// Session extracts blocks for one response. It is not safe for concurrent use.
type Session struct {
	sheet   *sheet.StyleSheet
	emitted map[emitted]struct{}
	blocks  []Block

	// later holds, per group, the groups that followed it in some chain.
	later map[groupid.ID]map[groupid.ID]struct{}
}

// NewSession creates a session reading from s.
func NewSession(s *sheet.StyleSheet) *Session {
	return &Session{
		sheet:   s,
		emitted: make(map[emitted]struct{}),
		later:   make(map[groupid.ID]map[groupid.ID]struct{}),
	}
}

// Emit emits the blocks one element needs and returns only the new ones.
// Groups without rules are skipped. An unregistered group in chain fails with
// UNKNOWN_GROUP; blocks emitted before the failure are kept.
//
// A new block is placed ahead of every block of a group that followed its
// group in any chain of this response, so [Session.Blocks], [Session.CSS]
// and [Session.HTML] keep bases before extensions even when a base changes
// after an extension was emitted. The returned slice is in emission order.
func (s *Session) Emit(chain []groupid.ID) ([]Block, error) {
	s.recordChain(chain)

	var out []Block
	for _, id := range chain {
		tok, err := s.sheet.Token(id)
		if err != nil {
			return out, err
		}
		if s.Emitted(id, tok) {
			continue
		}

		n, _ := s.sheet.RuleCount(id)
		if n == 0 {
			continue
		}
		css, err := s.sheet.GroupCSS(id)
		if err != nil {
			return out, err
		}

		b := Block{
			Group: id,
			Key:   s.sheet.Key(id),
			Token: tok,
			Rules: n,
			CSS:   css,
		}
		s.emitted[emitted{group: id, token: tok}] = struct{}{}
		s.blocks = slices.Insert(s.blocks, s.insertionPoint(id), b)
		out = append(out, b)
	}
	return out, nil
}

func (s *Session) recordChain(chain []groupid.ID) {
	for i, id := range chain {
		if i == len(chain)-1 {
			break
		}
		set, ok := s.later[id]
		if !ok {
			set = make(map[groupid.ID]struct{})
			s.later[id] = set
		}
		for _, next := range chain[i+1:] {
			if next != id {
				set[next] = struct{}{}
			}
		}
	}
}

// insertionPoint returns the index of the first block whose group followed
// id in a chain, or len(s.blocks).
func (s *Session) insertionPoint(id groupid.ID) int {
	set := s.later[id]
	for i, b := range s.blocks {
		if _, ok := set[b.Group]; ok {
			return i
		}
	}
	return len(s.blocks)
}

// Extract emits blocks for elements in document order.
func (s *Session) Extract(elements []Element) ([]Block, error) {
	var out []Block
	for _, el := range elements {
		blocks, err := s.Emit(el.Chain)
		out = append(out, blocks...)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// Emitted reports whether group id was emitted with token in this response.
func (s *Session) Emitted(id groupid.ID, token string) bool {
	_, ok := s.emitted[emitted{group: id, token: token}]
	return ok
}

// Blocks returns every block emitted so far, bases before extensions.
func (s *Session) Blocks() []Block {
	out := make([]Block, len(s.blocks))
	copy(out, s.blocks)
	return out
}

// CSS returns the concatenated CSS of every emitted block.
func (s *Session) CSS() string {
	var sb strings.Builder
	for _, b := range s.blocks {
		sb.WriteString(b.CSS)
	}
	return sb.String()
}

// HTML returns the markup of every emitted block.
func (s *Session) HTML() string {
	var sb strings.Builder
	for _, b := range s.blocks {
		b.writeHTML(&sb)
	}
	return sb.String()
}

// WriteTo writes the markup of every emitted block to w.
func (s *Session) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.HTML())
	return int64(n), err
}

// Reset forgets what was emitted, preparing the session for a new response.
func (s *Session) Reset() {
	s.emitted = make(map[emitted]struct{})
	s.later = make(map[groupid.ID]map[groupid.ID]struct{})
	s.blocks = nil
}
