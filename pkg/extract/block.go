package extract

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/matzehuels/styletower/pkg/groupid"
)

// Markup attributes of an emitted style block.
const (
	// AttrGroup carries the group id, marking the block for rehydration.
	AttrGroup = "data-st-group"
	// AttrKey carries the stable key of the definition behind the group.
	AttrKey = "data-st-key"
	// AttrRules carries the number of rules in the block.
	AttrRules = "data-st-rules"
	// AttrToken is the address attribute hosts deduplicate on.
	AttrToken = "href"
	// AttrPrecedence groups blocks for hosts that hoist styles.
	AttrPrecedence = "precedence"

	// Precedence is the value written to AttrPrecedence.
	Precedence = "styletower"
)

// Block is the extracted CSS of one group in one content state.
type Block struct {
	Group groupid.ID
	Key   string
	Token string
	Rules int
	CSS   string
}

// HTML renders the block as a <style> element.
func (b Block) HTML() string {
	var sb strings.Builder
	b.writeHTML(&sb)
	return sb.String()
}

func (b Block) writeHTML(sb *strings.Builder) {
	sb.WriteString(`<style `)
	sb.WriteString(AttrGroup)
	sb.WriteString(`="`)
	sb.WriteString(strconv.Itoa(int(b.Group)))
	sb.WriteString(`" `)
	sb.WriteString(AttrKey)
	sb.WriteString(`="`)
	sb.WriteString(html.EscapeString(b.Key))
	sb.WriteString(`" `)
	sb.WriteString(AttrRules)
	sb.WriteString(`="`)
	sb.WriteString(strconv.Itoa(b.Rules))
	sb.WriteString(`" `)
	sb.WriteString(AttrToken)
	sb.WriteString(`="`)
	sb.WriteString(b.Token)
	sb.WriteString(`" `)
	sb.WriteString(AttrPrecedence)
	sb.WriteString(`="`)
	sb.WriteString(Precedence)
	sb.WriteString(`">`)
	sb.WriteString(EscapeCSS(b.CSS))
	sb.WriteString(`</style>`)
}

// EscapeCSS makes css safe as the raw text of a <style> element by breaking
// every "</" sequence, which would otherwise be able to close the element.
func EscapeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// UnescapeCSS reverses EscapeCSS. It also rewrites a `<\/` that was in css
// before escaping, so callers holding a token should check both forms.
func UnescapeCSS(css string) string {
	return strings.ReplaceAll(css, `<\/`, "</")
}
