// Package rehydrate reconciles a client-side stylesheet with the style
// blocks a server already rendered into the document.
//
// [Reconcile] reads the document, collects every <style> element carrying
// the group marker written by the extract package, verifies each block
// (group id, stable key, rule count and content token) and restores the
// groups into a [sheet.StyleSheet]. Later insertions then append after the
// server's rules instead of duplicating them, and static declarations the
// server already emitted are recognized by the names registry.
//
// Reconciliation fails soft. A malformed block or a token that does not
// match its content leaves the sheet empty and is reported through
// [Report.Degraded]. Only a failing reader or a canceled context is returned
// as an error.
package rehydrate

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/matzehuels/styletower/pkg/errors"
	"github.com/matzehuels/styletower/pkg/extract"
	"github.com/matzehuels/styletower/pkg/groupid"
	"github.com/matzehuels/styletower/pkg/hasher"
	"github.com/matzehuels/styletower/pkg/observability"
	"github.com/matzehuels/styletower/pkg/sheet"
)

// Options configures Reconcile.
type Options struct {
	// Logger receives progress and degradation messages. Nil means log.Default().
	Logger *log.Logger
}

// Report summarizes a reconciliation.
type Report struct {
	Blocks   int // style blocks found in the document
	Groups   int // distinct groups restored
	Rules    int // rules present in the sheet afterwards
	Degraded bool
	Reason   string
}

// block is a pre-rendered style block as found in the document.
type block struct {
	group groupid.ID
	key   string
	token string
	rules []string
}

// Reconcile restores the groups found in r into s.
func Reconcile(ctx context.Context, s *sheet.StyleSheet, r io.Reader, opts Options) (Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	start := time.Now()

	var report Report
	blocks, err := scan(ctx, r)
	if ctx.Err() != nil {
		return report, ctx.Err()
	}
	if errors.Is(err, errors.ErrCodeInternal) {
		return report, err
	}
	report.Blocks = len(blocks)
	if err == nil {
		err = apply(s, blocks)
	}
	if err != nil {
		s.Reset()
		report.Degraded = true
		report.Reason = err.Error()
		logger.Warn("rehydration failed, starting with an empty sheet", "reason", report.Reason)
		observability.Rehydrate().OnRehydrate(ctx, 0, 0, true, time.Since(start))
		return report, nil
	}

	report.Groups = len(s.Groups())
	report.Rules = s.Len()
	logger.Debug("rehydrated sheet",
		"blocks", report.Blocks,
		"groups", report.Groups,
		"rules", report.Rules)
	observability.Rehydrate().OnRehydrate(ctx, report.Groups, report.Rules, false, time.Since(start))
	return report, nil
}

func apply(s *sheet.StyleSheet, blocks []block) error {
	for _, b := range blocks {
		if err := s.RestoreGroup(b.key, b.group, b.rules); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedBlock, err, "restore group %d", b.group)
		}
	}
	return nil
}

// scan tokenizes the document and decodes every marked style block.
func scan(ctx context.Context, r io.Reader) ([]block, error) {
	var blocks []block
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "read document")
			}
			return blocks, nil

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "style" || !hasAttr {
				continue
			}
			attrs := readAttrs(z)
			if _, ok := attrs[extract.AttrGroup]; !ok {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			var text string
			if z.Next() == html.TextToken {
				text = string(z.Text())
			}
			b, err := decode(attrs, text)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, b)
		}
	}
}

func readAttrs(z *html.Tokenizer) map[string]string {
	attrs := make(map[string]string)
	for {
		k, v, more := z.TagAttr()
		attrs[string(k)] = string(v)
		if !more {
			return attrs
		}
	}
}

func decode(attrs map[string]string, text string) (block, error) {
	group, err := strconv.Atoi(attrs[extract.AttrGroup])
	if err != nil || groupid.ID(group) < groupid.First {
		return block{}, errors.New(errors.ErrCodeMalformedBlock, "invalid group id %q", attrs[extract.AttrGroup])
	}
	key := attrs[extract.AttrKey]
	if err := errors.ValidateDefinitionKey(key); err != nil {
		return block{}, errors.Wrap(errors.ErrCodeMalformedBlock, err, "group %d", group)
	}
	count, err := strconv.Atoi(attrs[extract.AttrRules])
	if err != nil || count < 0 {
		return block{}, errors.New(errors.ErrCodeMalformedBlock, "group %d: invalid rule count %q", group, attrs[extract.AttrRules])
	}
	token := attrs[extract.AttrToken]
	if !hasher.Valid(token) {
		return block{}, errors.New(errors.ErrCodeMalformedBlock, "group %d: invalid token %q", group, token)
	}

	css, err := verify(text, token)
	if err != nil {
		return block{}, errors.Wrap(errors.ErrCodeMalformedBlock, err, "group %d", group)
	}
	rules, err := SplitRules(css)
	if err != nil {
		return block{}, errors.Wrap(errors.ErrCodeMalformedBlock, err, "group %d", group)
	}
	if len(rules) != count {
		return block{}, errors.New(errors.ErrCodeMalformedBlock, "group %d: found %d rules, block claims %d", group, len(rules), count)
	}

	return block{
		group: groupid.ID(group),
		key:   key,
		token: token,
		rules: rules,
	}, nil
}

// verify recovers the CSS behind the raw text of a block and checks it
// against token. EscapeCSS leaves a literal `<\/` untouched, so the text is
// tried both unescaped and as is. CSS holding both "</" and a literal `<\/`
// matches neither and degrades.
func verify(text, token string) (string, error) {
	css := extract.UnescapeCSS(text)
	got := hasher.Token(css)
	if got == token {
		return css, nil
	}
	if css != text && hasher.Token(text) == token {
		return text, nil
	}
	return "", errors.New(errors.ErrCodeMalformedBlock, "content hashes to %s, block claims %s", got, token)
}
