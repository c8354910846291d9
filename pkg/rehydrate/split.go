package rehydrate

import (
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/matzehuels/styletower/pkg/errors"
)

// SplitRules splits CSS text into its top-level rules. Each rule is returned
// byte for byte as it appears in text; whitespace and comments between rules
// are dropped. Braces inside strings and comments do not count.
func SplitRules(text string) ([]string, error) {
	var rules []string
	l := css.NewLexer(parse.NewInputString(text))

	depth, start, pos := 0, -1, 0
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && err != io.EOF {
				return nil, errors.Wrap(errors.ErrCodeMalformedBlock, err, "tokenize css")
			}
			break
		}
		n := len(data)

		if start < 0 && (tt == css.WhitespaceToken || tt == css.CommentToken) {
			pos += n
			continue
		}
		if start < 0 {
			start = pos
		}

		switch tt {
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
			if depth < 0 {
				return nil, errors.New(errors.ErrCodeMalformedBlock, "unbalanced '}' at offset %d", pos)
			}
			if depth == 0 {
				rules = append(rules, text[start:pos+n])
				start = -1
			}
		case css.SemicolonToken:
			if depth == 0 {
				rules = append(rules, text[start:pos+n])
				start = -1
			}
		}
		pos += n
	}

	if depth != 0 || start >= 0 {
		return nil, errors.New(errors.ErrCodeMalformedBlock, "unterminated rule")
	}
	return rules, nil
}
