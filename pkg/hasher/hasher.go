// Package hasher derives content addresses for style groups.
//
// Two values are derived from CSS text:
//
//   - [Token] is the address a rendering host uses to deduplicate style
//     blocks. It is a pure function of the group's CSS text: byte-identical
//     text always yields the same token, and any difference yields a different
//     token with overwhelming probability. Tokens only contain lowercase
//     letters, digits and a hyphen, so they are safe inside quoted and
//     unquoted markup attributes.
//   - [Name] is the class name minted for a set of declarations. It only
//     contains ASCII letters and is therefore always a valid CSS identifier.
//
// Both use 64-bit xxhash. Collisions are not detected; the goal is content
// addressing, not cryptographic strength.
package hasher

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// TokenPrefix starts every token.
const TokenPrefix = "st-"

// Token returns the address token for css.
func Token(css string) string {
	return TokenPrefix + strconv.FormatUint(xxhash.Sum64String(css), 36)
}

// Valid reports whether token has the shape produced by Token.
func Valid(token string) bool {
	if len(token) <= len(TokenPrefix) || token[:len(TokenPrefix)] != TokenPrefix {
		return false
	}
	rest := token[len(TokenPrefix):]
	if len(rest) > 13 { // base36 of the largest uint64
		return false
	}
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Name returns a class name for declarations, salted with the stable key of
// the group that owns them so that equal declarations in different groups do
// not share a selector.
func Name(salt, declarations string) string {
	d := xxhash.New()
	_, _ = d.WriteString(salt)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(declarations)
	return alphabetic(d.Sum64())
}

func alphabetic(x uint64) string {
	const n = uint64(len(alphabet))
	var buf [16]byte
	i := len(buf)
	for {
		i--
		buf[i] = alphabet[x%n]
		x /= n
		if x == 0 {
			break
		}
	}
	return string(buf[i:])
}
