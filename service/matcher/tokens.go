package matcher

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	identifierCode
	starCode
	pipeCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	identifierToken = parsly.NewToken(identifierCode, "Identifier", newIdentifierMatcher())
	starToken       = parsly.NewToken(starCode, "*", matcher.NewByte('*'))
	pipeToken       = parsly.NewToken(pipeCode, "|", matcher.NewByte('|'))
)

func newIdentifierMatcher() parsly.Matcher {
	return &identifierMatcher{}
}

// identifierMatcher matches action type identifiers; slashes, dots and
// dashes are allowed so namespaced types like "user/FETCH" parse as a
// single token.
type identifierMatcher struct{}

func (m *identifierMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}

	matched := 0
	for i := pos; i < size; i++ {
		if isIdentifierByte(input[i]) {
			matched++
			continue
		}
		break
	}
	return matched
}

func isIdentifierByte(c byte) bool {
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
		return true
	}
	switch c {
	case '_', '.', '/', '-', ':':
		return true
	}
	return false
}
