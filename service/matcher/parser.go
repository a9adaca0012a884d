package matcher

import (
	"github.com/viant/parsly"
)

// term is one alternative of a parsed pattern expression. A prefix term
// matches every action type starting with Text.
type term struct {
	Text   string
	Prefix bool
}

// parseExpression parses a pattern expression in the format:
// term ('|' term)* where term is an identifier, an identifier followed by
// '*' (prefix match) or a bare '*' (wildcard).
func parseExpression(input []byte) ([]term, error) {
	cursor := parsly.NewCursor("", input, 0)
	var terms []term
	for {
		matched := cursor.MatchAfterOptional(whitespaceToken, identifierToken, starToken)
		switch matched.Code {
		case identifierToken.Code:
			text := matched.Text(cursor)
			one := term{Text: text}
			if next := cursor.MatchOne(starToken); next.Code == starToken.Code {
				one.Prefix = true
			}
			terms = append(terms, one)
		case starToken.Code:
			terms = append(terms, term{Prefix: true})
		default:
			return nil, cursor.NewError(identifierToken, starToken)
		}
		matched = cursor.MatchAfterOptional(whitespaceToken, pipeToken)
		if matched.Code != pipeToken.Code {
			break
		}
	}
	if cursor.Pos < cursor.InputSize {
		if matched := cursor.MatchOne(whitespaceToken); matched.Code != whitespaceToken.Code || cursor.Pos < cursor.InputSize {
			return nil, cursor.NewError(pipeToken)
		}
	}
	return terms, nil
}
