package formula

import (
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokIllegal
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of formula"
	case tokNumber:
		return "number"
	case tokIdent:
		return "identifier"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	}
	return "illegal character"
}

type token struct {
	kind tokenKind
	text string
	pos  int // rune offset into the formula
}

// lex splits a formula into tokens. It never fails: characters outside the
// grammar become tokIllegal and are rejected by the parser with their
// position.
func lex(src string) []token {
	runes := []rune(src)
	toks := make([]token, 0, len(runes)/2+1)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
			continue
		case r == '+':
			toks = append(toks, token{tokPlus, "+", i})
		case r == '-':
			toks = append(toks, token{tokMinus, "-", i})
		case r == '*':
			toks = append(toks, token{tokStar, "*", i})
		case r == '/':
			toks = append(toks, token{tokSlash, "/", i})
		case r == '(':
			toks = append(toks, token{tokLParen, "(", i})
		case r == ')':
			toks = append(toks, token{tokRParen, ")", i})
		case isDigit(r) || r == '.':
			start := i
			for i < len(runes) && (isDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			toks = append(toks, token{tokNumber, string(runes[start:i]), start})
			continue
		case isIdentStart(r):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			toks = append(toks, token{tokIdent, string(runes[start:i]), start})
			continue
		default:
			toks = append(toks, token{tokIllegal, string(r), i})
		}
		i++
	}

	return append(toks, token{tokEOF, "", len(runes)})
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
