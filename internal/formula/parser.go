// Package formula parses and evaluates dosage formulas authored in the
// medication table.
//
// The grammar is closed:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = "-" unary | primary
//	primary = number | "體重" | "年齡" | "(" expr ")"
//
// Anything else is a *ParseError. A parsed Expr can only fail at runtime with
// a division by zero or a non-finite result.
package formula

import (
	"strconv"
	"strings"
)

const maxDepth = 64

type parser struct {
	toks  []token
	i     int
	depth int
	opens []int // positions of unclosed '('
}

// Parse builds an expression tree from formula text.
func Parse(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Kind: EmptyFormula}
	}

	p := &parser{toks: lex(text)}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}

	switch t := p.peek(); t.kind {
	case tokEOF:
		return e, nil
	case tokRParen:
		return nil, &ParseError{Kind: UnbalancedParens, Pos: t.pos, Token: t.text}
	default:
		return nil, p.unexpected(t)
	}
}

// MustParse is Parse for formulas known to be valid. It panics on error.
func MustParse(text string) Expr {
	e, err := Parse(text)
	if err != nil {
		panic("formula: " + err.Error())
	}
	return e
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokPlus && t.kind != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: t.text[0], Pos: t.pos, L: left, R: right}
	}
}

func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokStar && t.kind != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: t.text[0], Pos: t.pos, L: left, R: right}
	}
}

func (p *parser) unary() (Expr, error) {
	t := p.peek()
	if t.kind != tokMinus {
		return p.primary()
	}
	if err := p.enter(t); err != nil {
		return nil, err
	}
	defer p.leave()

	p.next()
	x, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Neg{X: x}, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, &ParseError{Kind: InvalidNumber, Pos: t.pos, Token: t.text}
		}
		return &Num{Value: v}, nil

	case tokIdent:
		v, ok := identifiers[t.text]
		if !ok {
			return nil, &ParseError{Kind: UnknownIdentifier, Pos: t.pos, Token: t.text}
		}
		return &Ident{Var: v}, nil

	case tokLParen:
		if err := p.enter(t); err != nil {
			return nil, err
		}
		defer p.leave()

		p.opens = append(p.opens, t.pos)
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing.kind != tokRParen {
			return nil, p.unexpected(closing)
		}
		p.opens = p.opens[:len(p.opens)-1]
		return e, nil

	case tokRParen:
		return nil, &ParseError{Kind: UnbalancedParens, Pos: t.pos, Token: t.text}
	}
	return nil, p.unexpected(t)
}

func (p *parser) enter(t token) error {
	p.depth++
	if p.depth > maxDepth {
		return &ParseError{Kind: TooDeep, Pos: t.pos, Token: t.text}
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// unexpected reports t. Reaching the end inside a group is reported against
// the outermost unclosed '('.
func (p *parser) unexpected(t token) *ParseError {
	if t.kind == tokEOF {
		if len(p.opens) > 0 {
			return &ParseError{Kind: UnbalancedParens, Pos: p.opens[0], Token: "("}
		}
		return &ParseError{Kind: UnexpectedEnd, Pos: t.pos}
	}
	return &ParseError{Kind: UnexpectedToken, Pos: t.pos, Token: t.text}
}
