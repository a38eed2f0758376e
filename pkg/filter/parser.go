package filter

import (
	"fmt"
	"slices"
)

// ParseError is the error returned by Parse.
type ParseError struct {
	// Position is the byte offset where the error occurred.
	Position int
	Message  string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Position, e.Message)
}

type parser struct {
	lexer *lexer
	pos   int    // position of the current token
	tok   Token  // current token
	val   string // value of the current token
}

// Parse parses a filter expression.
//
// The recursive descent methods panic with a ParseError, which is recovered
// here and returned. Any other panic is re-raised.
func Parse(src []byte) (expr Expression, err error) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(ParseError)
			if !ok {
				panic(r)
			}
			expr = nil
			err = pe
		}
	}()

	p := parser{lexer: newLexer(src)}
	p.next()

	expr = p.expression()
	p.expect(eol)

	return expr, nil
}

// expression parses term ( "or" term )*
func (p *parser) expression() Expression {
	expr := p.term()

	for p.matches(or) {
		p.next()
		expr = &binaryExpression{Left: expr, Op: or, Right: p.term()}
	}

	return expr
}

// term parses factor ( "and" factor )*
func (p *parser) term() Expression {
	expr := p.factor()

	for p.matches(and) {
		p.next()
		expr = &binaryExpression{Left: expr, Op: and, Right: p.factor()}
	}

	return expr
}

// factor parses comparison | "(" expression ")"
func (p *parser) factor() Expression {
	if !p.matches(lbracket) {
		return p.comparison()
	}

	p.next()
	expr := p.expression()
	p.expect(rbracket)
	p.next()

	return expr
}

func (p *parser) comparison() Expression {
	p.expect(field)
	left := newFieldExpression(p.pos, p.val)
	p.next()

	op := p.tok
	switch op {
	case equal, notEqual, greater, gte, less, lte:
		p.next()
		return &binaryExpression{Left: left, Op: op, Right: p.value()}
	case like, notLike:
		p.next()
		p.expect(regexLit)
		right := newRegexExpression(p.pos, p.val)
		p.next()
		return &binaryExpression{Left: left, Op: op, Right: right}
	default:
		panic(p.errorf("expected operator instead of %s", op))
	}
}

func (p *parser) value() Expression {
	var expr Expression

	switch p.tok {
	case stringLit:
		expr = &stringExpression{Value: p.val}
	case size:
		expr = newSizeExpression(p.pos, p.val)
	default:
		panic(p.errorf("expected value instead of %s", p.tok))
	}

	p.next()
	return expr
}

func (p *parser) next() {
	p.pos, p.tok, p.val = p.lexer.Scan()
	if p.tok == illegal {
		panic(p.errorf("%s", p.val))
	}
}

func (p *parser) matches(tokens ...Token) bool {
	return slices.Contains(tokens, p.tok)
}

func (p *parser) expect(tok Token) {
	if p.tok != tok {
		panic(p.errorf("expected %s instead of %s", tok, p.tok))
	}
}

func (p *parser) errorf(format string, args ...any) ParseError {
	return ParseError{p.pos, fmt.Sprintf(format, args...)}
}
