package filter

import "strings"

type lexer struct {
	src    []byte
	ch     byte
	offset int
	pos    int
}

func newLexer(src []byte) *lexer {
	l := &lexer{src: src}
	l.next()

	return l
}

// Scan returns the position, token and value of the next token.
func (l *lexer) Scan() (int, Token, string) {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.next()
	}

	pos := l.pos
	if l.ch == 0 {
		return pos, eol, ""
	}

	switch {
	case isFieldChar(l.ch):
		return l.scanWord(pos)
	case isDigit(l.ch):
		return l.scanSize(pos)
	}

	ch := l.ch
	l.next()

	switch ch {
	case '(':
		return pos, lbracket, ""
	case ')':
		return pos, rbracket, ""
	case '=':
		return pos, equal, ""
	case '~':
		return pos, like, ""
	case '!':
		switch l.ch {
		case '=':
			l.next()
			return pos, notEqual, ""
		case '~':
			l.next()
			return pos, notLike, ""
		}
		return pos, illegal, "expected = or ~ after !"
	case '<':
		if l.ch == '=' {
			l.next()
			return pos, lte, ""
		}
		return pos, less, ""
	case '>':
		if l.ch == '=' {
			l.next()
			return pos, gte, ""
		}
		return pos, greater, ""
	case '"', '\'':
		return l.scanString(pos, ch)
	case '/':
		return l.scanRegex(pos)
	}

	return pos, illegal, "unexpected char"
}

func (l *lexer) scanWord(pos int) (int, Token, string) {
	start := l.pos
	for isFieldChar(l.ch) {
		l.next()
	}

	word := string(l.src[start:l.pos])
	switch strings.ToLower(word) {
	case "and":
		return pos, and, ""
	case "or":
		return pos, or, ""
	}
	return pos, field, word
}

func (l *lexer) scanSize(pos int) (int, Token, string) {
	start := l.pos
	for isDigit(l.ch) {
		l.next()
	}
	if l.ch == '.' {
		l.next()
		if !isDigit(l.ch) {
			return pos, illegal, "malformed number"
		}
		for isDigit(l.ch) {
			l.next()
		}
	}

	if isUnitStart(l.ch) {
		l.next()
		if l.ch != 'b' && l.ch != 'B' {
			return pos, illegal, "malformed size unit"
		}
		l.next()
	}

	if isFieldChar(l.ch) || l.ch == '.' {
		return pos, illegal, "malformed size"
	}

	return pos, size, string(l.src[start:l.pos])
}

func (l *lexer) scanString(pos int, quote byte) (int, Token, string) {
	var b strings.Builder
	for l.ch != quote {
		if l.ch == 0 {
			return pos, illegal, "unclosed string"
		}
		b.WriteByte(l.ch)
		l.next()
	}
	l.next()

	if b.Len() == 0 {
		return pos, illegal, "empty string"
	}
	return pos, stringLit, b.String()
}

func (l *lexer) scanRegex(pos int) (int, Token, string) {
	var b strings.Builder
	for l.ch != '/' {
		if l.ch == 0 {
			return pos, illegal, "unclosed regex"
		}
		if l.ch == '\\' && l.peek() == '/' {
			l.next()
		}
		b.WriteByte(l.ch)
		l.next()
	}
	l.next()

	return pos, regexLit, b.String()
}

// next loads the character at the next offset into l.ch, 0 at the end of the input.
func (l *lexer) next() {
	l.pos = l.offset
	if l.offset >= len(l.src) {
		l.ch = 0
		return
	}
	l.ch = l.src[l.offset]
	l.offset++
}

func (l *lexer) peek() byte {
	if l.offset >= len(l.src) {
		return 0
	}
	return l.src[l.offset]
}

func isFieldChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isUnitStart(ch byte) bool {
	switch ch {
	case 'k', 'K', 'm', 'M', 'g', 'G', 't', 'T':
		return true
	default:
		return false
	}
}
