package extract

import "strings"

// Lexer turns a line-oriented SPICE netlist buffer into a Token stream.
// The caller is expected to have already lowercased and CR-stripped the
// source (see driver.go) so that identifier and SI-suffix comparisons are
// case-insensitive by construction.
type Lexer struct {
	src  []byte
	pos  int
	line int
	file string
}

func NewLexer(src []byte, file string) *Lexer {
	return &Lexer{src: src, pos: 0, line: 1, file: file}
}

// Source exposes the underlying buffer so the parser can re-slice token
// spans to recover raw parameter text (see Token.End).
func (l *Lexer) Source() []byte { return l.src }

func (l *Lexer) emit(kind TokenKind, start, end int) Token {
	return Token{Kind: kind, Lexeme: string(l.src[start:end]), Start: start, End: end, Line: l.line, File: l.file}
}

func (l *Lexer) skipSpaceAndTab() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == ' ' || c == '\t' || c == '\r' {
			l.pos++
			continue
		}
		break
	}
}

// NextToken returns the next token. Once EOF is reached it keeps returning
// an EOF token on every subsequent call.
func (l *Lexer) NextToken() Token {
	l.skipSpaceAndTab()
	if l.pos >= len(l.src) {
		return l.emit(TokEOF, l.pos, l.pos)
	}

	start := l.pos
	ch := l.src[l.pos]

	switch {
	case ch == '\n':
		l.pos++
		tok := l.emit(TokNewline, start, l.pos)
		l.line++
		return tok
	case ch == '.':
		return l.lexDotDirective()
	case isIdentStart(ch):
		return l.lexIdentifier()
	case ch == '=':
		l.pos++
		return l.emit(TokEquals, start, l.pos)
	case ch == '(':
		l.pos++
		return l.emit(TokLParen, start, l.pos)
	case ch == ')':
		l.pos++
		return l.emit(TokRParen, start, l.pos)
	case isValueStart(ch):
		return l.lexValue()
	default:
		l.pos++
		return l.emit(TokUnknown, start, l.pos)
	}
}

// lexDotDirective reads a leading '.' and everything up to the next
// whitespace as a single dot-directive lexeme (".model", ".subckt", ...).
func (l *Lexer) lexDotDirective() Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) && !isLineWhitespace(l.src[l.pos]) && l.src[l.pos] != '\n' {
		l.pos++
	}
	return l.emit(TokDotCommand, start, l.pos)
}

func (l *Lexer) lexIdentifier() Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	return l.emit(TokIdentifier, start, l.pos)
}

// lexValue dispatches on the character that routed us here: quote, comma,
// a bare operator, a signed/unsigned number, or a generic opaque value.
func (l *Lexer) lexValue() Token {
	ch := l.src[l.pos]
	switch ch {
	case '\'', '"':
		return l.lexQuotedString(ch)
	case ',':
		start := l.pos
		l.pos++
		return l.emit(TokComma, start, l.pos)
	case '*', '/', '^':
		start := l.pos
		l.pos++
		return l.emit(TokOperator, start, l.pos)
	case '+', '-':
		if l.startsNumberAt(l.pos) {
			return l.lexNumber()
		}
		start := l.pos
		l.pos++
		return l.emit(TokOperator, start, l.pos)
	default:
		if isDigit(ch) {
			return l.lexNumber()
		}
		return l.lexGenericValue()
	}
}

// startsNumberAt reports whether a numeric literal begins at pos: an
// optional sign followed by a digit, or by '.' then a digit. This is what
// separates a signed number ("-0.7") from a bare arithmetic operator
// ("0.18u + 0.02u", where the '+' is followed by whitespace).
func (l *Lexer) startsNumberAt(pos int) bool {
	p := pos
	if p < len(l.src) && (l.src[p] == '+' || l.src[p] == '-') {
		p++
	}
	if p < len(l.src) && isDigit(l.src[p]) {
		return true
	}
	if p < len(l.src) && l.src[p] == '.' && p+1 < len(l.src) && isDigit(l.src[p+1]) {
		return true
	}
	return false
}

var siSuffixChars = "pnumkgt"

// lexNumber consumes a signed decimal literal with optional exponent, then
// an optional SI suffix ("meg" or a single char from siSuffixChars). The
// emitted Lexeme excludes the suffix so numeric comparisons don't need to
// know about units, but End still covers it, so the parser can recover
// the full raw text.
func (l *Lexer) lexNumber() Token {
	start := l.pos
	if l.src[l.pos] == '+' || l.src[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		save := l.pos
		p := l.pos + 1
		if p < len(l.src) && (l.src[p] == '+' || l.src[p] == '-') {
			p++
		}
		if p < len(l.src) && isDigit(l.src[p]) {
			l.pos = p
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}

	bodyEnd := l.pos
	suffixEnd := bodyEnd
	if bodyEnd+3 <= len(l.src) && strings.EqualFold(string(l.src[bodyEnd:bodyEnd+3]), "meg") {
		suffixEnd = bodyEnd + 3
	} else if bodyEnd < len(l.src) && strings.IndexByte(siSuffixChars, l.src[bodyEnd]) >= 0 {
		suffixEnd = bodyEnd + 1
	}
	l.pos = suffixEnd

	return Token{
		Kind:   TokNumber,
		Lexeme: string(l.src[start:bodyEnd]),
		Start:  start,
		End:    suffixEnd,
		Line:   l.line,
		File:   l.file,
	}
}

// lexQuotedString reads a quoted value. An unterminated string (no closing
// quote before a newline or EOF) is accepted as-is; the parser/classifier
// will most likely reject its contents as an expression anyway.
func (l *Lexer) lexQuotedString(quote byte) Token {
	start := l.pos
	l.pos++
	contentStart := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != quote && l.src[l.pos] != '\n' {
		l.pos++
	}
	contentEnd := l.pos
	if l.pos < len(l.src) && l.src[l.pos] == quote {
		l.pos++
	}
	return Token{
		Kind:   TokString,
		Lexeme: string(l.src[contentStart:contentEnd]),
		Start:  start,
		End:    l.pos,
		Line:   l.line,
		File:   l.file,
	}
}

// lexGenericValue reads an opaque value token up to the next delimiter.
func (l *Lexer) lexGenericValue() Token {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isLineWhitespace(c) || c == '\n' || c == '=' || c == '(' || c == ')' || c == ',' {
			break
		}
		l.pos++
	}
	if l.pos == start {
		l.pos++ // never stall: consume at least one byte
	}
	return l.emit(TokValue, start, l.pos)
}

func isLineWhitespace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isIdentStart(c byte) bool { return isAlpha(c) || c == '_' }

func isIdentPart(c byte) bool { return isAlpha(c) || isDigit(c) || c == '_' }

func isValueStart(c byte) bool {
	switch c {
	case '+', '-', '\'', '"', ',', '*', '/', '^':
		return true
	default:
		return isDigit(c)
	}
}
