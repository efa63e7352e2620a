package extract

import "strings"

// Parser is a hand-written recursive-descent parser over a Lexer's token
// stream, handling .model / .subckt / .ends directives, the atTopLevel
// state that governs whether a .model directive is kept or dropped, and
// nested-subcircuit skip-depth tracking.
type Parser struct {
	lex       *Lexer
	file      string
	origLines []string // case-preserved, CR-stripped source lines, 1-indexed via origLines[n-1]
	log       *LogSink

	cur        Token
	atTopLevel bool
}

// NewParser builds a parser reading tokens from lex. origLines holds the
// original (pre-lowercasing) source lines, used only to capture a
// subcircuit's body text with its original casing intact.
func NewParser(lex *Lexer, file string, origLines []string, log *LogSink) *Parser {
	return &Parser{lex: lex, file: file, origLines: origLines, log: log, atTopLevel: true}
}

func (p *Parser) advance() { p.cur = p.lex.NextToken() }

func (p *Parser) logf(line int, format string, args ...interface{}) {
	p.log.Logf(p.file, line, format, args...)
}

// Run parses the entire token stream, invoking h for every model and
// subcircuit that survives parsing. It never returns a parse error:
// malformed directives are logged and skipped instead of aborting the
// whole file.
func (p *Parser) Run(h Handler) error {
	p.advance()
	for p.cur.Kind != TokEOF {
		switch p.cur.Kind {
		case TokNewline:
			p.advance()
		case TokDotCommand:
			p.directive(h)
		default:
			p.skipToNewline()
		}
	}
	return nil
}

// skipToNewline consumes tokens through (and including) the next newline,
// or EOF. It is the parser's sole recovery mechanism.
func (p *Parser) skipToNewline() {
	for p.cur.Kind != TokNewline && p.cur.Kind != TokEOF {
		p.advance()
	}
	if p.cur.Kind == TokNewline {
		p.advance()
	}
}

func (p *Parser) directive(h Handler) {
	word := strings.ToLower(p.cur.Lexeme)
	line := p.cur.Line
	p.advance()

	switch word {
	case ".model":
		p.parseModel(h, line)
	case ".subckt":
		p.parseSubckt(h, line)
	case ".ends":
		p.logf(line, "stray .ends with no matching .subckt")
		p.skipToNewline()
	default:
		p.skipToNewline()
	}
}

// parseModel handles a .model directive: name, type, then a parenthesized
// or bare parameter list. dirLine is the line the ".model" token was on.
func (p *Parser) parseModel(h Handler, dirLine int) {
	if p.cur.Kind != TokIdentifier {
		p.logf(dirLine, "malformed .model: missing name")
		p.skipToNewline()
		return
	}
	name := p.cur.Lexeme
	p.advance()

	if p.cur.Kind != TokIdentifier {
		p.logf(dirLine, "malformed .model %q: missing type", name)
		p.skipToNewline()
		return
	}
	modelType := p.cur.Lexeme
	p.advance()

	toks := p.collectDirectiveTokens()
	if p.cur.Kind == TokNewline {
		p.advance()
	}

	params, hasExpr, exprParam := processParams(toks, p.lex.Source())
	if hasExpr {
		p.logf(dirLine, "model %q dropped: parameter %q contains an expression", name, exprParam)
		return
	}

	// A .model seen while not at top level (i.e. textually inside a
	// .subckt body) is dropped. In this parser that case is intercepted
	// directly in parseSubckt's body scan and never reaches here; the
	// check is kept as a direct expression of that invariant.
	if !p.atTopLevel {
		p.logf(dirLine, "model %q dropped: nested inside a .subckt body", name)
		return
	}

	h.HandleModel(ModelRecord{
		Name:       name,
		Type:       modelType,
		SourceFile: p.file,
		Line:       dirLine,
		Params:     params,
	})
}

// collectDirectiveTokens materializes every token from the current
// position through (but not including) the line's terminating newline or
// EOF. processParams then scans this slice to find parameter boundaries
// and value spans, including any wrapping parentheses.
func (p *Parser) collectDirectiveTokens() []Token {
	var toks []Token
	for p.cur.Kind != TokNewline && p.cur.Kind != TokEOF {
		toks = append(toks, p.cur)
		p.advance()
	}
	return toks
}

// startsNextParam reports whether toks[i:] begins a new "[(] name [)] ="
// parameter, used both to find where a value's span ends and to locate
// the next parameter name.
func startsNextParam(toks []Token, i int) bool {
	j := i
	if j < len(toks) && toks[j].Kind == TokLParen {
		j++
	}
	if j >= len(toks) || toks[j].Kind != TokIdentifier {
		return false
	}
	j++
	if j < len(toks) && toks[j].Kind == TokRParen {
		j++
	}
	return j < len(toks) && toks[j].Kind == TokEquals
}

// collectValueSpan returns the end index (exclusive) of the value token
// span starting at start. Balanced parentheses within the span (as in
// max(0.18u,0.2u)) are consumed as part of the value; an unbalanced ')'
// terminates the span without being consumed — it belongs to an enclosing
// wrap, such as the outer parens in ".model b nmos (l=0.18u ...)".
func collectValueSpan(toks []Token, start int) int {
	depth := 0
	i := start
	for i < len(toks) {
		t := toks[i]
		switch t.Kind {
		case TokRParen:
			if depth == 0 {
				return i
			}
			depth--
			i++
		case TokLParen:
			// A '(' at depth 0 that opens the next "(name)=" parameter
			// (e.g. the "(w)" in "(l)=0.18u (w)=1u") ends this value's
			// span rather than nesting into it.
			if depth == 0 && startsNextParam(toks, i) {
				return i
			}
			depth++
			i++
		default:
			if depth == 0 && startsNextParam(toks, i) {
				return i
			}
			i++
		}
	}
	return i
}

// processParams scans a .model directive's parameter-region tokens,
// classifying each value. src is the lexer's source buffer, used to
// recover a value's exact raw text (including any SI suffix the lexer
// stripped from a TokNumber's Lexeme).
//
// This performs classification and expression-detection in one pass, per
// parameter value span, rather than scanning the whole directive as one
// string. Per-span detection is what lets a legitimate signed value on
// one parameter (vth=-0.7) coexist with an expression on another without
// one's bare sign being mistaken for the other's operator.
func processParams(toks []Token, src []byte) (params map[string]ParameterValue, hasExpr bool, exprParam string) {
	params = map[string]ParameterValue{}
	i := 0
	for i < len(toks) {
		if toks[i].Kind == TokLParen {
			structural := i+2 < len(toks) && toks[i+1].Kind == TokIdentifier && toks[i+2].Kind == TokRParen
			if !structural {
				i++ // stray/wrapping paren, not part of a "(name)" form
				continue
			}
			i++ // advance onto the identifier; its wrap-close is consumed below
		}

		if toks[i].Kind != TokIdentifier {
			i++ // skip forward to the next identifier, ')' or newline (already implicit at EOF)
			continue
		}
		name := toks[i].Lexeme
		i++

		if i < len(toks) && toks[i].Kind == TokRParen {
			i++ // consume "(name)"'s closing paren
		}
		if i >= len(toks) || toks[i].Kind != TokEquals {
			continue // malformed parameter, missing '='; resume scanning from here
		}
		i++ // consume '='

		if i >= len(toks) {
			break // trailing '=' with no value
		}

		valueStart := i
		valueEnd := collectValueSpan(toks, valueStart)
		if valueEnd == valueStart {
			i = valueEnd
			continue
		}
		raw := string(src[toks[valueStart].Start:toks[valueEnd-1].End])
		if IsExpression(raw) {
			return nil, true, name
		}
		params[name] = Classify(raw)
		i = valueEnd
	}
	return params, false, ""
}

// parseSubckt handles a .subckt directive: name, then the body through its
// matching .ends, tracking nested .subckt/.ends pairs by depth. Any
// .model seen anywhere in the body (nested or not) is dropped, per the
// atTopLevel invariant.
func (p *Parser) parseSubckt(h Handler, dirLine int) {
	if p.cur.Kind != TokIdentifier {
		p.logf(dirLine, "malformed .subckt: missing name")
		p.skipToNewline()
		return
	}
	name := p.cur.Lexeme
	p.advance()
	p.skipToNewline() // rest of the header line (ports, params) is not modeled

	wasTopLevel := p.atTopLevel
	p.atTopLevel = false

	nestDepth := 0
	closed := false
	endLine := 0

loop:
	for p.cur.Kind != TokEOF {
		switch p.cur.Kind {
		case TokNewline:
			p.advance()
		case TokDotCommand:
			word := strings.ToLower(p.cur.Lexeme)
			lineNo := p.cur.Line
			switch word {
			case ".subckt":
				p.logf(lineNo, "nested .subckt dropped inside %q", name)
				p.advance()
				p.skipToNewline()
				nestDepth++
			case ".ends":
				p.advance()
				p.skipToNewline()
				if nestDepth > 0 {
					nestDepth--
					continue
				}
				closed = true
				endLine = lineNo
				break loop
			case ".model":
				p.logf(lineNo, "model dropped: nested inside .subckt %q", name)
				p.advance()
				p.skipToNewline()
			default:
				p.advance()
				p.skipToNewline()
			}
		default:
			p.skipToNewline()
		}
	}

	p.atTopLevel = wasTopLevel

	if !closed {
		p.logf(dirLine, "unclosed .subckt %q: no matching .ends before EOF", name)
		return
	}

	h.HandleSubcircuit(SubcircuitRecord{
		Name:       name,
		Content:    p.captureLines(dirLine, endLine),
		SourceFile: p.file,
		Line:       dirLine,
	})
}

// captureLines joins the original (case-preserved) source lines [start,end]
// inclusive, 1-indexed, with newlines.
func (p *Parser) captureLines(start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(p.origLines) {
		end = len(p.origLines)
	}
	if end < start {
		return ""
	}
	return strings.Join(p.origLines[start-1:end], "\n")
}
