package streamxml

// stepDTDMatch matches the literal "OCTYPE" completing "<!DOCTYPE" and
// rolls back the disambiguation frame: a document-type declaration
// yields no tokens, it is only accepted syntactically (spec.md §4.4
// state 15; full DTD validation is explicitly out of scope).
func (p *Parser) stepDTDMatch(c codePoint) (Token, bool, *ParseError) {
	if c.Decoded != uint32(p.matchTarget[p.matchPos]) {
		return p.fail(CodeSyntax)
	}
	p.matchPos++
	if p.matchPos < len(p.matchTarget) {
		return 0, false, nil
	}
	p.buf.popFrame()
	p.dtdBracketDepth = 0
	p.state = stateDTDContent
	return 0, false, nil
}

// stepDTDContent consumes the rest of the declaration opaquely, tracking
// one level of "[ ... ]" internal-subset nesting so a '>' inside it
// doesn't prematurely end the declaration.
func (p *Parser) stepDTDContent(c codePoint) (Token, bool, *ParseError) {
	switch c.Decoded {
	case '[':
		p.dtdBracketDepth++
	case ']':
		if p.dtdBracketDepth > 0 {
			p.dtdBracketDepth--
		}
	case '>':
		if p.dtdBracketDepth == 0 {
			p.state = stateNone
		}
	}
	return 0, false, nil
}
