package streamxml

// stepCDATAMatch matches the literal "CDATA[" following "<![" and, on
// success, rolls back the disambiguation frame: a CDATA section's bytes
// are appended directly into the surrounding frame as literal content
// (spec.md §4.4 state 12).
func (p *Parser) stepCDATAMatch(c codePoint) (Token, bool, *ParseError) {
	if c.Decoded != uint32(p.matchTarget[p.matchPos]) {
		return p.fail(CodeSyntax)
	}
	p.matchPos++
	if p.matchPos < len(p.matchTarget) {
		return 0, false, nil
	}
	p.buf.popFrame()
	p.state = stateCDATAContent
	return 0, false, nil
}

func (p *Parser) appendContentChar(c codePoint) (Token, bool, *ParseError) {
	off, ok := p.buf.appendCodePoint(encodeCodePoint(c.Decoded, p.enc))
	if !ok {
		return p.outOfMemory()
	}
	if p.contentOff == none {
		p.contentOff = off
	}
	return 0, false, nil
}

func (p *Parser) stepCDATAContent(c codePoint) (Token, bool, *ParseError) {
	if c.Decoded == ']' {
		p.state = stateCDATABracket1
		return 0, false, nil
	}
	return p.appendContentChar(c)
}

// stepCDATABracket1 holds one trailing ']' back rather than appending
// it immediately, per the two-code-point-lookahead reformulation of the
// CDATA terminator check (spec.md §9's Open Question decision).
func (p *Parser) stepCDATABracket1(c codePoint) (Token, bool, *ParseError) {
	if c.Decoded == ']' {
		p.state = stateCDATABracket2
		return 0, false, nil
	}
	if tok, done, err := p.appendContentChar(codePoint{Decoded: ']'}); err != nil {
		return tok, done, err
	}
	p.state = stateCDATAContent
	return p.stepCDATAContent(c)
}

func (p *Parser) stepCDATABracket2(c codePoint) (Token, bool, *ParseError) {
	if c.Decoded == '>' {
		p.state = p.returnState
		return 0, false, nil
	}
	// Flush the oldest held-back ']'; a run of N ']' before '>' always
	// keeps exactly the last two pending.
	if tok, done, err := p.appendContentChar(codePoint{Decoded: ']'}); err != nil {
		return tok, done, err
	}
	if c.Decoded == ']' {
		return 0, false, nil // still two pending: the one just flushed's successor, plus this one
	}
	if tok, done, err := p.appendContentChar(codePoint{Decoded: ']'}); err != nil {
		return tok, done, err
	}
	p.state = stateCDATAContent
	return p.stepCDATAContent(c)
}
