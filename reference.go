package streamxml

// stepReferenceBegin dispatches on the code point right after '&':
// '#' starts a numeric reference, a lowercase letter starts one of the
// five predefined entity names (spec.md §4.4 state 13).
func (p *Parser) stepReferenceBegin(c codePoint) (Token, bool, *ParseError) {
	switch {
	case c.Decoded == '#':
		p.state = stateReferenceNumericStart
		return 0, false, nil
	case c.Decoded >= 'a' && c.Decoded <= 'z':
		if _, ok := p.buf.appendCodePoint(encodeCodePoint(c.Decoded, p.enc)); !ok {
			return p.outOfMemory()
		}
		p.state = stateReferenceEntity
		return 0, false, nil
	}
	return p.fail(CodeSyntax)
}

func (p *Parser) stepReferenceNumericStart(c codePoint) (Token, bool, *ParseError) {
	switch {
	case c.Decoded == 'x' || c.Decoded == 'X':
		p.refIsHex = true
		p.state = stateReferenceNumeric
		return 0, false, nil
	case c.Decoded >= '0' && c.Decoded <= '9':
		p.refIsHex = false
		if _, ok := p.buf.appendCodePoint(encodeCodePoint(c.Decoded, p.enc)); !ok {
			return p.outOfMemory()
		}
		p.state = stateReferenceNumeric
		return 0, false, nil
	}
	return p.fail(CodeSyntax)
}

func (p *Parser) stepReferenceNumeric(c codePoint) (Token, bool, *ParseError) {
	if c.Decoded == ';' {
		value, ok := resolveNumericReference(p.buf.bytes(p.refStart), p.enc, p.refIsHex)
		if !ok {
			return p.fail(CodeSyntax)
		}
		return p.resolveReference(value)
	}
	if _, ok := digitValue(c.Decoded, p.refIsHex); !ok {
		return p.fail(CodeSyntax)
	}
	if _, ok := p.buf.appendCodePoint(encodeCodePoint(c.Decoded, p.enc)); !ok {
		return p.outOfMemory()
	}
	return 0, false, nil
}

func (p *Parser) stepReferenceEntity(c codePoint) (Token, bool, *ParseError) {
	if c.Decoded == ';' {
		value, ok := resolvePredefinedEntity(p.buf.bytes(p.refStart), p.enc)
		if !ok {
			return p.fail(CodeSyntax)
		}
		return p.resolveReference(value)
	}
	if c.Decoded < 'a' || c.Decoded > 'z' {
		return p.fail(CodeSyntax)
	}
	if _, ok := p.buf.appendCodePoint(encodeCodePoint(c.Decoded, p.enc)); !ok {
		return p.outOfMemory()
	}
	return 0, false, nil
}

// resolveReference retracts the raw reference body accumulated since
// refStart and writes the resolved scalar's encoded bytes in its place,
// then resumes whichever state the reference interrupted. The fit check
// runs before the retraction actually happens: retracting first and
// checking after would destroy the raw reference text on a failed
// write, and that text is exactly what a replay after Realloc would
// need to re-resolve the same reference.
func (p *Parser) resolveReference(value uint32) (Token, bool, *ParseError) {
	cp := encodeCodePoint(value, p.enc)
	reclaimed := p.buf.free - p.refStart
	if uint32(cp.Bytes) > reclaimed+uint32(p.buf.remaining()) {
		return p.outOfMemory()
	}
	p.buf.free = p.refStart
	p.buf.terminated = false
	off, ok := p.buf.appendCodePoint(cp)
	if !ok {
		return p.outOfMemory()
	}
	if p.refReturn == stateOpenTag && p.contentOff == none {
		p.contentOff = off
	}
	p.state = p.refReturn
	return 0, false, nil
}
