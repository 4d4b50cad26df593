package streamxml

// stepAttributeName accumulates an attribute name until whitespace or
// '=' terminates it (spec.md §4.4 state 6).
func (p *Parser) stepAttributeName(c codePoint) (Token, bool, *ParseError) {
	switch {
	case c.Decoded == '=':
		p.attrLen = p.buf.free - p.attrOff
		p.buf.appendTerminator(p.enc)
		p.sawEquals = true
		p.state = stateAttributeAssignment
		return 0, false, nil
	case isWhitespace(c.Decoded):
		p.attrLen = p.buf.free - p.attrOff
		p.buf.appendTerminator(p.enc)
		p.sawEquals = false
		p.state = stateAttributeAssignment
		return 0, false, nil
	case isNameChar(c.Decoded):
		cp := encodeCodePoint(c.Decoded, p.enc)
		if _, ok := p.buf.appendCodePoint(cp); !ok {
			return p.outOfMemory()
		}
		return 0, false, nil
	}
	return p.fail(CodeSyntax)
}

// stepAttributeAssignment scans whitespace, the '=' if not already
// seen, and the opening quote (spec.md §4.4 state 7).
func (p *Parser) stepAttributeAssignment(c codePoint) (Token, bool, *ParseError) {
	switch {
	case isWhitespace(c.Decoded):
		return 0, false, nil
	case c.Decoded == '=' && !p.sawEquals:
		p.sawEquals = true
		return 0, false, nil
	case (c.Decoded == '"' || c.Decoded == '\'') && p.sawEquals:
		_, flags, _ := p.buf.topFrame()
		if c.Decoded == '"' {
			flags.set(flagDoubleQuote)
		} else {
			flags.clear(flagDoubleQuote)
		}
		p.buf.setTopFlags(flags)
		p.valOff = p.buf.free
		p.state = stateAttributeValue
		return 0, false, nil
	}
	return p.fail(CodeSyntax)
}

// stepAttributeValue accumulates an attribute value until the matching
// closing quote, resolving character references along the way
// (spec.md §4.4 state 8).
func (p *Parser) stepAttributeValue(c codePoint) (Token, bool, *ParseError) {
	_, flags, _ := p.buf.topFrame()
	closing := uint32('\'')
	if flags.has(flagDoubleQuote) {
		closing = uint32('"')
	}

	switch {
	case c.Decoded == closing:
		p.valLen = p.buf.free - p.valOff
		p.buf.appendTerminator(p.enc)
		p.state = stateElementTagBody
		p.postState = postStateAttributeEnd
		return Attribute, true, nil
	case c.Decoded == '&':
		p.refStart = p.buf.free
		p.refReturn = stateAttributeValue
		p.state = stateReferenceBegin
		return 0, false, nil
	case c.Decoded == '<':
		return p.fail(CodeSyntax)
	}
	cp := encodeCodePoint(c.Decoded, p.enc)
	if _, ok := p.buf.appendCodePoint(cp); !ok {
		return p.outOfMemory()
	}
	return 0, false, nil
}
