package streamxml

// stepOpenTag handles character content between a start tag and the
// next construct (spec.md §4.4 state 9).
func (p *Parser) stepOpenTag(c codePoint) (Token, bool, *ParseError) {
	switch c.Decoded {
	case '<':
		p.buf.appendTerminator(p.enc) // seal off any content run so far
		return p.pushTag(stateOpenTag)
	case '&':
		p.refStart = p.buf.free
		p.refReturn = stateOpenTag
		p.state = stateReferenceBegin
		return 0, false, nil
	}
	off, ok := p.buf.appendCodePoint(encodeCodePoint(c.Decoded, p.enc))
	if !ok {
		return p.outOfMemory()
	}
	if p.contentOff == none {
		p.contentOff = off
	}
	return 0, false, nil
}
