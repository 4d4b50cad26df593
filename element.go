package streamxml

// stepTagBegin handles the code point immediately after '<', once a
// frame has already been pushed for it (spec.md §4.4 state 3).
func (p *Parser) stepTagBegin(c codePoint) (Token, bool, *ParseError) {
	switch c.Decoded {
	case '?':
		_, flags, _ := p.buf.topFrame()
		flags.set(flagProcessingInstruction)
		p.buf.setTopFlags(flags)
		return 0, false, nil // stay in stateTagBegin: the target name starts next
	case '/':
		_, flags, _ := p.buf.topFrame()
		flags.set(flagEndTag)
		p.buf.setTopFlags(flags)
		return 0, false, nil // stay in stateTagBegin: the close-tag name starts next
	case '!':
		p.state = stateCommentCDATAOrDTDBegin
		return 0, false, nil
	}
	if isNameStartChar(c.Decoded) {
		return p.beginName(c)
	}
	return p.fail(CodeSyntax)
}

// beginName appends the first character of an element, close-tag, or
// processing-instruction name and records where it started.
func (p *Parser) beginName(c codePoint) (Token, bool, *ParseError) {
	cp := encodeCodePoint(c.Decoded, p.enc)
	off, ok := p.buf.appendCodePoint(cp)
	if !ok {
		return p.outOfMemory()
	}
	p.tagOff = off
	p.state = stateElementName
	return 0, false, nil
}

// stepElementName handles a name already under construction - an
// element name, a close-tag name, or a processing-instruction target
// (spec.md §4.4 states 4-5, unified since nothing but the frame's own
// flags distinguishes them).
func (p *Parser) stepElementName(c codePoint) (Token, bool, *ParseError) {
	_, flags, _ := p.buf.topFrame()

	switch {
	case c.Decoded == '>' && !flags.has(flagProcessingInstruction):
		p.terminateName()
		return p.closeTag()

	case c.Decoded == '?' && flags.has(flagProcessingInstruction):
		p.terminateName()
		if err := p.checkXMLDeclPlacement(); err != nil {
			return 0, true, err
		}
		p.contentOff, p.contentLen = none, 0
		p.state = statePIContentQuestion // allow a bare "<?x?>" with no whitespace
		return ProcInstBegin, true, nil

	case c.Decoded == '/':
		if flags.has(flagEndTag) {
			return p.fail(CodeSyntax) // "</x/>" is never valid
		}
		p.terminateName()
		flags.set(flagEmptyElement)
		p.buf.setTopFlags(flags)
		if !flags.has(flagProcessingInstruction) && !p.rootElementSeen {
			p.rootElementSeen = true
			p.documentOpen = true
		}
		p.contentOff, p.contentLen = none, 0
		p.state = stateElementTagBody
		return ElementBegin, true, nil

	case isWhitespace(c.Decoded):
		p.terminateName()
		if flags.has(flagEndTag) {
			p.state = stateElementTagBody
			return 0, false, nil
		}
		if flags.has(flagProcessingInstruction) {
			if err := p.checkXMLDeclPlacement(); err != nil {
				return 0, true, err
			}
			p.contentOff, p.contentLen = none, 0
			p.state = statePIContent
			return ProcInstBegin, true, nil
		}
		flags.set(flagBegun)
		p.buf.setTopFlags(flags)
		if !p.rootElementSeen {
			p.rootElementSeen = true
			p.documentOpen = true
		}
		p.contentOff, p.contentLen = none, 0
		p.state = stateElementTagBody
		return ElementBegin, true, nil

	case isNameChar(c.Decoded):
		cp := encodeCodePoint(c.Decoded, p.enc)
		if _, ok := p.buf.appendCodePoint(cp); !ok {
			return p.outOfMemory()
		}
		return 0, false, nil
	}
	return p.fail(CodeSyntax)
}

// checkXMLDeclPlacement enforces that a "<?xml?>" processing instruction
// only ever appears before the root element, per spec.md §4.4 state 14.
func (p *Parser) checkXMLDeclPlacement() *ParseError {
	if !equalFold(p.buf.frameName(p.buf.stackHead, p.enc), p.enc, "xml") {
		return nil
	}
	parent, _ := frameHeader(p.buf.buf[p.buf.stackHead : p.buf.stackHead+frameHeaderSize])
	if parent != none || p.rootElementSeen {
		p.state = stateErrorInvalidDocumentDeclaration
		return &ParseError{Code: CodeInvalidDocumentDeclaration, Line: p.Line, Column: p.Column}
	}
	return nil
}

// stepElementTagBody scans for attributes, the empty-element '/', or the
// closing '>' after an element or close-tag name (spec.md §4.4 state 5).
func (p *Parser) stepElementTagBody(c codePoint) (Token, bool, *ParseError) {
	switch {
	case isWhitespace(c.Decoded):
		return 0, false, nil
	case c.Decoded == '>':
		return p.closeTag()
	case c.Decoded == '/':
		_, flags, _ := p.buf.topFrame()
		if flags.has(flagEndTag) {
			return p.fail(CodeSyntax)
		}
		flags.set(flagEmptyElement)
		p.buf.setTopFlags(flags)
		return 0, false, nil
	case isNameStartChar(c.Decoded):
		_, flags, _ := p.buf.topFrame()
		if flags.has(flagEndTag) {
			return p.fail(CodeSyntax) // "</x attr>" is never valid
		}
		cp := encodeCodePoint(c.Decoded, p.enc)
		off, ok := p.buf.appendCodePoint(cp)
		if !ok {
			return p.outOfMemory()
		}
		p.attrOff = off
		p.state = stateAttributeName
		return 0, false, nil
	}
	return p.fail(CodeSyntax)
}
