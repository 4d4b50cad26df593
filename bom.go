package streamxml

// stepNone handles whitespace, the start of a tag, and byte-order-mark
// detection at the very beginning of the document (spec.md §4.4 state 1).
func (p *Parser) stepNone(c codePoint) (Token, bool, *ParseError) {
	if isWhitespace(c.Decoded) {
		return 0, false, nil
	}
	if c.Decoded == '<' {
		return p.pushTag(stateNone)
	}
	if p.atDocumentStart() {
		switch c.Decoded {
		case 0xEF:
			return p.beginBOM("\xBB\xBF", UTF8)
		case 0xFE:
			return p.beginBOM("\xFF", UTF16BE)
		case 0xFF:
			return p.beginBOM("\xFE", UTF16LE)
		}
	}
	return p.fail(CodeSyntax)
}

// atDocumentStart reports whether no byte has been meaningfully consumed
// yet: no BOM, no frame ever pushed, nothing written to the scratch
// buffer. A BOM is only legal as the document's very first bytes.
func (p *Parser) atDocumentStart() bool {
	return !p.sawBOM && !p.rootElementSeen && p.buf.free == 0 && p.buf.stackHead == none
}

// beginBOM starts matching the remaining bytes of a byte-order mark
// (the lead byte has already been consumed by stepNone). enc is adopted
// once the match completes. BOM bytes never advance column (spec.md §3).
func (p *Parser) beginBOM(rest string, enc Encoding) (Token, bool, *ParseError) {
	p.Column--
	p.matchTarget = rest
	p.matchPos = 0
	p.matchEnc = enc
	p.state = stateBOM
	return 0, false, nil
}

func (p *Parser) stepBOM(c codePoint) (Token, bool, *ParseError) {
	p.Column--
	if c.Decoded != uint32(p.matchTarget[p.matchPos]) {
		return p.fail(CodeSyntax)
	}
	p.matchPos++
	if p.matchPos < len(p.matchTarget) {
		return 0, false, nil
	}
	p.enc = p.matchEnc
	p.sawBOM = true
	p.state = stateNone
	return 0, false, nil
}
