package streamxml

// stepPIContent accumulates a processing instruction's body, holding a
// '?' back whenever one appears since it may introduce the closing
// "?>" (spec.md §4.4 state 14).
func (p *Parser) stepPIContent(c codePoint) (Token, bool, *ParseError) {
	if c.Decoded == '?' {
		p.state = statePIContentQuestion
		return 0, false, nil
	}
	return p.appendContentChar(c)
}

func (p *Parser) stepPIContentQuestion(c codePoint) (Token, bool, *ParseError) {
	if c.Decoded == '>' {
		return p.closeProcInst()
	}
	if tok, done, err := p.appendContentChar(codePoint{Decoded: '?'}); err != nil {
		return tok, done, err
	}
	if c.Decoded == '?' {
		return 0, false, nil
	}
	p.state = statePIContent
	return p.stepPIContent(c)
}

// closeProcInst terminates a PI's body, reconciles the document
// encoding when the target is "xml" at the root, and emits ProcInstEnd.
func (p *Parser) closeProcInst() (Token, bool, *ParseError) {
	off, _, _ := p.buf.topFrame()
	p.buf.appendTerminator(p.enc)
	if p.contentOff != none {
		term := uint32(terminatorSize(p.enc))
		if p.buf.free >= term+p.contentOff {
			p.contentLen = p.buf.free - term - p.contentOff
		}
	}

	isXML := equalFold(p.buf.frameName(off, p.enc), p.enc, "xml")
	if isXML {
		if err := p.reconcileDeclaredEncoding(); err != nil {
			return 0, true, err
		}
	}

	selfParent, _ := frameHeader(p.buf.buf[off : off+frameHeaderSize])
	if isXML || selfParent == none {
		p.state = stateNone
	} else {
		p.state = stateOpenTag
	}
	p.postState = postStateTagEnd
	return ProcInstEnd, true, nil
}

// reconcileDeclaredEncoding inspects the "<?xml ... encoding="..."?>"
// body (now sitting between p.contentOff and the current free offset)
// against whatever a BOM already established, per spec.md §4.4 state 14.
func (p *Parser) reconcileDeclaredEncoding() *ParseError {
	declared, ok := extractEncodingDeclaration(p.buf.bytes(0), p.contentOff, p.contentLen, p.enc)
	if !ok {
		return nil
	}
	switch {
	case !p.sawBOM:
		switch declared {
		case "utf-8":
			p.enc = UTF8
		case "utf-16":
			p.state = stateErrorEncoding
			return &ParseError{Code: CodeEncoding, Line: p.Line, Column: p.Column}
		}
	case p.enc == UTF8:
		if declared != "utf-8" {
			p.state = stateErrorEncoding
			return &ParseError{Code: CodeEncoding, Line: p.Line, Column: p.Column}
		}
	case p.enc == UTF16LE || p.enc == UTF16BE:
		if declared != "utf-16" {
			p.state = stateErrorEncoding
			return &ParseError{Code: CodeEncoding, Line: p.Line, Column: p.Column}
		}
	}
	return nil
}

// extractEncodingDeclaration scans body for encoding="..." or
// encoding='...' and returns its value with ASCII letters lower-cased
// (so "UTF-8" becomes "utf-8"), whatever that value is, or ok=false if
// the pseudo-attribute is absent or not a well-formed quoted value.
func extractEncodingDeclaration(buf []byte, off, length uint32, enc Encoding) (string, bool) {
	body := buf[off : off+length]
	pos := 0
	for pos < len(body) {
		if hasPrefixFold(body[pos:], enc, "encoding") {
			rest := body[pos+codePointAdvance(8, enc):]
			return parseQuotedLower(rest, enc)
		}
		c := decodeCodePoint(body[pos:], enc)
		if c.Bytes == 0 {
			break
		}
		pos += int(c.Bytes)
	}
	return "", false
}

// codePointAdvance is the byte width of n single-byte ASCII code points
// under enc - 1 byte each for utf-8/unknown, 2 for either utf-16.
func codePointAdvance(n int, enc Encoding) int {
	return n * terminatorSize(enc)
}

func parseQuotedLower(rest []byte, enc Encoding) (string, bool) {
	pos := 0
	for pos < len(rest) {
		c := decodeCodePoint(rest[pos:], enc)
		if c.Bytes == 0 {
			return "", false
		}
		pos += int(c.Bytes)
		if c.Decoded == '=' {
			break
		}
		if !isWhitespace(c.Decoded) {
			return "", false
		}
	}
	if pos >= len(rest) {
		return "", false
	}
	quote := decodeCodePoint(rest[pos:], enc)
	if quote.Bytes == 0 || (quote.Decoded != '"' && quote.Decoded != '\'') {
		return "", false
	}
	pos += int(quote.Bytes)
	start := pos
	for pos < len(rest) {
		c := decodeCodePoint(rest[pos:], enc)
		if c.Bytes == 0 {
			return "", false
		}
		if c.Decoded == quote.Decoded {
			value := lowerASCII(rest[start:pos], enc)
			return value, true
		}
		pos += int(c.Bytes)
	}
	return "", false
}

func lowerASCII(buf []byte, enc Encoding) string {
	out := make([]byte, 0, len(buf))
	pos := 0
	for pos < len(buf) {
		c := decodeCodePoint(buf[pos:], enc)
		if c.Bytes == 0 {
			break
		}
		v := c.Decoded
		if v >= 'A' && v <= 'Z' {
			v += 'a' - 'A'
		}
		out = append(out, byte(v))
		pos += int(c.Bytes)
	}
	return string(out)
}
