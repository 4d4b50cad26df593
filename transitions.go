package streamxml

// transition drives exactly one state change for the code point c, which
// has already been consumed from the input (and line/column updated).
// It returns done=true when a token or a terminal error is ready; done
// is false when the step produced no externally visible event and the
// caller should simply decode the next code point.
func (p *Parser) transition(c codePoint) (Token, bool, *ParseError) {
	switch p.state {
	case stateNone:
		return p.stepNone(c)
	case stateBOM:
		return p.stepBOM(c)

	case stateTagBegin:
		return p.stepTagBegin(c)
	case stateElementName:
		return p.stepElementName(c)
	case stateElementTagBody:
		return p.stepElementTagBody(c)

	case stateAttributeName:
		return p.stepAttributeName(c)
	case stateAttributeAssignment:
		return p.stepAttributeAssignment(c)
	case stateAttributeValue:
		return p.stepAttributeValue(c)

	case stateOpenTag:
		return p.stepOpenTag(c)

	case stateCommentCDATAOrDTDBegin:
		return p.stepCommentCDATAOrDTDBegin(c)
	case stateCommentBegin:
		return p.stepCommentBegin(c)
	case stateComment:
		return p.stepComment(c)
	case stateCommentDash1:
		return p.stepCommentDash1(c)
	case stateCommentDash2:
		return p.stepCommentDash2(c)

	case stateCDATAMatch:
		return p.stepCDATAMatch(c)
	case stateCDATAContent:
		return p.stepCDATAContent(c)
	case stateCDATABracket1:
		return p.stepCDATABracket1(c)
	case stateCDATABracket2:
		return p.stepCDATABracket2(c)

	case stateDTDMatch:
		return p.stepDTDMatch(c)
	case stateDTDContent:
		return p.stepDTDContent(c)

	case statePIContent:
		return p.stepPIContent(c)
	case statePIContentQuestion:
		return p.stepPIContentQuestion(c)

	case stateReferenceBegin:
		return p.stepReferenceBegin(c)
	case stateReferenceNumericStart:
		return p.stepReferenceNumericStart(c)
	case stateReferenceNumeric:
		return p.stepReferenceNumeric(c)
	case stateReferenceEntity:
		return p.stepReferenceEntity(c)
	}
	return p.fail(CodeSyntax)
}

// pushTag records the state we're pushing a frame from as the return
// state (used by the comment/CDATA/DTD disambiguator to tell whether
// we're at the top level or inside an open tag's content) and pushes a
// fresh, flagless frame.
func (p *Parser) pushTag(from state) (Token, bool, *ParseError) {
	if _, ok := p.buf.pushFrame(0); !ok {
		return p.outOfMemory()
	}
	p.returnState = from
	p.state = stateTagBegin
	return 0, false, nil
}

// terminateName appends a terminator after the name just accumulated at
// tagOff and computes its length, without yet deciding what to do next.
func (p *Parser) terminateName() {
	p.tagLen = p.buf.free - p.tagOff
	p.buf.appendTerminator(p.enc)
}

// closeTag implements the end-tag logic of spec.md §4.4: it dispatches
// on the head frame's flags once a complete tag has been recognized.
func (p *Parser) closeTag() (Token, bool, *ParseError) {
	off, flags, ok := p.buf.topFrame()
	if !ok {
		return p.fail(CodeSyntax)
	}

	switch {
	case flags.has(flagEndTag):
		parent, _ := frameHeader(p.buf.buf[off : off+frameHeaderSize])
		if parent == none {
			return p.fail(CodeTagMismatch)
		}
		childName := p.buf.frameName(off, p.enc)
		parentName := p.buf.frameName(parent, p.enc)
		if !equalBuf(childName, p.enc, parentName, p.enc) {
			return p.fail(CodeTagMismatch)
		}
		p.buf.popFrame() // drop the close tag's own disambiguation frame

		p.tagOff = parent + frameHeaderSize
		p.tagLen = uint32(len(parentName))
		if p.contentOff != none {
			end := off - uint32(terminatorSize(p.enc))
			if end > p.contentOff {
				p.contentLen = end - p.contentOff
			} else {
				p.contentOff, p.contentLen = none, 0
			}
		}

		grandparent, _ := frameHeader(p.buf.buf[parent : parent+frameHeaderSize])
		if grandparent == none {
			p.state = stateNone
		} else {
			p.state = stateOpenTag
		}
		p.postState = postStateTagEnd // defers popping the parent frame itself
		return ElementEnd, true, nil

	case flags.has(flagEmptyElement):
		selfParent, _ := frameHeader(p.buf.buf[off : off+frameHeaderSize])
		if selfParent == none {
			p.state = stateNone
		} else {
			p.state = stateOpenTag
		}
		p.postState = postStateTagEnd
		return ElementEnd, true, nil

	case flags.has(flagProcessingInstruction):
		return p.fail(CodeSyntax)

	default:
		if flags.has(flagBegun) {
			p.state = stateOpenTag
			return 0, false, nil
		}
		if !p.rootElementSeen {
			p.rootElementSeen = true
			p.documentOpen = true
		}
		p.contentOff, p.contentLen = none, 0
		p.state = stateOpenTag
		return ElementBegin, true, nil
	}
}
