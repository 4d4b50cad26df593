package streamxml

import "unsafe"

const none = packedOffsetNone

// Parser is the tokenizer's context. The zero value is not usable; build
// one with NewParser and a caller-owned scratch buffer, exactly as hoxml's
// context/buffer pair is wired together in hoxml_init.
type Parser struct {
	buf *scratch

	input    []byte
	inputPtr unsafe.Pointer // identity of the last slice seen by Parse, for the "new slice" check
	pos      int

	enc    Encoding
	sawBOM bool

	state           state
	postState       postState
	returnState     state
	errReturnState  state
	rootElementSeen bool
	documentOpen    bool

	carry    [4]byte
	carryLen int

	pending     codePoint
	havePending bool // true when pending failed to write last step and must be replayed after Realloc

	matchTarget string
	matchPos    int
	matchEnc    Encoding // encoding to adopt once a BOM match completes

	refStart  uint32 // scratch offset where the accumulated reference body begins
	refIsHex  bool
	refReturn state

	sawEquals      bool
	dtdBracketDepth int

	tagOff, tagLen         uint32
	attrOff, attrLen       uint32
	valOff, valLen         uint32
	contentOff, contentLen uint32

	Line   uint32
	Column uint32
}

// NewParser builds a Parser over buf, equivalent to hoxml_init: the
// buffer is zeroed and installed, and Line starts at 1.
func NewParser(buf []byte) *Parser {
	for i := range buf {
		buf[i] = 0
	}
	p := &Parser{
		buf:  newScratch(buf),
		Line: 1,
	}
	p.clearObservables()
	return p
}

func (p *Parser) clearObservables() {
	p.tagOff, p.tagLen = none, 0
	p.attrOff, p.attrLen = none, 0
	p.valOff, p.valLen = none, 0
	p.contentOff, p.contentLen = none, 0
}

func stringOf(buf []byte, off, l uint32) string {
	if off == none {
		return ""
	}
	return unsafeString(buf[off : off+l])
}

// Tag is the element or processing-instruction name most recently
// reported by ElementBegin, ElementEnd, Attribute, or ProcInstBegin.
func (p *Parser) Tag() string { return stringOf(p.buf.buf, p.tagOff, p.tagLen) }

// Attribute is the attribute name reported by the most recent Attribute token.
func (p *Parser) Attribute() string { return stringOf(p.buf.buf, p.attrOff, p.attrLen) }

// Value is the attribute value reported by the most recent Attribute token.
func (p *Parser) Value() string { return stringOf(p.buf.buf, p.valOff, p.valLen) }

// Content is the character content reported by the most recent ElementEnd
// or ProcInstEnd token, or "" if the element had none.
func (p *Parser) Content() string { return stringOf(p.buf.buf, p.contentOff, p.contentLen) }

func ptrOf(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

// Realloc installs a larger backing buffer, copying the live region over
// and recovering from CodeInsufficientMemory if that was the current
// state - spec.md §4.3 "Relocate". Because every internal reference into
// the scratch buffer is an offset rather than a pointer, nothing besides
// the copy itself needs adjusting; see the doc comment on scratch. The
// code point that failed to write is held in p.pending and replayed by
// step() without being re-decoded, so line/column bookkeeping is not
// touched here - it already accounted for that code point once.
func (p *Parser) Realloc(buf []byte) {
	p.buf.realloc(buf)
	if p.state == stateErrorInsufficientMemory {
		p.state = p.errReturnState
	}
}

// Parse consumes xml (which may be a fresh slice, continuing the same
// slice, or more bytes appended logically after the last one) and
// returns the next token or an error. Terminal errors and
// CodeInsufficientMemory are sticky: once returned, further calls return
// the same error without consuming more input, until Realloc recovers
// the memory case. CodeUnexpectedEOF is not sticky - it is never stored
// as a state - so the next call with more bytes simply resumes.
func (p *Parser) Parse(xml []byte) (Token, error) {
	if code, terminal := errorStateCode(p.state); terminal && code != CodeInsufficientMemory {
		return 0, &ParseError{Code: code, Line: p.Line, Column: p.Column}
	}
	if p.state == stateErrorInsufficientMemory {
		return 0, &ParseError{Code: CodeInsufficientMemory, Line: p.Line, Column: p.Column}
	}

	if ptrOf(xml) != p.inputPtr {
		p.input = xml
		p.inputPtr = ptrOf(xml)
		p.pos = 0
	}

	p.runPostState()

	for {
		tok, done, err := p.step()
		if err != nil {
			return 0, err
		}
		if done {
			return tok, nil
		}
	}
}

// runPostState executes the deferred cleanup recorded by the previous
// token emission, per spec.md §4.4.
func (p *Parser) runPostState() {
	switch p.postState {
	case postStateTagEnd:
		if p.buf.stackHead == none {
			break
		}
		closedXMLDecl := equalFold(p.buf.frameName(p.buf.stackHead, p.enc), p.enc, "xml")
		p.buf.popFrame()
		// The closed construct's content run belongs to it alone; the
		// enclosing element starts a fresh run with its next character.
		p.contentOff, p.contentLen = none, 0
		if closedXMLDecl {
			p.state = stateNone
		} else if p.buf.stackHead == none {
			p.documentOpen = false
		}
	case postStateAttributeEnd:
		if p.attrOff != none {
			p.buf.free = p.attrOff
		}
		p.buf.terminated = true
		p.attrOff, p.attrLen = none, 0
		p.valOff, p.valLen = none, 0
	}
	p.postState = postStateNone
}

// step decodes and consumes a single code point and drives one state
// transition. done reports whether a token is ready to return (tok is
// only meaningful when done is true) or whether an error, recoverable or
// not, occurred (err is non-nil, done is true).
func (p *Parser) step() (tok Token, done bool, err *ParseError) {
	if !p.havePending && p.buf.stackHead == none && p.state == stateNone && p.pos >= len(p.input) && p.carryLen == 0 && p.rootElementSeenAndClosed() {
		return EndOfDocument, true, nil
	}

	var c codePoint
	if p.havePending {
		// Redeliver the code point a prior step couldn't write to the
		// scratch buffer; nextCodePoint already consumed it from the
		// input, and line/column already accounted for it once.
		c = p.pending
	} else {
		var wait bool
		c, wait = p.nextCodePoint()
		if wait {
			return 0, true, &ParseError{Code: CodeUnexpectedEOF, Line: p.Line, Column: p.Column}
		}
		if c.Bytes == 0 {
			return p.fail(CodeSyntax)
		}
		p.advanceLineColumn(c)
	}

	debugf("%c [%08X] [L%dC%d] state=%d", printableOrSpace(c.Decoded), c.Decoded, p.Line, p.Column, p.state)

	tok, done, err = p.transition(c)
	p.havePending = err != nil && err.Code == CodeInsufficientMemory
	if p.havePending {
		p.pending = c
	}
	return tok, done, err
}

func printableOrSpace(decoded uint32) rune {
	if decoded < 0x20 || decoded > 0x7E {
		return ' '
	}
	return rune(decoded)
}

// rootElementSeenAndClosed reports whether the root element has both
// opened and fully closed, so an empty stack at this point unambiguously
// means EndOfDocument rather than "root hasn't opened yet".
func (p *Parser) rootElementSeenAndClosed() bool {
	return p.rootElementSeen && !p.documentOpen
}

// nextCodePoint assembles up to 4 bytes from the carry-over buffer plus
// the current input slice and decodes them. wait=true means fewer bytes
// are available than the code point under the current encoding needs;
// the available bytes are stashed back into the carry buffer for the
// next call.
func (p *Parser) nextCodePoint() (c codePoint, wait bool) {
	avail := p.carryLen + (len(p.input) - p.pos)
	take := avail
	if take > 4 {
		take = 4
	}
	var combined [4]byte
	copy(combined[:], p.carry[:p.carryLen])
	fromInput := take - p.carryLen
	copy(combined[p.carryLen:take], p.input[p.pos:p.pos+fromInput])

	c = decodeCodePoint(combined[:take], p.enc)
	if c.Decoded == insufficientInput {
		p.carryLen = take
		copy(p.carry[:], combined[:take])
		p.pos += fromInput
		return codePoint{}, true
	}
	if c.Bytes == 0 {
		return c, false
	}

	origCarryLen := p.carryLen
	p.carryLen = 0
	consumedFromInput := int(c.Bytes) - origCarryLen
	if consumedFromInput < 0 {
		consumedFromInput = 0
	}
	p.pos += consumedFromInput
	return c, false
}

func (p *Parser) advanceLineColumn(c codePoint) {
	if c.Decoded == '\n' {
		p.Line++
		p.Column = 0
		return
	}
	p.Column++
}

func (p *Parser) fail(code ErrorCode) (Token, bool, *ParseError) {
	var s state
	switch code {
	case CodeSyntax:
		s = stateErrorSyntax
	case CodeEncoding:
		s = stateErrorEncoding
	case CodeTagMismatch:
		s = stateErrorTagMismatch
	case CodeInvalidDocumentTypeDeclaration:
		s = stateErrorInvalidDocumentTypeDeclaration
	case CodeInvalidDocumentDeclaration:
		s = stateErrorInvalidDocumentDeclaration
	}
	p.state = s
	e := &ParseError{Code: code, Line: p.Line, Column: p.Column}
	return 0, true, e
}

func (p *Parser) outOfMemory() (Token, bool, *ParseError) {
	p.errReturnState = p.state
	p.state = stateErrorInsufficientMemory
	return 0, true, &ParseError{Code: CodeInsufficientMemory, Line: p.Line, Column: p.Column}
}
