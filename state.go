package streamxml

// state is the tokenizer's internal grammar state. It is deliberately its
// own enumeration, disjoint from Token and ErrorCode, per the decision
// recorded in DESIGN.md (the state.go entry) against reproducing the
// overlapping negative-state/negative-error-code numbering of the
// source this design is drawn from.
type state int

const (
	stateNone state = iota
	stateBOM // generic "match the rest of a byte-order mark" state

	stateTagBegin
	stateElementName
	stateElementTagBody // after the name, scanning for attributes or '>'

	stateAttributeName
	stateAttributeAssignment
	stateAttributeValue

	stateOpenTag

	stateCommentCDATAOrDTDBegin
	stateCommentBegin // just consumed the first '-' of "<!--"
	stateComment
	stateCommentDash1 // one trailing '-' seen inside a comment
	stateCommentDash2 // two trailing '-' seen, only '>' can close now

	stateCDATAMatch // matching the literal "CDATA[" after "<!["
	stateCDATAContent
	stateCDATABracket1 // one trailing ']' held back, pending a second
	stateCDATABracket2 // two trailing ']' held back, only '>' can close now

	stateDTDMatch // matching the literal "OCTYPE" after "<!D"
	stateDTDContent

	statePIContent
	statePIContentQuestion // one trailing '?' held back, pending '>'

	stateReferenceBegin
	stateReferenceNumericStart // just consumed '#', deciding decimal vs hex
	stateReferenceNumeric
	stateReferenceEntity

	stateErrorInsufficientMemory
	stateErrorSyntax
	stateErrorEncoding
	stateErrorTagMismatch
	stateErrorInvalidDocumentTypeDeclaration
	stateErrorInvalidDocumentDeclaration
)

// errorStateCode maps a terminal or sticky error state to the public
// ErrorCode the API layer reports for it. unexpected-eof has no entry:
// it is never stored as a state, only ever returned transiently from a
// single step (see parser.go), since recovering from it needs nothing
// more than another Parse call with more input.
func errorStateCode(s state) (ErrorCode, bool) {
	switch s {
	case stateErrorInsufficientMemory:
		return CodeInsufficientMemory, true
	case stateErrorSyntax:
		return CodeSyntax, true
	case stateErrorEncoding:
		return CodeEncoding, true
	case stateErrorTagMismatch:
		return CodeTagMismatch, true
	case stateErrorInvalidDocumentTypeDeclaration:
		return CodeInvalidDocumentTypeDeclaration, true
	case stateErrorInvalidDocumentDeclaration:
		return CodeInvalidDocumentDeclaration, true
	}
	return 0, false
}

// postState is a deferred cleanup action recorded while emitting a token,
// run at the very start of the next Parse call before any new input is
// consumed (spec.md §4.4 "Post-state cleanup").
type postState int

const (
	postStateNone postState = iota
	postStateTagEnd
	postStateAttributeEnd
)
