package streamxml

import "fmt"

// ErrorCode is one of the seven codes Parser.Parse can fail with, wrapped
// in a *ParseError. Hosts should branch on these named values rather than
// on the Parse return Token directly, per spec.md §9's warning against
// leaking internal state numbering into the public API: the state
// machine's own enumeration is kept entirely separate from this one.
type ErrorCode int

const (
	// CodeInsufficientMemory: the scratch buffer has no room for the next
	// write. Recoverable by calling Realloc with a larger buffer.
	CodeInsufficientMemory ErrorCode = iota
	// CodeUnexpectedEOF: the input slice ran out before a token boundary.
	// Recoverable by calling Parse again with more input.
	CodeUnexpectedEOF
	// CodeSyntax: the grammar was violated. Terminal.
	CodeSyntax
	// CodeEncoding: the byte-order mark and the <?xml encoding?> declaration
	// disagree, or a UTF-16 declaration appeared with no BOM. Terminal.
	CodeEncoding
	// CodeTagMismatch: a close tag's name didn't match its open tag. Terminal.
	CodeTagMismatch
	// CodeInvalidDocumentTypeDeclaration: <!DOCTYPE> appeared after the root
	// element opened. Terminal.
	CodeInvalidDocumentTypeDeclaration
	// CodeInvalidDocumentDeclaration: <?xml?> appeared after the root
	// element opened. Terminal.
	CodeInvalidDocumentDeclaration
)

// messages holds the human-readable text for each ErrorCode, indexed the
// same way yaninyzwitty-hyperpb-go/error.go indexes its errCode table
// instead of allocating a new error string per occurrence.
var messages = [...]string{
	CodeInsufficientMemory:             "insufficient memory: scratch buffer is full",
	CodeUnexpectedEOF:                  "unexpected EOF: input exhausted before a token boundary",
	CodeSyntax:                         "syntax error",
	CodeEncoding:                       "encoding error: byte-order mark and declaration disagree",
	CodeTagMismatch:                    "tag mismatch: close tag does not match open tag",
	CodeInvalidDocumentTypeDeclaration: "<!DOCTYPE> after the root element",
	CodeInvalidDocumentDeclaration:     "<?xml?> after the root element",
}

// ParseError is the error Parser.Parse returns on failure.
//
// Two codes are recoverable (spec.md §5): CodeInsufficientMemory by a call
// to Realloc with a larger buffer, and CodeUnexpectedEOF by a call to
// Parse with more input. The rest are terminal: once returned, every
// subsequent call to Parse returns an equal error without advancing.
type ParseError struct {
	Code   ErrorCode
	Line   uint32
	Column uint32
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("streamxml: %s (line %d, column %d)", messages[e.Code], e.Line, e.Column)
}

// Recoverable reports whether the host can resume parsing after this
// error: CodeInsufficientMemory via Realloc, CodeUnexpectedEOF via a
// further Parse call with more input.
func (e *ParseError) Recoverable() bool {
	return e.Code == CodeInsufficientMemory || e.Code == CodeUnexpectedEOF
}
