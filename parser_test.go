package streamxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	tok     Token
	tag     string
	attr    string
	val     string
	content string
}

// drain feeds the whole of xml to p (in one logical call, relying on
// Parse's own looping) and records every token up to and including
// EndOfDocument, failing the test on any error. The accessor strings are
// views into the scratch buffer that are only valid until the next Parse
// call, so each one is copied before recording.
func drain(t *testing.T, p *Parser, xml []byte) []recordedEvent {
	t.Helper()
	var events []recordedEvent
	for {
		tok, err := p.Parse(xml)
		require.NoError(t, err)
		events = append(events, recordedEvent{
			tok:     tok,
			tag:     strings.Clone(p.Tag()),
			attr:    strings.Clone(p.Attribute()),
			val:     strings.Clone(p.Value()),
			content: strings.Clone(p.Content()),
		})
		if tok == EndOfDocument {
			return events
		}
	}
}

func newTestParser(size int) *Parser {
	return NewParser(make([]byte, size))
}

// parseUntilError repeatedly calls Parse(xml) - Parse returns after every
// single token, not after the whole input - until an error surfaces, and
// returns it. Fails the test if EndOfDocument is reached first.
func parseUntilError(t *testing.T, p *Parser, xml []byte) error {
	t.Helper()
	for {
		tok, err := p.Parse(xml)
		if err != nil {
			return err
		}
		require.NotEqual(t, EndOfDocument, tok, "reached end of document without the expected error")
	}
}

func TestScenario1XMLDeclarationAndNestedSiblings(t *testing.T) {
	p := newTestParser(256)
	events := drain(t, p, []byte(`<?xml version="1.0" encoding="UTF-8"?><r><b>A</b><b>B</b></r>`))

	want := []Token{
		ProcInstBegin, ProcInstEnd,
		ElementBegin, ElementBegin, ElementEnd,
		ElementBegin, ElementEnd,
		ElementEnd, EndOfDocument,
	}
	require.Len(t, events, len(want))
	for i, e := range events {
		assert.Equal(t, want[i], e.tok, "event %d", i)
	}

	assert.Equal(t, "xml", events[0].tag)
	assert.Equal(t, `version="1.0" encoding="UTF-8"`, events[1].content)
	assert.Equal(t, "r", events[2].tag)
	assert.Equal(t, "b", events[3].tag)
	assert.Equal(t, "A", events[4].content)
	assert.Equal(t, "b", events[5].tag)
	assert.Equal(t, "B", events[6].content)
	assert.Equal(t, "r", events[7].tag)
	assert.Equal(t, UTF8, p.enc)
}

func TestScenario2Attributes(t *testing.T) {
	p := newTestParser(256)
	events := drain(t, p, []byte(`<a x="1" y='2'/>`))

	require.Len(t, events, 5)
	assert.Equal(t, ElementBegin, events[0].tok)
	assert.Equal(t, "a", events[0].tag)

	assert.Equal(t, Attribute, events[1].tok)
	assert.Equal(t, "x", events[1].attr)
	assert.Equal(t, "1", events[1].val)
	assert.Equal(t, "a", events[1].tag)

	assert.Equal(t, Attribute, events[2].tok)
	assert.Equal(t, "y", events[2].attr)
	assert.Equal(t, "2", events[2].val)

	assert.Equal(t, ElementEnd, events[3].tok)
	assert.Equal(t, "a", events[3].tag)

	assert.Equal(t, EndOfDocument, events[4].tok)
}

func TestScenario3CharacterReferences(t *testing.T) {
	p := newTestParser(256)
	events := drain(t, p, []byte(`<a>&lt;&#65;&#x42;</a>`))

	require.Len(t, events, 3)
	assert.Equal(t, ElementEnd, events[1].tok)
	assert.Equal(t, "<AB", events[1].content)
}

func TestScenario4CommentDiscarded(t *testing.T) {
	p := newTestParser(256)
	events := drain(t, p, []byte(`<a><!-- </a> --></a>`))

	require.Len(t, events, 3)
	assert.Equal(t, ElementBegin, events[0].tok)
	assert.Equal(t, ElementEnd, events[1].tok)
	assert.Equal(t, "", events[1].content)
	assert.Equal(t, EndOfDocument, events[2].tok)
}

func TestScenario5CDATALiteralContent(t *testing.T) {
	p := newTestParser(256)
	events := drain(t, p, []byte(`<a><![CDATA[<b>&]]></a>`))

	require.Len(t, events, 3)
	assert.Equal(t, ElementEnd, events[1].tok)
	assert.Equal(t, "<b>&", events[1].content)
}

func TestScenario6UTF16LEBOM(t *testing.T) {
	p := newTestParser(256)
	input := []byte{0xFF, 0xFE, 0x3C, 0x00, 0x61, 0x00, 0x2F, 0x00, 0x3E, 0x00}
	events := drain(t, p, input)

	require.Len(t, events, 3)
	assert.Equal(t, ElementBegin, events[0].tok)
	// Tag is a view of the name's bytes in the document's encoding.
	assert.Equal(t, "a\x00", events[0].tag)
	assert.Equal(t, ElementEnd, events[1].tok)
	assert.Equal(t, EndOfDocument, events[2].tok)
	assert.Equal(t, UTF16LE, p.enc)

	raw := p.buf.buf[p.tagOff : p.tagOff+4]
	assert.Equal(t, []byte{0x61, 0x00, 0x00, 0x00}, raw)
}

func TestScenario7TagMismatch(t *testing.T) {
	p := newTestParser(256)
	xml := []byte(`<a><b></c></a>`)
	err := parseUntilError(t, p, xml)
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, CodeTagMismatch, pe.Code)
	assert.EqualValues(t, 1, pe.Line)

	// Sticky: calling Parse again returns the same error without
	// advancing, per spec.md §7.
	_, err2 := p.Parse(xml)
	require.ErrorAs(t, err2, &pe)
	assert.Equal(t, CodeTagMismatch, pe.Code)
}

func TestEmptyElementContentAbsent(t *testing.T) {
	p := newTestParser(64)
	events := drain(t, p, []byte(`<x/>`))

	require.Len(t, events, 3)
	assert.Equal(t, ElementBegin, events[0].tok)
	assert.Equal(t, ElementEnd, events[1].tok)
	assert.Equal(t, "", events[1].content)
	assert.Equal(t, EndOfDocument, events[2].tok)
}

func TestDeclarationAfterRootIsInvalid(t *testing.T) {
	p := newTestParser(256)
	err := parseUntilError(t, p, []byte(`<a/><?xml version="1.0"?>`))
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, CodeInvalidDocumentDeclaration, pe.Code)
}

func TestDoctypeAfterRootIsInvalid(t *testing.T) {
	p := newTestParser(256)
	err := parseUntilError(t, p, []byte(`<a/><!DOCTYPE a>`))
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, CodeInvalidDocumentTypeDeclaration, pe.Code)
}

func TestDoctypeBeforeRootIsAccepted(t *testing.T) {
	p := newTestParser(256)
	events := drain(t, p, []byte(`<!DOCTYPE a><a/>`))
	require.Len(t, events, 3)
	assert.Equal(t, ElementBegin, events[0].tok)
	assert.Equal(t, ElementEnd, events[1].tok)
	assert.Equal(t, EndOfDocument, events[2].tok)
}

func TestChunkedInputMatchesSingleShot(t *testing.T) {
	full := []byte(`<r><b>hello</b><b>world</b></r>`)

	p1 := newTestParser(256)
	want := drain(t, p1, full)

	// Split into two chunks mid-content: the tokenizer must see the same
	// stream regardless of where the input happens to be cut.
	p2 := newTestParser(256)
	var got []recordedEvent
	for _, xml := range [][]byte{full[:10], full[10:]} {
		for {
			tok, err := p2.Parse(xml)
			if err != nil {
				var pe *ParseError
				if require.ErrorAs(t, err, &pe); pe.Code == CodeUnexpectedEOF {
					break // needs the next chunk
				}
				require.NoError(t, err)
			}
			got = append(got, recordedEvent{
				tok:     tok,
				tag:     strings.Clone(p2.Tag()),
				content: strings.Clone(p2.Content()),
			})
			if tok == EndOfDocument {
				break
			}
		}
	}

	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].tok, got[i].tok, "event %d", i)
		assert.Equal(t, want[i].tag, got[i].tag, "event %d tag", i)
		assert.Equal(t, want[i].content, got[i].content, "event %d content", i)
	}
}

func TestInsufficientInputMidCodePointResumes(t *testing.T) {
	p := newTestParser(256)
	// A UTF-8 BOM forces utf-8 decoding so the two-byte "é" is actually
	// decoded two bytes at a time rather than as two Unknown-encoding
	// single-byte code points.
	full := []byte("\xEF\xBB\xBF<a>\xC3\xA9</a>")
	splitAt := 7 // "\xEF\xBB\xBF<a>\xC3" - cuts right after the first byte of "é"

	var sawUnexpectedEOF bool
	var lastTok Token
	var endContent string
	for _, chunk := range [][]byte{full[:splitAt], full[splitAt:]} {
		for {
			tok, err := p.Parse(chunk)
			if err != nil {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				if pe.Code == CodeUnexpectedEOF {
					sawUnexpectedEOF = true
					break // exhausted this chunk mid code point; move to the next
				}
				require.NoError(t, err)
			}
			lastTok = tok
			if tok == ElementEnd {
				endContent = strings.Clone(p.Content())
			}
			if tok == EndOfDocument {
				break
			}
		}
	}

	assert.True(t, sawUnexpectedEOF, "splitting mid code point should surface CodeUnexpectedEOF at least once")
	assert.Equal(t, EndOfDocument, lastTok)
	assert.Equal(t, UTF8, p.enc)
	assert.Equal(t, "é", endContent)
}

func TestInsufficientMemoryThenReallocResumes(t *testing.T) {
	p := newTestParser(4) // too small even to push the first frame
	input := []byte(`<a></a>`)

	_, err := p.Parse(input)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, CodeInsufficientMemory, pe.Code)

	p.Realloc(make([]byte, 64))

	events := drain(t, p, input)
	require.Len(t, events, 3)
	assert.Equal(t, ElementBegin, events[0].tok)
	assert.Equal(t, ElementEnd, events[1].tok)
	assert.Equal(t, EndOfDocument, events[2].tok)
}

func TestParseErrorRecoverable(t *testing.T) {
	assert.True(t, (&ParseError{Code: CodeInsufficientMemory}).Recoverable())
	assert.True(t, (&ParseError{Code: CodeUnexpectedEOF}).Recoverable())
	assert.False(t, (&ParseError{Code: CodeSyntax}).Recoverable())
}
