package streamxml

// scratch manages the caller-owned contiguous byte slice that backs every
// node frame, every accumulated name/value, and the frame stack itself.
// Unlike hoxml, a Go slice's addressing is relative from the start: this
// is the one design point where the Go translation is genuinely simpler
// than the original. hoxml_realloc walks every live pointer and rebases
// it against the delta between the old and new allocation; here, because
// every stored reference is already a uint32 offset rather than a raw
// pointer, growing the backing slice via Realloc needs nothing more than
// a copy - there is nothing to rebase.
type scratch struct {
	buf        []byte
	free       uint32 // offset of the first unused byte
	stackHead  uint32 // offset of the top frame, or packedOffsetNone
	terminated bool   // true once the pending append has been terminated
}

func newScratch(buf []byte) *scratch {
	return &scratch{buf: buf, stackHead: packedOffsetNone, terminated: true}
}

// reset rewinds the scratch region to empty without discarding the
// backing slice, for reuse between documents.
func (s *scratch) reset() {
	s.free = 0
	s.stackHead = packedOffsetNone
	s.terminated = true
}

// realloc replaces the backing slice with buf, which must be at least as
// large as the live region, and copies that region over. Offsets already
// handed out by appendCodePoint/pushFrame remain valid against the new
// slice without adjustment.
func (s *scratch) realloc(buf []byte) {
	copy(buf, s.buf[:s.free])
	s.buf = buf
}

// remaining reports how many free bytes are left past the high-water mark.
func (s *scratch) remaining() int {
	return len(s.buf) - int(s.free)
}

// appendCodePoint writes c's encoded bytes at the current free offset and
// advances it, returning the offset the bytes were written at. It
// reports ok=false (CodeInsufficientMemory territory) rather than
// writing past the end of buf.
func (s *scratch) appendCodePoint(c codePoint) (offset uint32, ok bool) {
	if int(c.Bytes) > s.remaining() {
		return 0, false
	}
	offset = s.free
	copy(s.buf[s.free:], c.Encoded[:c.Bytes])
	s.free += uint32(c.Bytes)
	s.terminated = false
	return offset, true
}

// appendRaw writes raw bytes (already encoded) at the free offset, for
// callers that aren't appending a single code point. It leaves the
// terminated state as it was.
func (s *scratch) appendRaw(b []byte) (offset uint32, ok bool) {
	if len(b) > s.remaining() {
		return 0, false
	}
	offset = s.free
	copy(s.buf[s.free:], b)
	s.free += uint32(len(b))
	return offset, true
}

// appendTerminator writes a null terminator sized for enc at the current
// free offset, unless one has already been written since the last
// appendCodePoint - mirroring hoxml_append_terminator's
// idempotence, which lets post_state_cleanup call it unconditionally.
func (s *scratch) appendTerminator(enc Encoding) bool {
	if s.terminated {
		return true
	}
	n := terminatorSize(enc)
	if n > s.remaining() {
		return false
	}
	for i := 0; i < n; i++ {
		s.buf[s.free] = 0
		s.free++
	}
	s.terminated = true
	return true
}

// bytes returns a view of the live region starting at offset, clipped to
// the current high-water mark. The caller must not retain it across a
// call that may append or realloc.
func (s *scratch) bytes(offset uint32) []byte {
	if offset > s.free {
		return nil
	}
	return s.buf[offset:s.free]
}

// pushFrame reserves a frame header at the current free offset, links it
// to the current stack head as its parent, writes flags, and makes it
// the new stack head. Returns the offset of the new frame.
func (s *scratch) pushFrame(flags frameFlag) (offset uint32, ok bool) {
	if frameHeaderSize > s.remaining() {
		return 0, false
	}
	offset = s.free
	putFrameHeader(s.buf[s.free:s.free+frameHeaderSize], s.stackHead, flags)
	s.free += frameHeaderSize
	s.stackHead = offset
	s.terminated = true
	return offset, true
}

// popFrame discards the top frame and makes its parent the new stack
// head. It does not reclaim the freed bytes - hoxml doesn't either,
// relying on the document's nesting depth bounding total frame churn
// within one Realloc-sized buffer, and a sibling's frame header always
// exceeding the previous one in offset, never overlapping it.
func (s *scratch) popFrame() {
	if s.stackHead == packedOffsetNone {
		return
	}
	parent, _ := frameHeader(s.buf[s.stackHead : s.stackHead+frameHeaderSize])
	s.stackHead = parent
}

// topFrame reports the current stack head's flags, or ok=false if the
// stack is empty.
func (s *scratch) topFrame() (offset uint32, flags frameFlag, ok bool) {
	if s.stackHead == packedOffsetNone {
		return 0, 0, false
	}
	_, flags = frameHeader(s.buf[s.stackHead : s.stackHead+frameHeaderSize])
	return s.stackHead, flags, true
}

// setTopFlags overwrites the current stack head's flag byte in place.
func (s *scratch) setTopFlags(flags frameFlag) {
	if s.stackHead == packedOffsetNone {
		return
	}
	s.buf[s.stackHead+4] = byte(flags)
}

// frameName returns the name bytes stored immediately after a frame's
// header, up to the current free offset (callers that need an exact
// length track it separately; this is used for tag-mismatch comparison
// where the stored name always runs to a terminator).
func (s *scratch) frameName(offset uint32, enc Encoding) []byte {
	start := offset + frameHeaderSize
	n := codePointLength(s.bytes(start), enc)
	return s.buf[start : start+uint32(n)]
}
