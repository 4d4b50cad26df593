package streamxml

import "encoding/binary"

// frameFlag records per-node-frame state that would otherwise need its
// own field: whether this frame's tag is a close tag, whether it's an
// empty element, a processing instruction, how it was quoted, whether
// its current string is terminated, and whether ElementBegin was already
// emitted for it. Bit flags keep the frame header's flag set to a
// single byte, mirroring hoxml's context->flags packing.
type frameFlag uint8

const (
	flagEndTag frameFlag = 1 << iota
	flagEmptyElement
	flagProcessingInstruction
	flagDoubleQuote
	flagTerminated
	flagBegun
)

// frameHeaderSize is the number of bytes a frame header occupies at the
// start of its region in the scratch buffer: a 4-byte back-pointer to
// the parent frame's offset (packedOffsetNone if there is no parent) and
// a 1-byte flag set. The frame's name bytes immediately follow.
const frameHeaderSize = 5

// packedOffsetNone is the back-pointer value used for a frame with no
// parent, i.e. the document root's own synthetic frame.
const packedOffsetNone uint32 = 0xFFFFFFFF

// putFrameHeader writes a frame header at the start of buf (which must be
// at least frameHeaderSize long).
func putFrameHeader(buf []byte, parent uint32, flags frameFlag) {
	binary.LittleEndian.PutUint32(buf[0:4], parent)
	buf[4] = byte(flags)
}

// frameHeader reads the header written by putFrameHeader back out of buf.
func frameHeader(buf []byte) (parent uint32, flags frameFlag) {
	return binary.LittleEndian.Uint32(buf[0:4]), frameFlag(buf[4])
}

func (f frameFlag) has(bit frameFlag) bool { return f&bit != 0 }

func (f *frameFlag) set(bit frameFlag)   { *f |= bit }
func (f *frameFlag) clear(bit frameFlag) { *f &^= bit }
