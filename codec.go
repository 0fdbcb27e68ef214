package ptrie

import (
	"encoding/binary"
	"io"
)

// PayloadCodec converts a payload to and from its on-disk representation.
// Encode reports ok=false for an empty payload; the writer then writes no
// payload blob for that node and stores the null sentinel offsetNull(W)
// in its payload_off field.
type PayloadCodec[P Emptier] interface {
	Encode(p P) (data []byte, ok bool)
	Decode(data []byte) (P, error)
}

// Encoder writes a BuildTrie to a flat file using a fixed offset width
// and a caller-supplied PayloadCodec. Node layout (§6):
//
//	payload_off  pointer-value, width W (offsetNull(W) means "no payload")
//	mask[M]      256-bit child presence bitmap, M = maskWidthBytes
//	offsets[popcount(mask)]  child pointer-values, width W, symbol order
//
// A node's payload, when present, is not embedded in the node's own
// bytes; it is written as its own length-prefixed (uint32 LE) blob
// elsewhere in the file, content-addressed — two nodes whose Codec
// encodes them to identical bytes share one blob offset — and
// payload_off simply points at it, the same way a child offset points
// at a child node (spec.md §4.1's "content-addressed" framing). This is
// also what makes the null-sentinel-collision guard in writeRealOffset
// do real work for payloads, not just for children: a payload blob that
// happened to land at offsetNull(W) would be indistinguishable from "no
// payload" to a reader, so it's rejected as OffsetOverflow instead of
// silently corrupting a lookup.
//
// Node header fields are written 1-byte-packed with no alignment padding
// (see SPEC_FULL.md §4, "node header alignment"): encoding/binary already
// gives byte-exact control, and amd64/arm64 tolerate unaligned mmap
// loads, so there is nothing alignment padding would buy here.
type Encoder[P Emptier] struct {
	Width OffsetWidth
	Codec PayloadCodec[P]

	blobOffsets map[string]uint64
}

// NewEncoder constructs an Encoder, defaulting to Width8 when w is zero.
func NewEncoder[P Emptier](w OffsetWidth, codec PayloadCodec[P]) (*Encoder[P], error) {
	if w == 0 {
		w = Width8
	}
	if !w.Valid() {
		return nil, badArgument("offset width must be one of {1, 2, 4, 8}")
	}
	return &Encoder[P]{Width: w, Codec: codec, blobOffsets: make(map[string]uint64)}, nil
}

// EncodeTrie performs the single post-order depth-first write pass
// spec.md §4.5 describes: every child is fully written, and its absolute
// file offset recorded, before its parent is written. The file ends with
// a trailer holding the root's offset, which the default RootFinder
// (TrailerRootFinder) reads back at Open time.
func (e *Encoder[P]) EncodeTrie(t *BuildTrie[P], w io.Writer) error {
	cw := &countingWriter{w: w}

	if _, err := cw.Write([]byte{magicByte}); err != nil {
		return ioError("write magic byte", err)
	}

	rootOffset, err := e.writeNode(cw, t.root)
	if err != nil {
		return err
	}

	if err := e.writeRealOffset(cw, rootOffset); err != nil {
		return err
	}
	return nil
}

// writeNode recursively writes node's children, then node's payload
// blob (if any), then node's own header, and returns the header's
// absolute file offset.
func (e *Encoder[P]) writeNode(cw *countingWriter, node *buildNode[P]) (uint64, error) {
	childOffsets := make([]uint64, 0, node.children.len())
	var writeErr error
	node.children.foreach(func(_ Symbol, child *buildNode[P]) bool {
		off, err := e.writeNode(cw, child)
		if err != nil {
			writeErr = err
			return false
		}
		childOffsets = append(childOffsets, off)
		return true
	})
	if writeErr != nil {
		return 0, writeErr
	}

	present := false
	var payloadOffset uint64
	if data, ok := e.Codec.Encode(node.payload); ok {
		present = true
		key := string(data)
		if off, found := e.blobOffsets[key]; found {
			payloadOffset = off
		} else {
			off, err := e.writeBlob(cw, data)
			if err != nil {
				return 0, err
			}
			e.blobOffsets[key] = off
			payloadOffset = off
		}
	}

	selfOffset := cw.n

	if present {
		// a real payload offset that collides with the null sentinel
		// would be indistinguishable from "no payload" to a reader, so
		// writeRealOffset's overflow check guards this exactly as it
		// guards child offsets.
		if err := e.writeRealOffset(cw, payloadOffset); err != nil {
			return 0, err
		}
	} else if err := e.writeRawOffset(cw, offsetNull(e.Width)); err != nil {
		return 0, err
	}

	mask := node.children.mask
	if _, err := cw.Write(mask.marshal()); err != nil {
		return 0, ioError("write child mask", err)
	}
	for _, off := range childOffsets {
		if err := e.writeRealOffset(cw, off); err != nil {
			return 0, err
		}
	}

	return selfOffset, nil
}

// writeBlob writes data as a length-prefixed (uint32 LE) byte blob at
// the current position and returns that position.
func (e *Encoder[P]) writeBlob(cw *countingWriter, data []byte) (uint64, error) {
	off := cw.n
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := cw.Write(lenBuf[:]); err != nil {
		return 0, ioError("write payload length", err)
	}
	if _, err := cw.Write(data); err != nil {
		return 0, ioError("write payload", err)
	}
	return off, nil
}

// writeRealOffset writes off as a pointer-value after checking it
// doesn't collide with offsetNull(Width), the reserved "absent"
// sentinel: every real file offset must be strictly less than it.
func (e *Encoder[P]) writeRealOffset(cw *countingWriter, off uint64) error {
	max := offsetNull(e.Width)
	if off >= max {
		return offsetOverflow(e.Width, off)
	}
	return e.writeRawOffset(cw, off)
}

// writeRawOffset writes off as a pointer-value with no overflow check,
// used only for the offsetNull(Width) sentinel itself.
func (e *Encoder[P]) writeRawOffset(cw *countingWriter, off uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], off)
	if _, err := cw.Write(buf[:int(e.Width)]); err != nil {
		return ioError("write offset", err)
	}
	return nil
}

// countingWriter tracks the absolute byte offset written so far, since
// io.Writer gives us no way to ask a destination (which may not even be
// seekable) where we are.
type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}
