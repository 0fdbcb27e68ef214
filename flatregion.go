package ptrie

import "encoding/binary"

// FlatRegion is the flat-side Store: a byte slice (backed by an mmap'd
// file or, in tests, a plain in-memory buffer) plus the offset width
// every pointer-value in it was written with. dynamic = false: Deref
// never allocates, it only slices.
type FlatRegion struct {
	data  []byte
	width OffsetWidth
}

// NewFlatRegion wraps data for reading. data is retained, not copied.
func NewFlatRegion(data []byte, width OffsetWidth) (*FlatRegion, error) {
	if !width.Valid() {
		return nil, badArgument("offset width must be one of {1, 2, 4, 8}")
	}
	return &FlatRegion{data: data, width: width}, nil
}

// slice returns data[off:off+n], converting an out-of-range request into
// ErrCorruptStore instead of panicking, mirroring the teacher's
// recover-to-error boundary in Node.go/Meta.go.
func (r *FlatRegion) slice(off uint64, n int) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = corruptStoreAt(off, "slice out of range")
		}
	}()
	if off > uint64(len(r.data)) || n < 0 || off+uint64(n) > uint64(len(r.data)) {
		return nil, corruptStoreAt(off, "slice out of range")
	}
	return r.data[off : off+uint64(n)], nil
}

// readOffset reads one pointer-value of the region's configured width at
// off, returning offsetNull(width) if the on-disk bytes are all set
// (the reserved "absent" sentinel).
func (r *FlatRegion) readOffset(off uint64) (uint64, error) {
	buf, err := r.slice(off, int(r.width))
	if err != nil {
		return 0, err
	}
	var full [8]byte
	copy(full[:], buf)
	return binary.LittleEndian.Uint64(full[:]), nil
}

// isNull reports whether value is the null sentinel for this region's
// offset width.
func (r *FlatRegion) isNull(value uint64) bool {
	return value == offsetNull(r.width)
}
