package ptrie

import "encoding/binary"

// RootFinder locates the root node's offset within an already-mapped
// region, given the configured offset width. It exists so a reader can
// be pointed at file layouts other than the default trailer-at-end one
// (spec.md §4.5's "pluggable root-finder").
type RootFinder func(data []byte, width OffsetWidth) (uint64, error)

// TrailerRootFinder is the default layout EncodeTrie produces: the last
// width bytes of the file hold the root's absolute offset.
func TrailerRootFinder(data []byte, width OffsetWidth) (uint64, error) {
	w := int(width)
	if len(data) < w {
		return 0, corruptStoreAt(uint64(len(data)), "file too short for trailer")
	}
	var buf [8]byte
	copy(buf[:], data[len(data)-w:])
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// FirstByteRootFinder supports a root-first file layout: the root
// immediately follows the single magic byte at offset 0. It is provided
// as the worked example of a non-default RootFinder; EncodeTrie itself
// never produces this layout.
func FirstByteRootFinder(data []byte, width OffsetWidth) (uint64, error) {
	if len(data) < 1 {
		return 0, corruptStoreAt(0, "file too short for magic byte")
	}
	return 1, nil
}
