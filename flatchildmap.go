package ptrie

// flatChildMap is the read-only ChildMap view over a FlatRegion: it
// holds no materialised state of its own, only the byte offsets of the
// mask and the offset array within region, both computed once by
// flatNode when it parses a node's header.
type flatChildMap struct {
	region      *FlatRegion
	maskOffset  uint64
	arrayOffset uint64
	count       int
}

// newFlatChildMap reads the mask bytes at maskOffset, counts its set
// bits, and returns a view ready for get/foreach — no offsets are read
// eagerly, matching spec.md's "never copy or deserialise a node".
func newFlatChildMap(region *FlatRegion, maskOffset uint64) (flatChildMap, error) {
	maskBytes, err := region.slice(maskOffset, maskWidthBytes)
	if err != nil {
		return flatChildMap{}, err
	}
	return flatChildMap{
		region:      region,
		maskOffset:  maskOffset,
		arrayOffset: maskOffset + maskWidthBytes,
		count:       popcountMask(maskBytes),
	}, nil
}

// get returns the child offset for sym, if present.
func (c flatChildMap) get(sym Symbol) (uint64, bool, error) {
	maskBytes, err := c.region.slice(c.maskOffset, maskWidthBytes)
	if err != nil {
		return 0, false, err
	}
	if !testFromMask(maskBytes, sym) {
		return 0, false, nil
	}
	rank := rankFromMask(maskBytes, sym)
	off, err := c.region.readOffset(c.arrayOffset + uint64(rank)*uint64(c.region.width))
	if err != nil {
		return 0, false, err
	}
	return off, true, nil
}

// foreach visits every present (symbol, child-offset) pair in ascending
// symbol order. Returning false from f stops iteration and foreach
// returns nil; an error from f or from reading a child offset stops
// iteration and is returned.
func (c flatChildMap) foreach(f func(sym Symbol, childOffset uint64) (bool, error)) error {
	maskBytes, err := c.region.slice(c.maskOffset, maskWidthBytes)
	if err != nil {
		return err
	}
	mask := unmarshalBitset(maskBytes)
	rank := 0
	for _, sym := range mask.symbols() {
		off, err := c.region.readOffset(c.arrayOffset + uint64(rank)*uint64(c.region.width))
		if err != nil {
			return err
		}
		cont, err := f(sym, off)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		rank++
	}
	return nil
}
