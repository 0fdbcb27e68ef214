package ptrie

// MmapOpts configures an MmapTrie. The zero value selects
// TrailerRootFinder, the layout EncodeTrie produces.
type MmapOpts struct {
	// RootFinder locates the root offset within the mapped bytes.
	// Defaults to TrailerRootFinder when nil.
	RootFinder RootFinder
}

// MmapTrie is the read-only counterpart to BuildTrie: it serves
// Fold/FoldFull/Foreach directly against a memory-mapped file, never
// materialising a node. It exposes no mutation methods, matching
// spec.md's read-only contract for the flat side.
type MmapTrie[P Emptier] struct {
	mapping *MMap
	region  *FlatRegion
	root    flatNode
	codec   PayloadCodec[P]
}

// OpenMmapTrie maps path read-only, locates its root via opts'
// RootFinder (TrailerRootFinder by default), and returns a trie ready
// for lookups. The returned trie must be closed with Close to release
// the mapping.
func OpenMmapTrie[P Emptier](path string, width OffsetWidth, codec PayloadCodec[P], opts MmapOpts) (*MmapTrie[P], error) {
	finder := opts.RootFinder
	if finder == nil {
		finder = TrailerRootFinder
	}

	mapping, err := MapFile(path)
	if err != nil {
		return nil, err
	}

	region, err := NewFlatRegion(mapping.Bytes(), width)
	if err != nil {
		_ = mapping.Close()
		return nil, err
	}

	rootOffset, err := finder(mapping.Bytes(), width)
	if err != nil {
		_ = mapping.Close()
		return nil, err
	}

	return &MmapTrie[P]{
		mapping: mapping,
		region:  region,
		root:    flatNode{region: region, offset: rootOffset},
		codec:   codec,
	}, nil
}

// Close unmaps the underlying file. The trie must not be used
// afterwards.
func (t *MmapTrie[P]) Close() error {
	return t.mapping.Close()
}

// Fold is BuildTrie.Fold's flat-side twin: same contract, but any
// corrupt-store condition encountered while walking is returned as an
// error instead of being indistinguishable from "edge absent".
func (t *MmapTrie[P]) Fold(key []byte, acc any, f FoldFunc[P, any]) (any, error) {
	return foldFlat(t.root, key, t.codec, acc, f)
}

// FoldFull is BuildTrie.FoldFull's flat-side twin.
func (t *MmapTrie[P]) FoldFull(key []byte, acc any, f FoldFunc[P, any]) (any, error) {
	return foldFullFlat(t.root, key, t.codec, acc, f)
}

// Foreach is BuildTrie.Foreach's flat-side twin.
func (t *MmapTrie[P]) Foreach(dir Direction, f ForeachFunc[P]) error {
	_, err := foreachFlat(t.root, t.codec, dir, nil, f)
	return err
}
