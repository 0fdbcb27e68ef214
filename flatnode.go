package ptrie

import "encoding/binary"

// flatNode is not data, it is a view: a (region, offset) pair whose
// payload and children are parsed lazily, straight out of the mapped
// bytes, every time they are accessed. Nothing about a flatNode is ever
// cached, which is what lets MmapTrie serve lookups without copying or
// deserialising a node (spec.md §1).
type flatNode struct {
	region *FlatRegion
	offset uint64
}

// header reads this node's payload_off pointer-value and returns the
// mask offset that immediately follows it — the start of this node's
// ChildMap. payload_off is offsetNull(width) when the node has no
// payload.
func (n flatNode) header() (payloadOff uint64, maskOffset uint64, err error) {
	payloadOff, err = n.region.readOffset(n.offset)
	if err != nil {
		return 0, 0, err
	}
	return payloadOff, n.offset + uint64(n.region.width), nil
}

// children parses this node's ChildMap header (cheap: one mask-byte
// slice plus a popcount).
func (n flatNode) children() (flatChildMap, error) {
	_, maskOffset, err := n.header()
	if err != nil {
		return flatChildMap{}, err
	}
	return newFlatChildMap(n.region, maskOffset)
}

// flatPayload decodes this node's payload via codec, returning the zero
// value and present=false if the node has no payload recorded. The
// payload is not stored inline: payload_off points at a length-prefixed
// (uint32 LE) blob written elsewhere in the file by Encoder.writeBlob.
func flatPayload[P Emptier](n flatNode, codec PayloadCodec[P]) (p P, present bool, err error) {
	payloadOff, _, err := n.header()
	if err != nil {
		return p, false, err
	}
	if n.region.isNull(payloadOff) {
		return p, false, nil
	}

	lenBuf, err := n.region.slice(payloadOff, 4)
	if err != nil {
		return p, false, err
	}
	length := binary.LittleEndian.Uint32(lenBuf)

	data, err := n.region.slice(payloadOff+4, int(length))
	if err != nil {
		return p, false, err
	}

	p, err = codec.Decode(data)
	if err != nil {
		return p, false, ioError("decode payload", err)
	}
	return p, true, nil
}

// foldFlat is fold's flat-side twin: it walks only existing edges,
// reading each visited node's payload through codec, and stops on the
// first missing edge, a functor returning false, or a corrupt-store
// error.
func foldFlat[P Emptier, A any](root flatNode, key []byte, codec PayloadCodec[P], acc A, f FoldFunc[P, A]) (A, error) {
	node := root
	for i, sym := range key {
		cm, err := node.children()
		if err != nil {
			return acc, err
		}
		childOffset, ok, err := cm.get(sym)
		if err != nil {
			return acc, err
		}
		if !ok {
			return acc, nil
		}
		node = flatNode{region: node.region, offset: childOffset}

		payload, present, err := flatPayload(node, codec)
		if err != nil {
			return acc, err
		}
		if !present {
			var zero P
			payload = zero
		}

		var cont bool
		acc, cont = f(acc, payload, i+1, i == len(key)-1)
		if !cont {
			return acc, nil
		}
	}
	return acc, nil
}

// foldFullFlat is foldFull's flat-side twin.
func foldFullFlat[P Emptier, A any](root flatNode, key []byte, codec PayloadCodec[P], acc A, f FoldFunc[P, A]) (A, error) {
	node := root
	for i, sym := range key {
		cm, err := node.children()
		if err != nil {
			return acc, err
		}
		childOffset, ok, err := cm.get(sym)
		if err != nil {
			return acc, err
		}
		if !ok {
			var zero P
			acc, _ = f(acc, zero, i+1, true)
			return acc, nil
		}
		node = flatNode{region: node.region, offset: childOffset}

		payload, present, err := flatPayload(node, codec)
		if err != nil {
			return acc, err
		}
		if !present {
			var zero P
			payload = zero
		}

		var cont bool
		acc, cont = f(acc, payload, i+1, i == len(key)-1)
		if !cont {
			return acc, nil
		}
	}
	return acc, nil
}

// foreachFlat is foreachNode's flat-side twin: same pre-/post-order and
// ascending-sibling-order contract, propagating the first error
// encountered instead of panicking.
func foreachFlat[P Emptier](node flatNode, codec PayloadCodec[P], dir Direction, prefix []byte, f ForeachFunc[P]) (bool, error) {
	payload, present, err := flatPayload(node, codec)
	if err != nil {
		return false, err
	}
	if !present {
		var zero P
		payload = zero
	}

	if dir == Down {
		if !f(prefix, payload) {
			return false, nil
		}
	}

	cm, err := node.children()
	if err != nil {
		return false, err
	}

	cont := true
	walkErr := cm.foreach(func(sym Symbol, childOffset uint64) (bool, error) {
		child := flatNode{region: node.region, offset: childOffset}
		c, err := foreachFlat(child, codec, dir, append(prefix, sym), f)
		if err != nil {
			return false, err
		}
		cont = c
		return cont, nil
	})
	if walkErr != nil {
		return false, walkErr
	}
	if !cont {
		return false, nil
	}

	if dir == Up {
		if !f(prefix, payload) {
			return false, nil
		}
	}
	return true, nil
}
