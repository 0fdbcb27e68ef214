package ptrie

// buildNode is the heap-side Node: a payload slot plus a growable
// ChildMap, mirroring spec.md §3's "(Payload, ChildMap)". Its pointer-value
// is simply *buildNode[P] — Go's garbage-collected pointer already gives
// us the "opaque handle, nil is the null sentinel" contract spec.md asks
// of a heap store, so no separate handle table is introduced (see
// DESIGN.md, "templated store-rebind").
type buildNode[P Emptier] struct {
	payload  P
	children growableChildMap[P]
}

// heapStore is the build-side Store. Its only real job is byte
// accounting through an Allocator (spec.md §4.1's "dynamic = true"
// store); deref is pointer identity and allocate is a plain `new`, both
// of which Go already gives us for free.
type heapStore[P Emptier] struct {
	alloc Allocator
}

// nodeSize is the accounting unit charged to the Allocator per node. It
// doesn't need to be exact — it only has to be symmetric between alloc and
// free so the counting-allocator invariant (spec.md §8) holds.
const nodeSize = 64

func newHeapStore[P Emptier](alloc Allocator) *heapStore[P] {
	if alloc == nil {
		alloc = NewCountingAllocator()
	}
	return &heapStore[P]{alloc: alloc}
}

func (s *heapStore[P]) allocate() *buildNode[P] {
	s.alloc.Alloc(nodeSize)
	return &buildNode[P]{}
}

func (s *heapStore[P]) deallocate(*buildNode[P]) {
	s.alloc.Free(nodeSize)
}

// pathToNode walks key one symbol at a time, creating intermediate nodes
// through store.allocate as needed, and returns the terminal node.
// spec.md §4.3: "Empty key ⇒ this node."
func pathToNode[P Emptier](store *heapStore[P], root *buildNode[P], key []byte) *buildNode[P] {
	node := root
	for _, sym := range key {
		node = node.children.ensure(sym, func() *buildNode[P] {
			return store.allocate()
		})
	}
	return node
}

// storeValue overwrites the payload at key's terminal node.
func storeValue[P Emptier](store *heapStore[P], root *buildNode[P], key []byte, value P) {
	pathToNode(store, root, key).payload = value
}

// updateValue merges value into the payload at key's terminal node via the
// caller-supplied, ideally associative-commutative, merge operator.
func updateValue[P Emptier](store *heapStore[P], root *buildNode[P], key []byte, value P, merge func(existing, incoming P) P) {
	node := pathToNode(store, root, key)
	node.payload = merge(node.payload, value)
}

// FoldFunc is the functor threaded through fold/foldFull. acc is the
// caller's accumulator, payload is the node's current payload, pos is how
// many key symbols have been consumed so far, and hasNext reports whether
// this step consumed the final symbol of key. Returning false stops the
// walk immediately and that step's result is final (spec.md §4.6).
type FoldFunc[P Emptier, A any] func(acc A, payload P, pos int, hasNext bool) (A, bool)

// fold walks only existing edges — no allocation — calling f after each
// successful step. It stops when f returns false or no child exists for
// the next symbol.
func fold[P Emptier, A any](root *buildNode[P], key []byte, acc A, f FoldFunc[P, A]) A {
	node := root
	for i, sym := range key {
		child, ok := node.children.get(sym)
		if !ok {
			return acc
		}
		node = child

		var cont bool
		acc, cont = f(acc, node.payload, i+1, i == len(key)-1)
		if !cont {
			return acc
		}
	}
	return acc
}

// foldFull behaves like fold, except that once the in-trie walk runs out
// of edges short of key's end, f is invoked exactly once more with the
// zero-value ("null-child") payload and hasNext = true, letting the
// functor decide what to do with the unconsumed remainder of key
// (spec.md §4.3).
func foldFull[P Emptier, A any](root *buildNode[P], key []byte, acc A, f FoldFunc[P, A]) A {
	node := root
	for i, sym := range key {
		child, ok := node.children.get(sym)
		if !ok {
			var zero P
			acc, _ = f(acc, zero, i+1, true)
			return acc
		}
		node = child

		var cont bool
		acc, cont = f(acc, node.payload, i+1, i == len(key)-1)
		if !cont {
			return acc
		}
	}
	return acc
}

// ForeachFunc receives the accumulated key-so-far (owned by the caller;
// it must be copied if retained past the call) and the visited node's
// payload. Returning false stops the traversal immediately.
type ForeachFunc[P Emptier] func(keySoFar []byte, payload P) bool

// foreachNode implements both traversal directions of spec.md §4.3:
// down visits a parent before its children, up visits every child before
// its parent. Siblings are always visited in symbol-ascending order.
func foreachNode[P Emptier](node *buildNode[P], dir Direction, prefix []byte, f ForeachFunc[P]) bool {
	if dir == Down {
		if !f(prefix, node.payload) {
			return false
		}
	}

	cont := true
	node.children.foreach(func(sym Symbol, child *buildNode[P]) bool {
		cont = foreachNode(child, dir, append(prefix, sym), f)
		return cont
	})
	if !cont {
		return false
	}

	if dir == Up {
		if !f(prefix, node.payload) {
			return false
		}
	}
	return true
}

// clearNode deallocates every child before the node itself
// (post-order), as spec.md §4.3/§4.7 requires. It must run exactly once
// on a build trie's root before the trie's Allocator is discarded;
// re-invocation after clear is a programmer error the type system does
// not prevent, matching the source contract.
func clearNode[P Emptier](store *heapStore[P], node *buildNode[P]) {
	node.children.foreach(func(_ Symbol, child *buildNode[P]) bool {
		clearNode(store, child)
		return true
	})
	store.deallocate(node)
}
