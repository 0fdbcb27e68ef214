package ptrie

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// sumPayload is an Emptier payload whose merge (addition) is commutative
// and associative, unlike strPayload's concatenation, so it can carry a
// permutation-invariance property test.
type sumPayload int

func (s sumPayload) Empty() bool { return s == 0 }

func sumMerge(existing, incoming sumPayload) sumPayload { return existing + incoming }

func TestBuildTrieStoreAndFold(t *testing.T) {
	require := require.New(t)

	trie := NewBuildTrie[strPayload](BuildTrieOpts{})
	trie.Store([]byte("cat"), strPayload("meow"))
	trie.Store([]byte("car"), strPayload("vroom"))
	trie.Store([]byte("card"), strPayload("swipe"))

	value, length, found := LookupPrefix(trie, []byte("cards"))
	require.True(found)
	require.Equal(4, length)
	require.Equal(strPayload("swipe"), value)

	value, found = LookupExact(trie, []byte("car"))
	require.True(found)
	require.Equal(strPayload("vroom"), value)

	_, found = LookupExact(trie, []byte("ca"))
	require.False(found, "intermediate node with no payload must not match exactly")

	_, _, found = LookupPrefix(trie, []byte("dog"))
	require.False(found)
}

func TestBuildTrieUpdateMerges(t *testing.T) {
	require := require.New(t)

	trie := NewBuildTrie[strPayload](BuildTrieOpts{})
	concat := func(existing, incoming strPayload) strPayload { return existing + incoming }

	trie.Update([]byte("x"), strPayload("a"), concat)
	trie.Update([]byte("x"), strPayload("b"), concat)
	trie.Update([]byte("x"), strPayload("c"), concat)

	value, found := LookupExact(trie, []byte("x"))
	require.True(found)
	require.Equal(strPayload("abc"), value)
}

// TestBuildTrieUpdateIsAssociativeUnderPermutation stores the same set
// of (key, value) updates, for several keys, in many random call orders
// with a commutative/associative merge, and asserts the final value for
// every key is independent of the order the updates arrived in.
func TestBuildTrieUpdateIsAssociativeUnderPermutation(t *testing.T) {
	type update struct {
		key   string
		value sumPayload
	}

	updates := []update{
		{"alpha", 3}, {"alpha", 5}, {"alpha", 7},
		{"beta", 2}, {"beta", 11},
		{"alphabet", 13},
		{"beta", 17},
		{"alpha", 19},
	}

	want := map[string]sumPayload{}
	for _, u := range updates {
		want[u.key] += u.value
	}

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		perm := rng.Perm(len(updates))
		trie := NewBuildTrie[sumPayload](BuildTrieOpts{})
		for _, idx := range perm {
			u := updates[idx]
			trie.Update([]byte(u.key), u.value, sumMerge)
		}

		for key, wantValue := range want {
			value, found := LookupExact(trie, []byte(key))
			if !found {
				t.Fatalf("trial %d: key %q not found", trial, key)
			}
			if value != wantValue {
				t.Fatalf("trial %d: key %q = %d, want %d (order-dependent result)", trial, key, value, wantValue)
			}
		}
	}
}

func TestBuildTrieForeachDownVisitsParentFirst(t *testing.T) {
	trie := NewBuildTrie[strPayload](BuildTrieOpts{})
	trie.Store([]byte("a"), strPayload("A"))
	trie.Store([]byte("ab"), strPayload("AB"))

	var order []string
	trie.Foreach(Down, func(key []byte, payload strPayload) bool {
		if !payload.Empty() {
			order = append(order, string(key))
		}
		return true
	})

	if len(order) != 2 || order[0] != "a" || order[1] != "ab" {
		t.Fatalf("Down order = %v, want [a ab]", order)
	}
}

func TestBuildTrieForeachUpVisitsChildrenFirst(t *testing.T) {
	trie := NewBuildTrie[strPayload](BuildTrieOpts{})
	trie.Store([]byte("a"), strPayload("A"))
	trie.Store([]byte("ab"), strPayload("AB"))

	var order []string
	trie.Foreach(Up, func(key []byte, payload strPayload) bool {
		if !payload.Empty() {
			order = append(order, string(key))
		}
		return true
	})

	if len(order) != 2 || order[0] != "ab" || order[1] != "a" {
		t.Fatalf("Up order = %v, want [ab a]", order)
	}
}

func TestBuildTrieForeachStopsOnFalse(t *testing.T) {
	trie := NewBuildTrie[strPayload](BuildTrieOpts{})
	trie.Store([]byte("a"), strPayload("A"))
	trie.Store([]byte("b"), strPayload("B"))
	trie.Store([]byte("c"), strPayload("C"))

	visited := 0
	trie.Foreach(Down, func(key []byte, payload strPayload) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Fatalf("expected exactly one visit before stopping, got %d", visited)
	}
}

// TestBuildTrieClearReleasesEverything is spec.md §8's "Clear releases
// everything" scenario: after Clear, the Allocator's live-byte counter
// must return to the value it had before the trie was built.
func TestBuildTrieClearReleasesEverything(t *testing.T) {
	alloc := NewCountingAllocator()
	trie := NewBuildTrie[strPayload](BuildTrieOpts{Allocator: alloc})
	baseline := alloc.Live() // one live root node, before any Store call

	trie.Store([]byte("alpha"), strPayload("1"))
	trie.Store([]byte("alphabet"), strPayload("2"))
	trie.Store([]byte("beta"), strPayload("3"))

	if alloc.Live() == baseline {
		t.Fatalf("expected allocator to report nonzero live bytes after building")
	}

	trie.Clear()
	if alloc.Live() != baseline {
		t.Fatalf("Live() after Clear = %d, want %d (pre-build baseline)", alloc.Live(), baseline)
	}

	// the trie must still be usable after Clear.
	trie.Store([]byte("gamma"), strPayload("4"))
	value, found := LookupExact(trie, []byte("gamma"))
	if !found || value != "4" {
		t.Fatalf("trie unusable after Clear: value=%q found=%v", value, found)
	}
}

func TestFoldFullInvokesFunctorOnceMoreWithZeroPayload(t *testing.T) {
	trie := NewBuildTrie[strPayload](BuildTrieOpts{})
	trie.Store([]byte("go"), strPayload("gopher"))

	calls := 0
	var lastHasNext bool
	var lastPayload strPayload
	trie.FoldFull([]byte("gopher"), nil, func(acc any, payload strPayload, pos int, hasNext bool) (any, bool) {
		calls++
		lastHasNext = hasNext
		lastPayload = payload
		return acc, true
	})

	// "go" matches 2 symbols, then the walk runs dry for the remaining
	// 4 symbols of "gopher" and fold_full fires exactly once more.
	if calls != 3 {
		t.Fatalf("calls = %d, want 3 (2 matched edges + 1 synthetic null-child)", calls)
	}
	if !lastHasNext {
		t.Fatalf("final call should report hasNext=true for the synthetic null-child step")
	}
	if !lastPayload.Empty() {
		t.Fatalf("final call payload should be the zero value, got %q", lastPayload)
	}
}
