package ptrie

import (
	"golang.org/x/xerrors"
)

// ErrorKind distinguishes the failure categories spec.md §4.7/§7 requires.
// Callers should match with errors.Is against the sentinel values below
// rather than switching on ErrorKind directly, since every returned error
// is wrapped with xerrors.Errorf for additional context.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindOutOfMemory
	KindCorruptStore
	KindOffsetOverflow
	KindIOError
	KindBadArgument
)

func (k ErrorKind) String() string {
	switch k {
	case KindOutOfMemory:
		return "OutOfMemory"
	case KindCorruptStore:
		return "CorruptStore"
	case KindOffsetOverflow:
		return "OffsetOverflow"
	case KindIOError:
		return "IOError"
	case KindBadArgument:
		return "BadArgument"
	default:
		return "None"
	}
}

// Sentinel errors. Every error ptrie returns wraps exactly one of these,
// so callers can use errors.Is(err, ptrie.ErrCorruptStore) regardless of
// the context xerrors.Errorf attached along the way.
var (
	// ErrOutOfMemory is the sentinel for an allocation the store cannot
	// satisfy. The Allocator interface has no way to report such a
	// failure, so no operation in this package returns it. A new child is
	// linked into its parent only after it has been created (see
	// growableChildMap.ensure).
	ErrOutOfMemory = xerrors.New("ptrie: out of memory")

	// ErrCorruptStore is returned when a non-null pointer-value fails to
	// dereference, either a programmer error on the heap side or a
	// file-integrity error on the flat (mmap) side.
	ErrCorruptStore = xerrors.New("ptrie: corrupt store")

	// ErrOffsetOverflow is returned by the codec when the configured
	// offset width W is too narrow for the trie being serialised.
	ErrOffsetOverflow = xerrors.New("ptrie: offset overflow for configured width")

	// ErrIOError wraps underlying I/O failures from the codec or the
	// mmap reader.
	ErrIOError = xerrors.New("ptrie: io error")

	// ErrBadArgument is returned for caller mistakes that are not one of
	// the above, e.g. an invalid offset width or an empty file passed to
	// OpenMmapTrie.
	ErrBadArgument = xerrors.New("ptrie: bad argument")
)

// corruptStoreAt wraps ErrCorruptStore with the offending offset, as
// spec.md §7 requires ("must include the offending offset").
func corruptStoreAt(offset uint64, reason string) error {
	return xerrors.Errorf("ptrie: corrupt store at offset %d: %s: %w", offset, reason, ErrCorruptStore)
}

func outOfMemory(reason string) error {
	return xerrors.Errorf("ptrie: %s: %w", reason, ErrOutOfMemory)
}

func offsetOverflow(width OffsetWidth, offset uint64) error {
	return xerrors.Errorf("ptrie: offset %d exceeds range of width %d: %w", offset, width, ErrOffsetOverflow)
}

func badArgument(reason string) error {
	return xerrors.Errorf("ptrie: %s: %w", reason, ErrBadArgument)
}

func ioError(reason string, cause error) error {
	return xerrors.Errorf("ptrie: %s: %v: %w", reason, cause, ErrIOError)
}
