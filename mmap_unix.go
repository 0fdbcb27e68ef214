//go:build unix

package ptrie

import (
	"os"

	"golang.org/x/sys/unix"
)

// MMap is a read-only memory mapping of a file, the primitive
// golang.org/x/sys is pulled into this module to provide — the
// teacher's own go.mod dependency, wired here directly against
// unix.Mmap/unix.Munmap since no higher-level wrapper in the corpus
// covers this platform call.
type MMap struct {
	data []byte
}

// MapFile opens path and maps its entire contents read-only.
func MapFile(path string) (*MMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError("open file for mapping", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, ioError("stat file for mapping", err)
	}
	size := info.Size()
	if size == 0 {
		return nil, badArgument("cannot map an empty file")
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, ioError("mmap", err)
	}
	return &MMap{data: data}, nil
}

// Bytes returns the mapped region. The slice is valid until Close.
func (m *MMap) Bytes() []byte {
	return m.data
}

// Close unmaps the region.
func (m *MMap) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	if err != nil {
		return ioError("munmap", err)
	}
	return nil
}
