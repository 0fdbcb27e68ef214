//go:build !unix

package ptrie

import "os"

// MMap is the non-unix fallback: it reads the whole file into a heap
// buffer instead of mapping it, so MmapTrie still works, just without
// the zero-copy guarantee the name implies. Every ptrie target this
// module ships for is unix, so this file exists only so the package
// still builds elsewhere.
type MMap struct {
	data []byte
}

func MapFile(path string) (*MMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("read file", err)
	}
	if len(data) == 0 {
		return nil, badArgument("cannot map an empty file")
	}
	return &MMap{data: data}, nil
}

func (m *MMap) Bytes() []byte {
	return m.data
}

func (m *MMap) Close() error {
	m.data = nil
	return nil
}
