// Command ptriedump builds a ptrie from a newline-delimited key/value
// file and serialises it, or opens a previously serialised file and
// answers lookup queries against it — the idiomatic-Go analogue of
// strie_write_demo.cpp and strie_demo.cpp.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/dkrg/ptrie"
)

// bytesValue is the demo payload: an opaque byte blob, empty when
// zero-length.
type bytesValue []byte

func (b bytesValue) Empty() bool { return len(b) == 0 }

type bytesCodec struct{}

func (bytesCodec) Encode(p bytesValue) ([]byte, bool) {
	if p.Empty() {
		return nil, false
	}
	return p, true
}

func (bytesCodec) Decode(data []byte) (bytesValue, error) {
	out := make(bytesValue, len(data))
	copy(out, data)
	return out, nil
}

func main() {
	writeCmd := flag.NewFlagSet("write", flag.ExitOnError)
	writeIn := writeCmd.String("in", "", "input file, one \"key\\tvalue\" pair per line")
	writeOut := writeCmd.String("out", "", "output trie file")
	writeWidth := writeCmd.Int("w", 8, "offset width in bytes: 1, 2, 4, or 8")

	readCmd := flag.NewFlagSet("read", flag.ExitOnError)
	readFile := readCmd.String("file", "", "trie file to open")
	readWidth := readCmd.Int("w", 8, "offset width the file was written with: 1, 2, 4, or 8")
	readLookup := readCmd.String("lookup", "", "exact-match lookup key")
	readPrefix := readCmd.String("prefix", "", "longest non-empty-prefix lookup key")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: ptriedump write -in FILE -out FILE [-w WIDTH]")
		fmt.Fprintln(os.Stderr, "       ptriedump read -file FILE [-w WIDTH] [-lookup KEY | -prefix KEY]")
		os.Exit(2)
	}

	switch os.Args[1] {
	case "write":
		writeCmd.Parse(os.Args[2:])
		if err := runWrite(*writeIn, *writeOut, *writeWidth); err != nil {
			fmt.Fprintln(os.Stderr, "ptriedump:", err)
			os.Exit(1)
		}
	case "read":
		readCmd.Parse(os.Args[2:])
		if err := runRead(*readFile, *readWidth, *readLookup, *readPrefix); err != nil {
			fmt.Fprintln(os.Stderr, "ptriedump:", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "unknown subcommand:", os.Args[1])
		os.Exit(2)
	}
}

func runWrite(in, out string, width int) error {
	if in == "" || out == "" {
		return fmt.Errorf("both -in and -out are required")
	}

	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	trie := ptrie.NewBuildTrie[bytesValue](ptrie.BuildTrieOpts{})

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		parts := bytes.SplitN(line, []byte{'\t'}, 2)
		if len(parts) != 2 {
			return fmt.Errorf("malformed line, expected key\\tvalue: %q", line)
		}
		key := append([]byte(nil), parts[0]...)
		value := append(bytesValue(nil), parts[1]...)
		trie.Store(key, value)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	encoder, err := ptrie.NewEncoder[bytesValue](ptrie.OffsetWidth(width), bytesCodec{})
	if err != nil {
		return err
	}

	outFile, err := os.Create(out)
	if err != nil {
		return err
	}
	defer outFile.Close()

	return trie.StoreTrie(encoder, outFile)
}

func runRead(file string, width int, lookupKey, prefixKey string) error {
	if file == "" {
		return fmt.Errorf("-file is required")
	}
	if lookupKey == "" && prefixKey == "" {
		return fmt.Errorf("one of -lookup or -prefix is required")
	}

	trie, err := ptrie.OpenMmapTrie[bytesValue](file, ptrie.OffsetWidth(width), bytesCodec{}, ptrie.MmapOpts{})
	if err != nil {
		return err
	}
	defer trie.Close()

	if lookupKey != "" {
		value, found, err := exactLookup(trie, []byte(lookupKey))
		if err != nil {
			return err
		}
		if !found {
			fmt.Println("not found")
			return nil
		}
		fmt.Printf("%s\n", value)
		return nil
	}

	value, length, found, err := prefixLookup(trie, []byte(prefixKey))
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("not found")
		return nil
	}
	fmt.Printf("%s (matched %d bytes)\n", value, length)
	return nil
}

func exactLookup(trie *ptrie.MmapTrie[bytesValue], key []byte) (bytesValue, bool, error) {
	type result struct {
		value bytesValue
		pos   int
		found bool
	}
	acc, err := trie.Fold(key, result{}, func(acc any, p bytesValue, pos int, hasNext bool) (any, bool) {
		r := result{}
		if hasNext {
			r = result{value: p, pos: pos, found: !p.Empty()}
		}
		return r, true
	})
	if err != nil {
		return nil, false, err
	}
	r := acc.(result)
	if r.pos != len(key) {
		return nil, false, nil
	}
	return r.value, r.found, nil
}

func prefixLookup(trie *ptrie.MmapTrie[bytesValue], key []byte) (bytesValue, int, bool, error) {
	type result struct {
		value bytesValue
		pos   int
		found bool
	}
	acc, err := trie.Fold(key, result{}, func(acc any, p bytesValue, pos int, hasNext bool) (any, bool) {
		r := acc.(result)
		if !p.Empty() {
			r = result{value: p, pos: pos, found: true}
		}
		return r, true
	})
	if err != nil {
		return nil, 0, false, err
	}
	r := acc.(result)
	return r.value, r.pos, r.found, nil
}
