package objstore

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sthobeck/lit/internal/lineio"
)

// Index is the repository-wide pointer record: which branch is active,
// how many branches exist, and whether the working tree is currently
// read-only (true after a non-head checkout or rollback).
type Index struct {
	Active   int
	Branches []string
	ReadOnly bool
}

// SerializeIndex renders the repository index:
//
//	active:<branch_index>
//	count:<N>
//	readonly:<0|1>
//
//	0:<branch_name>
//	1:<branch_name>
//	...
func SerializeIndex(idx *Index) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "active:%d\n", idx.Active)
	fmt.Fprintf(&buf, "count:%d\n", len(idx.Branches))
	ro := 0
	if idx.ReadOnly {
		ro = 1
	}
	fmt.Fprintf(&buf, "readonly:%d\n", ro)
	for i, name := range idx.Branches {
		fmt.Fprintf(&buf, "%d:%s\n", i, name)
	}
	return buf.Bytes()
}

// DeserializeIndex parses the format SerializeIndex produces.
func DeserializeIndex(data []byte) (*Index, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	idx := &Index{}

	readField := func(prefix string) (string, error) {
		if !scanner.Scan() {
			return "", fmt.Errorf("objstore: truncated index, expected %q line", prefix)
		}
		line := scanner.Text()
		if !strings.HasPrefix(line, prefix) {
			return "", fmt.Errorf("objstore: expected index header %q, got %q", prefix, line)
		}
		return strings.TrimPrefix(line, prefix), nil
	}

	activeStr, err := readField("active:")
	if err != nil {
		return nil, err
	}
	idx.Active, err = strconv.Atoi(activeStr)
	if err != nil {
		return nil, fmt.Errorf("objstore: invalid index active %q: %w", activeStr, err)
	}
	countStr, err := readField("count:")
	if err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return nil, fmt.Errorf("objstore: invalid index count %q: %w", countStr, err)
	}
	readonlyStr, err := readField("readonly:")
	if err != nil {
		return nil, err
	}
	idx.ReadOnly = readonlyStr == "1"

	idx.Branches = make([]string, count)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("objstore: malformed index branch line %q", line)
		}
		pos, err := strconv.Atoi(parts[0])
		if err != nil || pos < 0 || pos >= count {
			return nil, fmt.Errorf("objstore: invalid index branch position %q", parts[0])
		}
		idx.Branches[pos] = parts[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("objstore: read index branch list: %w", err)
	}
	return idx, nil
}

// WriteIndex persists the repository index.
func (s *Store) WriteIndex(idx *Index) error {
	if err := os.MkdirAll(filepath.Dir(s.IndexPath()), lineio.DirPerm); err != nil {
		return fmt.Errorf("objstore: create lit dir: %w", err)
	}
	if err := os.WriteFile(s.IndexPath(), SerializeIndex(idx), 0644); err != nil {
		return fmt.Errorf("objstore: write index: %w", err)
	}
	return nil
}

// ReadIndex loads the repository index.
func (s *Store) ReadIndex() (*Index, error) {
	data, err := os.ReadFile(s.IndexPath())
	if err != nil {
		return nil, fmt.Errorf("objstore: read index: %w", err)
	}
	idx, err := DeserializeIndex(data)
	if err != nil {
		return nil, fmt.Errorf("objstore: parse index: %w", err)
	}
	return idx, nil
}

// ActiveBranch returns the name of the currently active branch.
func (idx *Index) ActiveBranch() (string, error) {
	if idx.Active < 0 || idx.Active >= len(idx.Branches) {
		return "", fmt.Errorf("objstore: index active position %d out of range (count %d)", idx.Active, len(idx.Branches))
	}
	return idx.Branches[idx.Active], nil
}
