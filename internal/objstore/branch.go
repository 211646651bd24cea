package objstore

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sthobeck/lit/internal/hashutil"
	"github.com/sthobeck/lit/internal/lineio"
)

// Branch is an ordered, named list of commits. Its identity hash is
// derived purely from its name, so two branches can never collide
// regardless of history: sha1(name).
type Branch struct {
	Name    string
	Sha1    hashutil.Sha1
	Head    int
	Commits []*Commit
}

// NewBranch creates an empty branch named name, with Head at -1 (no
// commits yet).
func NewBranch(name string) *Branch {
	return &Branch{
		Name: name,
		Sha1: hashutil.ComputeSha1([]byte(name)),
		Head: -1,
	}
}

// SerializeBranch renders a branch header followed by one commit sha1
// per line, in order:
//
//	name:<name>
//	sha1:<hex>
//	idx:<head>
//	count:<N>
//
//	<commit_sha1_1>
//	<commit_sha1_2>
//	...
func SerializeBranch(b *Branch) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "name:%s\n", b.Name)
	fmt.Fprintf(&buf, "sha1:%s\n", b.Sha1.Hex())
	fmt.Fprintf(&buf, "idx:%d\n", b.Head)
	fmt.Fprintf(&buf, "count:%d\n", len(b.Commits))
	for _, c := range b.Commits {
		fmt.Fprintf(&buf, "%s\n", c.Sha1.Hex())
	}
	return buf.Bytes()
}

func deserializeBranchHeader(data []byte) (*Branch, []hashutil.Sha1, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	b := &Branch{}

	readField := func(prefix string) (string, error) {
		if !scanner.Scan() {
			return "", fmt.Errorf("objstore: truncated branch, expected %q line", prefix)
		}
		line := scanner.Text()
		if !strings.HasPrefix(line, prefix) {
			return "", fmt.Errorf("objstore: expected branch header %q, got %q", prefix, line)
		}
		return strings.TrimPrefix(line, prefix), nil
	}

	var err error
	b.Name, err = readField("name:")
	if err != nil {
		return nil, nil, err
	}
	sha1Str, err := readField("sha1:")
	if err != nil {
		return nil, nil, err
	}
	b.Sha1, err = hashutil.Sha1FromHex(sha1Str)
	if err != nil {
		return nil, nil, fmt.Errorf("objstore: invalid branch sha1: %w", err)
	}
	idxStr, err := readField("idx:")
	if err != nil {
		return nil, nil, err
	}
	b.Head, err = strconv.Atoi(idxStr)
	if err != nil {
		return nil, nil, fmt.Errorf("objstore: invalid branch idx %q: %w", idxStr, err)
	}
	countStr, err := readField("count:")
	if err != nil {
		return nil, nil, err
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return nil, nil, fmt.Errorf("objstore: invalid branch count %q: %w", countStr, err)
	}

	hashes := make([]hashutil.Sha1, 0, count)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		h, err := hashutil.Sha1FromHex(line)
		if err != nil {
			return nil, nil, fmt.Errorf("objstore: invalid commit sha1 in branch %q: %w", b.Name, err)
		}
		hashes = append(hashes, h)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("objstore: read branch commit list: %w", err)
	}
	if len(hashes) != count {
		return nil, nil, fmt.Errorf("objstore: branch %q declares count %d but lists %d commits", b.Name, count, len(hashes))
	}
	return b, hashes, nil
}

func (s *Store) branchPath(name string) string {
	return filepath.Join(s.headsDir(), name)
}

// BranchPath exposes a branch's ref path.
func (s *Store) BranchPath(name string) string {
	return s.branchPath(name)
}

// WriteBranch persists every referenced commit (and transitively every
// diff) and then the branch header itself.
func (s *Store) WriteBranch(b *Branch) error {
	for _, c := range b.Commits {
		if err := s.WriteCommit(c); err != nil {
			return err
		}
	}
	path := s.branchPath(b.Name)
	if err := os.MkdirAll(filepath.Dir(path), lineio.DirPerm); err != nil {
		return fmt.Errorf("objstore: create refs/heads dir: %w", err)
	}
	if err := os.WriteFile(path, SerializeBranch(b), 0644); err != nil {
		return fmt.Errorf("objstore: write branch %s: %w", path, err)
	}
	return nil
}

// ReadBranch loads the branch named name and resolves every referenced
// commit (and its diffs) against the store.
func (s *Store) ReadBranch(name string) (*Branch, error) {
	path := s.branchPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("objstore: read branch %s: %w", path, err)
	}
	b, hashes, err := deserializeBranchHeader(data)
	if err != nil {
		return nil, fmt.Errorf("objstore: parse branch %s: %w", path, err)
	}
	b.Commits = make([]*Commit, len(hashes))
	for i, h := range hashes {
		c, err := s.ReadCommit(h)
		if err != nil {
			return nil, fmt.Errorf("objstore: resolve commit for branch %q: %w", name, err)
		}
		b.Commits[i] = c
	}
	return b, nil
}

// DeleteBranch removes a branch's ref file. It does not touch the
// objects it references; reclaiming unreferenced diffs/commits is the
// cache scavenger's job.
func (s *Store) DeleteBranch(name string) error {
	if err := os.Remove(s.branchPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("objstore: delete branch %s: %w", name, err)
	}
	return nil
}

// ListBranches returns the names of every branch ref on disk.
func (s *Store) ListBranches() ([]string, error) {
	entries, err := os.ReadDir(s.headsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("objstore: list branches: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
