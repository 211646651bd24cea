package objstore

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sthobeck/lit/internal/hashutil"
	"github.com/sthobeck/lit/internal/lineio"
)

// timestampLayout is the wall-clock rendering used in commit headers,
// chosen for being both human-legible and lexically sortable.
const timestampLayout = "2006-01-02T15:04:05Z07:00"

// Commit is a named group of diffs applied (or appliable) together.
// Its identity is content-derived: the same message, timestamp, and
// ordered set of diff fingerprints always yields the same Sha1.
type Commit struct {
	Message   string
	Timestamp string
	RawTime   int64
	Sha1      hashutil.Sha1
	Changes   []*Diff
}

// NewCommit builds a commit from message and changes, stamping it with
// the current wall-clock time and deriving its content hash as
// sha1(message || rawtime || concat(diff.crc for diff in changes)).
func NewCommit(message string, changes []*Diff) (*Commit, error) {
	if strings.ContainsAny(message, "\n\r") {
		return nil, fmt.Errorf("objstore: commit message must not contain newlines")
	}
	now := time.Now()
	c := &Commit{
		Message:   message,
		Timestamp: now.Format(timestampLayout),
		RawTime:   now.Unix(),
		Changes:   changes,
	}
	c.Sha1 = c.computeSha1()
	return c, nil
}

func (c *Commit) computeSha1() hashutil.Sha1 {
	var buf bytes.Buffer
	buf.WriteString(c.Message)
	fmt.Fprintf(&buf, "%d", c.RawTime)
	for _, d := range c.Changes {
		fmt.Fprintf(&buf, "%d", uint32(d.Crc))
	}
	return hashutil.ComputeSha1(buf.Bytes())
}

// SerializeCommit renders a commit header followed by one CRC-32 line per
// change, in order:
//
//	message:<msg>
//	timestamp:<iso>
//	sha1:<hex>
//	count:<N>
//	rawtime:<seconds>
//
//	<crc_1>
//	<crc_2>
//	...
func SerializeCommit(c *Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "message:%s\n", c.Message)
	fmt.Fprintf(&buf, "timestamp:%s\n", c.Timestamp)
	fmt.Fprintf(&buf, "sha1:%s\n", c.Sha1.Hex())
	fmt.Fprintf(&buf, "count:%d\n", len(c.Changes))
	fmt.Fprintf(&buf, "rawtime:%d\n", c.RawTime)
	for _, d := range c.Changes {
		fmt.Fprintf(&buf, "%d\n", uint32(d.Crc))
	}
	return buf.Bytes()
}

// deserializeCommitHeader parses everything but the referenced diffs
// (which must be resolved against a Store by the caller).
func deserializeCommitHeader(data []byte) (*Commit, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	c := &Commit{}

	readField := func(prefix string) (string, error) {
		if !scanner.Scan() {
			return "", fmt.Errorf("objstore: truncated commit, expected %q line", prefix)
		}
		line := scanner.Text()
		if !strings.HasPrefix(line, prefix) {
			return "", fmt.Errorf("objstore: expected commit header %q, got %q", prefix, line)
		}
		return strings.TrimPrefix(line, prefix), nil
	}

	var err error
	c.Message, err = readField("message:")
	if err != nil {
		return nil, err
	}
	c.Timestamp, err = readField("timestamp:")
	if err != nil {
		return nil, err
	}
	sha1Str, err := readField("sha1:")
	if err != nil {
		return nil, err
	}
	c.Sha1, err = hashutil.Sha1FromHex(sha1Str)
	if err != nil {
		return nil, fmt.Errorf("objstore: invalid commit sha1: %w", err)
	}
	countStr, err := readField("count:")
	if err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return nil, fmt.Errorf("objstore: invalid commit count %q: %w", countStr, err)
	}
	rawtimeStr, err := readField("rawtime:")
	if err != nil {
		return nil, err
	}
	c.RawTime, err = strconv.ParseInt(rawtimeStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("objstore: invalid commit rawtime %q: %w", rawtimeStr, err)
	}

	crcs := make([]hashutil.Crc32, 0, count)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("objstore: invalid commit diff crc %q: %w", line, err)
		}
		crcs = append(crcs, hashutil.Crc32(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("objstore: read commit diff list: %w", err)
	}
	if len(crcs) != count {
		return nil, fmt.Errorf("objstore: commit declares count %d but lists %d diffs", count, len(crcs))
	}

	c.Changes = make([]*Diff, len(crcs))
	for i, crc := range crcs {
		c.Changes[i] = &Diff{Crc: crc}
	}
	return c, nil
}

func (s *Store) commitPath(sha1 hashutil.Sha1) string {
	hex := sha1.Hex()
	return filepath.Join(s.commitsDir(), hex[:2], hex[2:])
}

// CommitPath exposes the fan-out path of a commit for callers (e.g. the
// cache scavenger) that need to address commit files directly.
func (s *Store) CommitPath(sha1 hashutil.Sha1) string {
	return s.commitPath(sha1)
}

// WriteCommit persists every referenced diff and the commit header
// itself, each at its own content-addressed path.
func (s *Store) WriteCommit(c *Commit) error {
	for _, d := range c.Changes {
		if err := s.WriteDiff(d); err != nil {
			return err
		}
	}
	path := s.commitPath(c.Sha1)
	if err := os.MkdirAll(filepath.Dir(path), lineio.DirPerm); err != nil {
		return fmt.Errorf("objstore: create commit fanout dir: %w", err)
	}
	if err := os.WriteFile(path, SerializeCommit(c), 0644); err != nil {
		return fmt.Errorf("objstore: write commit %s: %w", path, err)
	}
	return nil
}

// ReadCommit loads the commit with the given hash and resolves every
// referenced diff against the store.
func (s *Store) ReadCommit(sha1 hashutil.Sha1) (*Commit, error) {
	path := s.commitPath(sha1)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("objstore: read commit %s: %w", path, err)
	}
	c, err := deserializeCommitHeader(data)
	if err != nil {
		return nil, fmt.Errorf("objstore: parse commit %s: %w", path, err)
	}
	c.Sha1 = sha1
	for i, stub := range c.Changes {
		full, err := s.ReadDiff(stub.Crc)
		if err != nil {
			return nil, fmt.Errorf("objstore: resolve diff for commit %s: %w", sha1.Hex(), err)
		}
		c.Changes[i] = full
	}
	return c, nil
}
