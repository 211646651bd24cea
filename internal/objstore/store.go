package objstore

import "path/filepath"

// Store roots every on-disk path lit manages under a working directory.
// Passing Root explicitly (rather than assuming the process cwd) keeps
// every package in this module trivially testable against t.TempDir().
type Store struct {
	Root string
}

// New returns a Store rooted at root.
func New(root string) *Store {
	return &Store{Root: root}
}

func (s *Store) litDir() string {
	return filepath.Join(s.Root, ".lit")
}

func (s *Store) objectsDir() string {
	return filepath.Join(s.litDir(), "objects")
}

func (s *Store) commitsDir() string {
	return filepath.Join(s.objectsDir(), "commits")
}

func (s *Store) diffsDir() string {
	return filepath.Join(s.objectsDir(), "diffs")
}

// ShelvedDir returns the root of the branch-local shelving area for
// branch name.
func (s *Store) ShelvedDir(branch string) string {
	return filepath.Join(s.objectsDir(), "shelved", branch)
}

func (s *Store) refsDir() string {
	return filepath.Join(s.litDir(), "refs")
}

func (s *Store) headsDir() string {
	return filepath.Join(s.refsDir(), "heads")
}

func (s *Store) tagsDir() string {
	return filepath.Join(s.refsDir(), "tags")
}

// IndexPath returns the path of the repository index file.
func (s *Store) IndexPath() string {
	return filepath.Join(s.litDir(), "index")
}

// ConfigPath returns the path of the repository's YAML config file.
func (s *Store) ConfigPath() string {
	return filepath.Join(s.litDir(), "config")
}

// LitDir exposes the repository metadata root, e.g. for existence checks
// by the init operation.
func (s *Store) LitDir() string {
	return s.litDir()
}

// ObjectsDir exposes the object root for the cache scavenger.
func (s *Store) ObjectsDir() string {
	return s.objectsDir()
}

// CommitsDir exposes the commit fan-out root for the cache scavenger.
func (s *Store) CommitsDir() string {
	return s.commitsDir()
}

// DiffsDir exposes the diff fan-out root for the cache scavenger.
func (s *Store) DiffsDir() string {
	return s.diffsDir()
}

// HeadsDir exposes the branch refs root.
func (s *Store) HeadsDir() string {
	return s.headsDir()
}

// TagsDir exposes the tag refs root.
func (s *Store) TagsDir() string {
	return s.tagsDir()
}
