// Package repo glues the object store, change-set engine, branch
// history engine, shelving area, cache scavenger, and tag store into
// the operations cmd/lit exposes.
package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/sthobeck/lit/config"
	"github.com/sthobeck/lit/internal/lineio"
	"github.com/sthobeck/lit/internal/objstore"
	"github.com/sthobeck/lit/internal/shelf"
)

// Repository binds a working directory's .lit/ store to the
// configuration and logger every operation needs.
type Repository struct {
	Root   string
	Store  *objstore.Store
	Config *config.Config
	Log    *logrus.Logger
}

// Init creates a brand-new repository at root: the .lit/ tree, a
// default config, an "origin" branch, its shelving area, and the
// repository index pointing at it.
func Init(root string, cfg *config.Config, log *logrus.Logger) (*Repository, error) {
	s := objstore.New(root)
	if _, err := os.Stat(s.LitDir()); err == nil {
		return nil, fmt.Errorf("repo: init: %q already exists", s.LitDir())
	}
	if cfg == nil {
		cfg = config.Default()
	}
	lineio.MaxLineBytes = cfg.LineMaxBytes

	if err := os.MkdirAll(s.LitDir(), 0755); err != nil {
		return nil, fmt.Errorf("repo: init: create .lit: %w", err)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.ConfigPath(), data, 0644); err != nil {
		return nil, fmt.Errorf("repo: init: write config: %w", err)
	}

	origin := objstore.NewBranch(cfg.OriginBranch)
	if err := s.WriteBranch(origin); err != nil {
		return nil, fmt.Errorf("repo: init: write origin branch: %w", err)
	}
	if err := shelf.Init(s, origin.Name); err != nil {
		return nil, err
	}

	idx := &objstore.Index{Active: 0, Branches: []string{origin.Name}, ReadOnly: false}
	if err := s.WriteIndex(idx); err != nil {
		return nil, fmt.Errorf("repo: init: write index: %w", err)
	}

	log.Infof("initialised repository at %s with branch %q", filepath.Clean(root), origin.Name)
	return &Repository{Root: root, Store: s, Config: cfg, Log: log}, nil
}

// Open loads an existing repository at root, failing if .lit/index is
// missing.
func Open(root string, log *logrus.Logger) (*Repository, error) {
	s := objstore.New(root)
	if _, err := os.Stat(s.IndexPath()); err != nil {
		return nil, fmt.Errorf("repo: open: .lit/index missing: %w", err)
	}
	cfg, err := config.LoadConfigFile(s.ConfigPath())
	if err != nil {
		log.Warnf("repo: open: failed to load config, using defaults: %v", err)
		cfg = config.Default()
	}
	lineio.MaxLineBytes = cfg.LineMaxBytes
	return &Repository{Root: root, Store: s, Config: cfg, Log: log}, nil
}

// ActiveBranch loads the repository index and the branch it names.
func (r *Repository) ActiveBranch() (*objstore.Index, *objstore.Branch, error) {
	idx, err := r.Store.ReadIndex()
	if err != nil {
		return nil, nil, err
	}
	name, err := idx.ActiveBranch()
	if err != nil {
		return nil, nil, err
	}
	b, err := r.Store.ReadBranch(name)
	if err != nil {
		return nil, nil, err
	}
	return idx, b, nil
}

// requireWritable rejects destructive operations while the repository
// is read-only (i.e. the active branch isn't checked out at its tip).
func (r *Repository) requireWritable(idx *objstore.Index) error {
	if idx.ReadOnly {
		return fmt.Errorf("repo: cannot modify repository while read-only; run checkout to the active branch's head first")
	}
	return nil
}
