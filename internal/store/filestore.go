package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"constructora/internal/domain"

	"github.com/rs/zerolog/log"
)

// FileStore keeps the whole collection in memory and rewrites a single
// JSON file on every mutation. Last writer wins; there is no concurrent
// writer protection (single interactive operator).
type FileStore struct {
	path      string
	projects  map[string]*domain.Project
	recovered bool
}

// OpenFile loads the collection from path. A missing file is a clean empty
// collection; a corrupt or unreadable one is recovered as empty, with the
// incident logged and reported through Recovered.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path, projects: map[string]*domain.Project{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("project store unreadable, starting empty")
		s.recovered = true
		return s, nil
	}
	if err := json.Unmarshal(data, &s.projects); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("project store corrupt, starting empty")
		s.projects = map[string]*domain.Project{}
		s.recovered = true
	}
	return s, nil
}

// Recovered reports whether the last load discarded a corrupt or
// unreadable store, as opposed to loading cleanly with zero projects.
func (s *FileStore) Recovered() bool {
	return s.recovered
}

func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.projects, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write project store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace project store: %w", err)
	}
	return nil
}

func (s *FileStore) Put(_ context.Context, p *domain.Project) error {
	s.projects[p.ID] = p
	return s.flush()
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if _, ok := s.projects[id]; !ok {
		return nil
	}
	delete(s.projects, id)
	return s.flush()
}

func (s *FileStore) Get(_ context.Context, id string) (*domain.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *FileStore) List(_ context.Context) ([]*domain.Project, error) {
	out := make([]*domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	return out, nil
}
