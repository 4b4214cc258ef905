// Package project manages the registry of indexable projects and the
// current-project selection, on top of the key-value store.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/ziadkadry99/blockdex/internal/block"
	"github.com/ziadkadry99/blockdex/internal/store"
)

var (
	// ErrNotFound is returned when a project id or name resolves to
	// nothing.
	ErrNotFound = errors.New("project: not found")

	// ErrNoneSelected is returned when an operation needs the current
	// project but none is selected.
	ErrNoneSelected = errors.New("project: no project selected (run `blockdex projects switch` first)")
)

// Manager performs project lifecycle operations over the store.
type Manager struct {
	store store.Store
}

func NewManager(st store.Store) *Manager {
	return &Manager{store: st}
}

// Create registers a new project for the given filesystem root and
// returns it. The name defaults to the directory base name.
func (m *Manager) Create(path, name string) (*block.Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("project: resolve path: %w", err)
	}
	if name == "" {
		name = filepath.Base(abs)
	}

	projects, err := m.load()
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.Path == abs {
			return nil, fmt.Errorf("project: %s is already registered as %q", abs, p.Name)
		}
	}

	p := block.Project{
		ID:   uuid.NewString(),
		Path: abs,
		Name: name,
	}
	projects[p.ID] = p
	if err := m.store.Set(store.KeyProjects, projects); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all registered projects sorted by name.
func (m *Manager) List() ([]block.Project, error) {
	projects, err := m.load()
	if err != nil {
		return nil, err
	}
	out := make([]block.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns the project with the given id.
func (m *Manager) Get(id string) (*block.Project, error) {
	projects, err := m.load()
	if err != nil {
		return nil, err
	}
	p, ok := projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Resolve accepts a project id or name and returns the project.
func (m *Manager) Resolve(idOrName string) (*block.Project, error) {
	projects, err := m.load()
	if err != nil {
		return nil, err
	}
	if p, ok := projects[idOrName]; ok {
		return &p, nil
	}
	for _, p := range projects {
		if p.Name == idOrName {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// Current returns the currently selected project.
func (m *Manager) Current() (*block.Project, error) {
	var id string
	if err := m.store.Get(store.KeyCurrentProject, &id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoneSelected
		}
		return nil, err
	}
	if id == "" {
		return nil, ErrNoneSelected
	}
	return m.Get(id)
}

// Select makes the given project the current one.
func (m *Manager) Select(id string) error {
	if _, err := m.Get(id); err != nil {
		return err
	}
	return m.store.Set(store.KeyCurrentProject, id)
}

// Update overwrites a project's record, preserving its id. Used by the
// indexer to persist indexed/lastIndexed/hasSummaries after a run.
func (m *Manager) Update(p block.Project) error {
	projects, err := m.load()
	if err != nil {
		return err
	}
	if _, ok := projects[p.ID]; !ok {
		return ErrNotFound
	}
	projects[p.ID] = p
	return m.store.Set(store.KeyProjects, projects)
}

// Delete removes a project along with its block index and summaries,
// clearing the current selection if it pointed at the project.
func (m *Manager) Delete(id string) error {
	projects, err := m.load()
	if err != nil {
		return err
	}
	if _, ok := projects[id]; !ok {
		return ErrNotFound
	}
	delete(projects, id)
	if err := m.store.Set(store.KeyProjects, projects); err != nil {
		return err
	}

	var current string
	if err := m.store.Get(store.KeyCurrentProject, &current); err == nil && current == id {
		if err := m.store.Delete(store.KeyCurrentProject); err != nil {
			return err
		}
	}
	if err := m.store.Delete(store.BlockIndexKey(id)); err != nil {
		return err
	}
	return m.store.Delete(store.SummariesKey(id))
}

func (m *Manager) load() (map[string]block.Project, error) {
	projects := make(map[string]block.Project)
	if err := m.store.Get(store.KeyProjects, &projects); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if projects == nil {
		projects = make(map[string]block.Project)
	}
	return projects, nil
}
