// Package roster loads the team roster from a YAML file.
package roster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// Ensure File implements domain.RosterProvider.
var _ domain.RosterProvider = (*File)(nil)

// File reads the roster from a YAML file once and caches it.
type File struct {
	cached *domain.Roster
	path   string
	mu     sync.Mutex
}

// NewFile returns a provider for the roster at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load returns the roster. Returns domain.ErrRosterNotFound if the file is missing.
func (f *File) Load(_ context.Context) (*domain.Roster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cached != nil {
		return f.cached, nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRosterNotFound, f.path)
		}
		return nil, fmt.Errorf("read roster: %w", err)
	}

	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", f.path, err)
	}
	f.cached = r
	return r, nil
}

// Parse decodes roster YAML. Blank names and room entries are dropped.
func Parse(data []byte) (*domain.Roster, error) {
	var raw domain.Roster
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	r := &domain.Roster{}
	for _, m := range raw.Members {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			continue
		}
		r.Members = append(r.Members, domain.Member{
			Name:       name,
			ChatworkID: strings.TrimSpace(m.ChatworkID),
		})
	}
	for _, room := range raw.ExcludedRooms {
		if room = strings.TrimSpace(room); room != "" {
			r.ExcludedRooms = append(r.ExcludedRooms, room)
		}
	}
	return r, nil
}

// Static serves a fixed roster.
type Static struct {
	Roster *domain.Roster
}

// Load returns the fixed roster.
func (s Static) Load(_ context.Context) (*domain.Roster, error) {
	if s.Roster == nil {
		return &domain.Roster{}, nil
	}
	return s.Roster, nil
}
