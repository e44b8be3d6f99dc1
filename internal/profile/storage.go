package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	fileName      = "profiles.yaml"
	userConfigDir = ".config/slcli"
)

// Storage reads and writes profiles.yaml.
type Storage struct {
	mu  sync.RWMutex
	dir string
}

// NewStorage uses ~/.config/slcli.
func NewStorage() (*Storage, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine home directory: %w", err)
	}
	return &Storage{dir: filepath.Join(home, userConfigDir)}, nil
}

// NewStorageWithPath uses dir instead of the default directory.
func NewStorageWithPath(dir string) *Storage {
	return &Storage{dir: dir}
}

// Path returns the location of profiles.yaml.
func (s *Storage) Path() string {
	return filepath.Join(s.dir, fileName)
}

// Load parses profiles.yaml. A missing file yields an empty File.
func (s *Storage) Load() (*File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *Storage) load() (*File, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file %s: %w", s.Path(), err)
	}
	return &f, nil
}

// Save writes f, creating the directory when needed.
func (s *Storage) Save(f *File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(f)
}

func (s *Storage) save(f *File) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write profiles file: %w", err)
	}
	return nil
}

// update loads the file, applies fn and saves the result unless fn fails.
func (s *Storage) update(fn func(f *File) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		return err
	}
	return s.save(f)
}

// Current returns the selected profile, or nil when none is selected.
func (s *Storage) Current() (*Profile, error) {
	f, err := s.Load()
	if err != nil {
		return nil, err
	}
	if f.CurrentProfile == "" {
		return nil, nil
	}
	p := f.Get(f.CurrentProfile)
	if p == nil {
		return nil, &NotFoundError{Name: f.CurrentProfile}
	}
	return p, nil
}

// CurrentName returns the selected profile name, possibly empty.
func (s *Storage) CurrentName() (string, error) {
	f, err := s.Load()
	if err != nil {
		return "", err
	}
	return f.CurrentProfile, nil
}

// Use selects an existing profile.
func (s *Storage) Use(name string) error {
	return s.update(func(f *File) error {
		if !f.Has(name) {
			return &NotFoundError{Name: name}
		}
		f.CurrentProfile = name
		return nil
	})
}

// Add stores a new profile. The first profile added becomes current.
func (s *Storage) Add(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.update(func(f *File) error {
		if f.Has(p.Name) {
			return fmt.Errorf("profile %q already exists", p.Name)
		}
		f.Put(p)
		if f.CurrentProfile == "" {
			f.CurrentProfile = p.Name
		}
		return nil
	})
}

// Update replaces an existing profile.
func (s *Storage) Update(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.update(func(f *File) error {
		if !f.Has(p.Name) {
			return &NotFoundError{Name: p.Name}
		}
		f.Put(p)
		return nil
	})
}

// Delete removes a profile.
func (s *Storage) Delete(name string) error {
	return s.update(func(f *File) error {
		if !f.Remove(name) {
			return &NotFoundError{Name: name}
		}
		return nil
	})
}

// Rename changes a profile's name, keeping it current if it was.
func (s *Storage) Rename(oldName, newName string) error {
	if err := ValidateName(newName); err != nil {
		return err
	}
	return s.update(func(f *File) error {
		p := f.Get(oldName)
		if p == nil {
			return &NotFoundError{Name: oldName}
		}
		if oldName != newName && f.Has(newName) {
			return fmt.Errorf("profile %q already exists", newName)
		}
		p.Name = newName
		if f.CurrentProfile == oldName {
			f.CurrentProfile = newName
		}
		return nil
	})
}

// List returns every profile in file order.
func (s *Storage) List() ([]Profile, error) {
	f, err := s.Load()
	if err != nil {
		return nil, err
	}
	return f.Profiles, nil
}

// Get returns the named profile.
func (s *Storage) Get(name string) (*Profile, error) {
	f, err := s.Load()
	if err != nil {
		return nil, err
	}
	p := f.Get(name)
	if p == nil {
		return nil, &NotFoundError{Name: name}
	}
	return p, nil
}

// Names lists profile names for shell completion.
func (s *Storage) Names() ([]string, error) {
	f, err := s.Load()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(f.Profiles))
	for i, p := range f.Profiles {
		names[i] = p.Name
	}
	return names, nil
}
