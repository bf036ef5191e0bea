// internal/secrets/store.go
package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name for keyring storage
	KeyringService = "boardid"
	// FallbackDir holds relay keys when no keyring is reachable (Codespaces, CI)
	FallbackDir = ".boardid/keys"

	manifestKey = "_manifest"
	probeKey    = "_test_keyring_access_"
)

// ErrNotFound is returned when no key is stored under a reference
var ErrNotFound = errors.New("relay key not found")

// Store keeps relay API keys in the OS keyring, or in 0600 files under dir
// when the keyring is unavailable
type Store struct {
	service string
	dir     string

	once    sync.Once
	useFile bool
	mu      sync.Mutex
}

// NewStore creates a store. An empty dir means ~/FallbackDir.
func NewStore(dir string) *Store {
	return &Store{service: KeyringService, dir: dir}
}

// NewFileStore creates a store that never touches the keyring
func NewFileStore(dir string) *Store {
	s := &Store{service: KeyringService, dir: dir, useFile: true}
	s.once.Do(func() {})
	return s
}

func (s *Store) fileBased() bool {
	s.once.Do(func() {
		if os.Getenv("CODESPACES") != "" || os.Getenv("CI") != "" {
			s.useFile = true
			return
		}
		if err := keyring.Set(s.service, probeKey, "test"); err != nil {
			s.useFile = true
			return
		}
		_ = keyring.Delete(s.service, probeKey)
	})
	return s.useFile
}

func (s *Store) keyDir() (string, error) {
	dir := s.dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, FallbackDir)
	}
	return dir, os.MkdirAll(dir, 0700)
}

func (s *Store) keyPath(ref string) (string, error) {
	dir, err := s.keyDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ref+".key"), nil
}

func checkRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("key reference cannot be empty")
	}
	if strings.ContainsAny(ref, `/\`) || ref == manifestKey || strings.HasPrefix(ref, ".") {
		return fmt.Errorf("invalid key reference %q", ref)
	}
	return nil
}

// Get returns the key stored under ref
func (s *Store) Get(ref string) (string, error) {
	if err := checkRef(ref); err != nil {
		return "", err
	}

	if s.fileBased() {
		path, err := s.keyPath(ref)
		if err != nil {
			return "", fmt.Errorf("failed to get key path: %w", err)
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		if err != nil {
			return "", fmt.Errorf("failed to load key file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	v, err := keyring.Get(s.service, ref)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load from keyring: %w", err)
	}
	return v, nil
}

// Set stores value under ref
func (s *Store) Set(ref, value string) error {
	if err := checkRef(ref); err != nil {
		return err
	}
	if value == "" {
		return fmt.Errorf("key value cannot be empty")
	}

	if s.fileBased() {
		path, err := s.keyPath(ref)
		if err != nil {
			return fmt.Errorf("failed to get key path: %w", err)
		}
		if err := os.WriteFile(path, []byte(value), 0600); err != nil {
			return fmt.Errorf("failed to save key file: %w", err)
		}
		return nil
	}

	if err := keyring.Set(s.service, ref, value); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	return s.updateManifest(ref, true)
}

// Delete removes ref. Deleting a missing key is not an error.
func (s *Store) Delete(ref string) error {
	if err := checkRef(ref); err != nil {
		return err
	}

	if s.fileBased() {
		path, err := s.keyPath(ref)
		if err != nil {
			return fmt.Errorf("failed to get key path: %w", err)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete key file: %w", err)
		}
		return nil
	}

	if err := keyring.Delete(s.service, ref); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return s.updateManifest(ref, false)
}

// List returns the stored references, sorted
func (s *Store) List() ([]string, error) {
	if s.fileBased() {
		dir, err := s.keyDir()
		if err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		var refs []string
		for _, entry := range entries {
			if !entry.IsDir() && filepath.Ext(entry.Name()) == ".key" {
				refs = append(refs, strings.TrimSuffix(entry.Name(), ".key"))
			}
		}
		sort.Strings(refs)
		return refs, nil
	}

	// the keyring cannot enumerate, so a manifest tracks the refs
	data, err := keyring.Get(s.service, manifestKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	var refs []string
	if err := json.Unmarshal([]byte(data), &refs); err != nil {
		return nil, fmt.Errorf("failed to deserialize manifest: %w", err)
	}
	sort.Strings(refs)
	return refs, nil
}

func (s *Store) updateManifest(ref string, add bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs, err := s.List()
	if err != nil {
		return err
	}

	kept := refs[:0]
	for _, r := range refs {
		if r != ref {
			kept = append(kept, r)
		}
	}
	if add {
		kept = append(kept, ref)
	}

	data, err := json.Marshal(kept)
	if err != nil {
		return err
	}
	return keyring.Set(s.service, manifestKey, string(data))
}
