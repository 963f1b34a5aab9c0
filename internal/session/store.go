package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/minio/crc64nvme"
	"github.com/rs/zerolog/log"
)

// Storage keys. Only the Manager writes them.
const (
	KeyToken       = "token"
	KeyCurrentUser = "currentUser"
)

const (
	fileName    = "session.json"
	fileVersion = 1
)

// Sentinel errors
var (
	// ErrCorruptSession is returned when the session file fails its checksum or cannot be parsed.
	ErrCorruptSession = errors.New("session file is corrupt")
)

// storeFile is the on-disk layout of the session file.
type storeFile struct {
	Version  int               `json:"version"`
	Entries  map[string]string `json:"entries"`
	Checksum string            `json:"checksum"`
}

// Store is a small durable key-value store kept in a single JSON file.
// Writes replace the file atomically.
type Store struct {
	baseDir string
	mu      sync.Mutex
}

// NewStore creates a new session store.
// If baseDir is empty, uses ~/.storefront/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("session store initialized")

	return &Store{baseDir: baseDir}, nil
}

// DefaultDir returns ~/.storefront.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".storefront"), nil
}

// Path returns the session file location.
func (s *Store) Path() string {
	return filepath.Join(s.baseDir, fileName)
}

// Dir returns the directory holding the session file.
func (s *Store) Dir() string {
	return s.baseDir
}

// Load returns every stored entry. A missing file is an empty store.
func (s *Store) Load() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return nil, err
	}

	return f.Entries, nil
}

// SetAll writes every entry in one atomic replace of the file.
func (s *Store) SetAll(entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.readForWrite()
	if err != nil {
		return err
	}

	maps.Copy(f.Entries, entries)

	return s.write(f)
}

// Remove deletes keys. Removing absent keys is not an error.
func (s *Store) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.readForWrite()
	if err != nil {
		return err
	}

	changed := false
	for _, key := range keys {
		if _, ok := f.Entries[key]; ok {
			delete(f.Entries, key)
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return s.write(f)
}

func (s *Store) read() (*storeFile, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &storeFile{Version: fileVersion, Entries: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}

	if f.Entries == nil {
		f.Entries = map[string]string{}
	}

	sum, err := checksum(f.Entries)
	if err != nil {
		return nil, err
	}
	if sum != f.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptSession)
	}

	return &f, nil
}

// readForWrite starts from an empty store when the existing file is corrupt,
// so a fresh login or logout repairs it.
func (s *Store) readForWrite() (*storeFile, error) {
	f, err := s.read()
	if errors.Is(err, ErrCorruptSession) {
		log.Warn().Err(err).Str("path", s.Path()).Msg("discarding corrupt session file")
		return &storeFile{Version: fileVersion, Entries: map[string]string{}}, nil
	}
	return f, err
}

// write saves the file atomically.
func (s *Store) write(f *storeFile) error {
	sum, err := checksum(f.Entries)
	if err != nil {
		return err
	}
	f.Version = fileVersion
	f.Checksum = sum

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// each writer gets its own temp file, other processes may share the directory
	tmp, err := os.CreateTemp(s.baseDir, fileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tempPath := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := os.Rename(tempPath, s.Path()); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// checksum is the CRC-64/NVME of the entries in their canonical JSON form.
func checksum(entries map[string]string) (string, error) {
	// encoding/json sorts map keys, so the encoding is stable
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session entries: %w", err)
	}

	h := crc64nvme.New()
	_, _ = h.Write(data)

	return strconv.FormatUint(h.Sum64(), 16), nil
}
