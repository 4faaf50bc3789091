package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"go.uber.org/zap"
)

// FileStore keeps the session in a single JSON document holding the token and
// the serialized profile as two named entries.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(_ context.Context) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("can't read session file: %w", err)
	}

	entries := map[string]string{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		zap.L().Warn("session file is corrupted, treating as empty", zap.String("path", f.path), zap.Error(err))
		return domain.Session{}, nil
	}
	return decodeEntries(entries[TokenKey], entries[UserKey])
}

func (f *FileStore) Save(_ context.Context, s domain.Session) error {
	s = Trusted(s)
	if !s.Authenticated() {
		return f.Clear(context.Background())
	}

	token, user, err := encodeEntries(s)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(map[string]string{TokenKey: token, UserKey: user})
	if err != nil {
		return fmt.Errorf("can't encode session file: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.replace(raw)
}

func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("can't remove session file: %w", err)
	}
	return nil
}

// replace writes a temp file next to the target and renames it over, so a
// concurrent reader sees either the old or the new session.
func (f *FileStore) replace(raw []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("can't create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("can't create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("can't write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("can't write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("can't replace session file: %w", err)
	}
	return nil
}
