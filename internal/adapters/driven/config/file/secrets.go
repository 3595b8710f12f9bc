package file

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/pidash/internal/core/ports/driven"
	"github.com/custodia-labs/pidash/internal/logger"
)

// Ensure SecretStore implements the interface.
var _ driven.SecretStore = (*SecretStore)(nil)

// SecretStore resolves secrets from the process environment, then from
// .env files. Earlier files win.
type SecretStore struct {
	paths []string

	once   sync.Once
	values map[string]string
}

// NewSecretStore creates a secret store reading the given .env files.
// Missing files are skipped.
func NewSecretStore(paths ...string) *SecretStore {
	return &SecretStore{paths: paths}
}

// Lookup returns the secret for key and whether it was found.
// Empty values count as not found.
func (s *SecretStore) Lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v, true
	}
	s.once.Do(s.load)
	v, ok := s.values[key]
	return v, ok && v != ""
}

func (s *SecretStore) load() {
	s.values = make(map[string]string)
	for _, p := range s.paths {
		vals, err := godotenv.Read(p)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("reading %s: %v", p, err)
			}
			continue
		}
		for k, v := range vals {
			if _, seen := s.values[k]; !seen {
				s.values[k] = v
			}
		}
	}
}
