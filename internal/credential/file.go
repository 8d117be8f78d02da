package credential

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/go-faster/errors"
)

// File is a Provider backed by a single file holding the token. The file is
// written with 0600 permissions; surrounding whitespace is ignored on read.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a File provider storing the token at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Token implements Provider.
func (f *File) Token(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", errors.Wrap(err, "read credential file")
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Store implements Provider.
func (f *File) Store(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return errors.Wrap(err, "write credential file")
	}
	return nil
}

// Delete implements Provider.
func (f *File) Delete(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove credential file")
	}
	return nil
}
