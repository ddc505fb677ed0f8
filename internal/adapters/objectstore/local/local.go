// Package local guarda objetos en disco y los expone bajo /uploads/.
// Pensado para desarrollo y despliegues de una sola instancia.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"pet-adoption/internal/ports/storage"
)

// URLPrefix es la ruta pública que sirve el router.
const URLPrefix = "/uploads/"

var _ storage.ObjectStorage = (*Store)(nil)

type Store struct {
	root    string
	baseURL string
}

// New crea root si no existe. baseURL puede ir vacío (URLs relativas).
func New(root, baseURL string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("local storage: upload dir required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: create %s: %w", abs, err)
	}
	return &Store{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root es el directorio a servir en URLPrefix.
func (s *Store) Root() string { return s.root }

func (s *Store) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	// Escribir a un temporal y renombrar: nunca queda un archivo a medias.
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("local storage: write %s: %w", key, err)
	}
	if size > 0 && n != size {
		return "", fmt.Errorf("local storage: short write for %s (%d of %d bytes)", key, n, size)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}
	return s.URL(key), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	dst, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) URL(key string) string {
	return s.baseURL + URLPrefix + strings.TrimLeft(path.Clean("/"+key), "/")
}

// resolve rechaza keys que salgan de root ("../", absolutas, vacías).
func (s *Store) resolve(key string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(key))
	if clean == "/" {
		return "", errors.New("local storage: empty key")
	}
	dst := filepath.Join(s.root, filepath.FromSlash(clean))
	if !strings.HasPrefix(dst, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("local storage: invalid key %q", key)
	}
	return dst, nil
}
