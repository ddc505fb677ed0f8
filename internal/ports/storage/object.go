package storage

import (
	"context"
	"io"
)

// ObjectStorage guarda archivos subidos (imágenes de mascotas) y devuelve una URL pública.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}
