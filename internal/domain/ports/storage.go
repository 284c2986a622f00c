package ports

import (
	"context"
	"io"
)

// FileStorage guarda arquivos enviados e devolve o nome público gerado
type FileStorage interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
}
