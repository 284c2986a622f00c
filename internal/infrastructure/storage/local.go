package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	domainerrors "github.com/rafabene/revistete-backend/internal/domain/errors"
)

// tipos aceitos para fotos de publicações
var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// LocalStorage guarda uploads em disco, com nomes gerados
type LocalStorage struct {
	dir     string
	maxSize int64
}

// NewLocalStorage cria o diretório de upload se necessário
func NewLocalStorage(dir string, maxSize int64) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, maxSize: maxSize}, nil
}

// Dir retorna o diretório servido em /uploads
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Save valida tamanho e tipo (pelo conteúdo, não pela extensão) e grava
// o arquivo com um nome aleatório. Retorna o nome gerado.
func (s *LocalStorage) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", domainerrors.Internal(fmt.Errorf("read upload %q: %w", originalName, err))
	}
	if len(data) == 0 || int64(len(data)) > s.maxSize {
		return "", domainerrors.ErrInvalidUpload
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return "", domainerrors.ErrInvalidUpload
	}

	name := uuid.NewString() + mtype.Extension()
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", domainerrors.Internal(err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", domainerrors.Internal(err)
	}
	if err := f.Close(); err != nil {
		return "", domainerrors.Internal(err)
	}
	return name, nil
}

// Remove apaga um arquivo salvo. Nomes com separadores são recusados.
func (s *LocalStorage) Remove(_ context.Context, name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return domainerrors.ErrInvalidUpload
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return domainerrors.Internal(err)
	}
	return nil
}
