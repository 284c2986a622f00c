package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// repoBase concentra o acesso ao banco compartilhado pelos repositories:
// transação do contexto e timeout por chamada.
type repoBase struct {
	db      *gorm.DB
	timeout time.Duration
}

// getDB extrai DB do contexto (para suportar transações)
func (b repoBase) getDB(ctx context.Context) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return b.db
}

// run executa fn limitado pelo timeout de query. Um estouro do prazo é
// sempre reportado como context.DeadlineExceeded, qualquer que seja o
// erro devolvido pelo driver.
func (b repoBase) run(ctx context.Context, fn func(db *gorm.DB) error) error {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	err := fn(b.getDB(ctx).WithContext(ctx))
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}

// escapeLike escapa os curingas de LIKE usando '\' como caractere de escape
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
