package ports

import "context"

// UnitOfWork executa operações de vários repositories de forma atômica.
// Repositories chamados com o contexto recebido por fn participam da
// mesma transação; um erro de fn desfaz tudo.
type UnitOfWork interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
