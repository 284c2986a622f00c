package ports

import "time"

// PasswordHasher abstrai o hash de senhas (bcrypt em produção)
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenManager emite e verifica tokens de sessão assinados
type TokenManager interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
	// Verify devolve o ID do usuário contido no token. Qualquer falha
	// (assinatura, expiração, formato) retorna erro.
	Verify(token string) (string, error)
}
