package repository

import (
	"context"

	"vendora/internal/domain/user"
	"vendora/internal/infra"
	"vendora/internal/infra/db"

	"github.com/google/uuid"
)

type UserRepository struct {
	pool db.DBTX
}

func NewUserRepository(pool db.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

const findUserByEmailSQL = `
SELECT id, email, password_hash, role, is_active
FROM users
WHERE email = $1`

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var (
		id           uuid.UUID
		storedEmail  string
		passwordHash string
		roleStr      string
		isActive     bool
	)

	row := r.pool.QueryRow(ctx, findUserByEmailSQL, email)
	if err := row.Scan(&id, &storedEmail, &passwordHash, &roleStr, &isActive); err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by email", err)
	}

	role, ok := user.ParseRole(roleStr)
	if !ok {
		return nil, infra.WrapRepoErr("unknown role in users table: "+roleStr, nil)
	}

	return user.ReconstructUser(id, storedEmail, passwordHash, role, isActive), nil
}
