package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type UserStore struct {
	db *sqlx.DB
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	query := `SELECT * FROM usuarios WHERE username = $1`

	if err := s.db.GetContext(ctx, &u, query, username); err != nil {
		return nil, wrap(err, "get user")
	}
	return &u, nil
}

func (s *UserStore) Create(ctx context.Context, u *User) error {
	query := `INSERT INTO usuarios (username, password_hash, role, nome)
	VALUES (:username, :password_hash, :role, :nome)
	RETURNING *`

	return wrapWrite(namedReturning(ctx, s.db, query, u, u), "insert user")
}
