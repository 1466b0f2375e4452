package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"appointment-booking-api/internal/model"
)

type refreshRow struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	TokenHash  string    `db:"token_hash"`
	ExpiresAt  time.Time `db:"expires_at"`
	Revoked    bool      `db:"revoked"`
	ReplacedBy *string   `db:"replaced_by"`
	CreatedAt  time.Time `db:"created_at"`
}

const insertRefresh = `INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at) VALUES ($1, $2, $3, $4)`

func (s *Store) CreateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (string, error) {
	id := uuid.NewString()
	if _, err := s.pool.Exec(ctx, insertRefresh, id, userID, tokenHash, expiresAt); err != nil {
		return "", fmt.Errorf("insert refresh token: %w", err)
	}
	return id, nil
}

func (s *Store) RefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	rows, _ := s.pool.Query(ctx, `
		SELECT id::text AS id, user_id::text AS user_id, token_hash, expires_at,
		       revoked, replaced_by::text AS replaced_by, created_at
		FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	r, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[refreshRow])
	if err != nil {
		return nil, notFound(err)
	}
	rt := model.RefreshToken(r)
	return &rt, nil
}

// RotateRefreshToken revokes oldID and stores its replacement atomically.
// A token that is already revoked yields ErrNotFound, so a replayed token
// cannot mint a second successor.
func (s *Store) RotateRefreshToken(ctx context.Context, oldID, userID, newHash string, newExpiry time.Time) (string, error) {
	newID := uuid.NewString()
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE refresh_tokens SET revoked = true, replaced_by = $1
			WHERE id = $2 AND user_id = $3 AND NOT revoked`,
			newID, oldID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		_, err = tx.Exec(ctx, insertRefresh, newID, userID, newHash, newExpiry)
		return err
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

// RevokeAllRefreshTokens is called on logout and on refresh-token reuse.
func (s *Store) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true WHERE user_id = $1 AND NOT revoked`, userID)
	return err
}
