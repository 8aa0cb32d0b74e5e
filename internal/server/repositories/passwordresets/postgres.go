package passwordresets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/matrimo/internal/common"
	"github.com/dmitrijs2005/matrimo/internal/dbx"
	"github.com/dmitrijs2005/matrimo/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, reset *models.PasswordReset) error {
	query := `
		INSERT INTO password_resets (email, user_id, code_hash, expires_at, attempts, verified)
		VALUES ($1, $2, $3, $4, 0, FALSE)
		ON CONFLICT (email) DO UPDATE
		SET user_id = EXCLUDED.user_id, code_hash = EXCLUDED.code_hash,
		    expires_at = EXCLUDED.expires_at, attempts = 0, verified = FALSE, created_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, reset.Email, reset.UserID, reset.CodeHash, reset.Expires); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, email string) (*models.PasswordReset, error) {
	query := `
		SELECT user_id, code_hash, expires_at, attempts, verified, created_at
		FROM password_resets
		WHERE email = $1
	`
	reset := &models.PasswordReset{Email: email}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&reset.UserID, &reset.CodeHash, &reset.Expires, &reset.Attempts, &reset.Verified, &reset.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reset, nil
}

func (r *PostgresRepository) RecordAttempt(ctx context.Context, email string) (int, error) {
	query := `
		UPDATE password_resets SET attempts = attempts + 1
		WHERE email = $1
		RETURNING attempts
	`
	var attempts int
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&attempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return attempts, nil
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, email string) error {
	query := `
		UPDATE password_resets SET verified = TRUE
		WHERE email = $1
	`
	res, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, email string) error {
	query := `
		DELETE FROM password_resets
		WHERE email = $1
	`
	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
