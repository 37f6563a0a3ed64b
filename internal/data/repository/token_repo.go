package repository

import (
	"context"
	"errors"
	"fmt"

	"backend-template/internal/data/entity"
	"backend-template/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type TokenRepository interface {
	Create(ctx context.Context, token *entity.UserToken) error
	FindActive(ctx context.Context, userID uuid.UUID, token string) (*entity.UserToken, error)
	Deactivate(ctx context.Context, token string) (int64, error)
	DeactivateAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// oneActiveTokenIndex keeps a single active token per user and type.
const oneActiveTokenIndex = "uq_user_tokens_one_active"

type tokenRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTokenRepository(db database.PgxIface, log *zap.Logger) TokenRepository {
	return &tokenRepository{
		db:  db,
		log: log.With(zap.String("repository", "token")),
	}
}

// Create stores an active token. Within the same transaction every other
// active token of the user with the same type is deactivated, so a user holds
// at most one active token per type. A concurrent insert that wins the unique
// index makes the transaction run once more.
func (tr *tokenRepository) Create(ctx context.Context, token *entity.UserToken) error {
	err := tr.create(ctx, token)
	if isActiveTokenConflict(err) {
		tr.log.Warn("Concurrent token insert, retrying",
			zap.String("user_id", token.UserID.String()),
			zap.String("token_type", string(token.TokenType)),
		)
		err = tr.create(ctx, token)
	}
	return err
}

func isActiveTokenConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == oneActiveTokenIndex
}

func (tr *tokenRepository) create(ctx context.Context, token *entity.UserToken) error {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin token tx: %w", err)
	}
	defer tx.Rollback(ctx)

	deactivate := `
		UPDATE user_tokens
		SET is_active = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND token_type = $2 AND is_active
	`
	tag, err := tx.Exec(ctx, deactivate, token.UserID, token.TokenType)
	if err != nil {
		tr.log.Error("Failed to deactivate previous tokens",
			zap.Error(err),
			zap.String("user_id", token.UserID.String()),
			zap.String("token_type", string(token.TokenType)),
		)
		return fmt.Errorf("deactivate previous %s tokens: %w", token.TokenType, err)
	}

	insert := `
		INSERT INTO user_tokens (id, user_id, token, token_type, expires, is_active,
		                         device, ip_address, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7, $8, $9, $10)
	`
	_, err = tx.Exec(ctx, insert,
		token.ID,
		token.UserID,
		token.Token,
		token.TokenType,
		token.Expires,
		token.Device,
		token.IPAddress,
		token.UserAgent,
		token.CreatedAt,
		token.UpdatedAt,
	)
	if err != nil {
		tr.log.Error("Failed to create token",
			zap.Error(err),
			zap.String("user_id", token.UserID.String()),
		)
		return fmt.Errorf("create token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit token tx: %w", err)
	}

	token.IsActive = true
	tr.log.Debug("Token stored",
		zap.String("user_id", token.UserID.String()),
		zap.String("token_type", string(token.TokenType)),
		zap.Int64("deactivated", tag.RowsAffected()),
	)

	return nil
}

// FindActive returns the token row if it is active, unexpired and belongs to userID.
func (tr *tokenRepository) FindActive(ctx context.Context, userID uuid.UUID, token string) (*entity.UserToken, error) {
	query := `
		SELECT id, user_id, token, token_type, expires, is_active, device, ip_address,
		       user_agent, created_at, updated_at, is_deleted, deleted_at
		FROM user_tokens
		WHERE user_id = $1 AND token = $2 AND is_active AND expires > NOW() AND NOT is_deleted
		LIMIT 1
	`

	var t entity.UserToken
	err := tr.db.QueryRow(ctx, query, userID, token).Scan(
		&t.ID,
		&t.UserID,
		&t.Token,
		&t.TokenType,
		&t.Expires,
		&t.IsActive,
		&t.Device,
		&t.IPAddress,
		&t.UserAgent,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.IsDeleted,
		&t.DeletedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		tr.log.Error("Failed to find active token",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find active token: %w", err)
	}

	return &t, nil
}

// Deactivate switches off the given token and reports how many rows changed.
func (tr *tokenRepository) Deactivate(ctx context.Context, token string) (int64, error) {
	query := `UPDATE user_tokens SET is_active = FALSE, updated_at = NOW() WHERE token = $1 AND is_active`

	tag, err := tr.db.Exec(ctx, query, token)
	if err != nil {
		tr.log.Error("Failed to deactivate token", zap.Error(err))
		return 0, fmt.Errorf("deactivate token: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (tr *tokenRepository) DeactivateAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `UPDATE user_tokens SET is_active = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_active`

	tag, err := tr.db.Exec(ctx, query, userID)
	if err != nil {
		tr.log.Error("Failed to deactivate user tokens",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("deactivate tokens of %s: %w", userID, err)
	}

	return tag.RowsAffected(), nil
}
