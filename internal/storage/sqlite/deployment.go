package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mmynk/daotreasury/internal/models"
	"github.com/mmynk/daotreasury/internal/storage"
)

// SaveDeployment inserts the single deployment row.
func (s *SQLiteStore) SaveDeployment(ctx context.Context, d models.Deployment) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO deployment (id, deployer, address, created_at) VALUES (1, ?, ?, ?)",
		d.Deployer.Hex(), d.Address.Hex(), d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save deployment: %w", err)
	}
	return nil
}

// GetDeployment retrieves the deployment row.
func (s *SQLiteStore) GetDeployment(ctx context.Context) (models.Deployment, error) {
	var (
		d                 models.Deployment
		deployer, address string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT deployer, address, created_at FROM deployment WHERE id = 1",
	).Scan(&deployer, &address, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Deployment{}, fmt.Errorf("deployment: %w", storage.ErrNotFound)
	}
	if err != nil {
		return models.Deployment{}, fmt.Errorf("failed to get deployment: %w", err)
	}

	d.Deployer = common.HexToAddress(deployer)
	d.Address = common.HexToAddress(address)
	return d, nil
}

// SaveChallenge upserts the pending login challenge for an address.
func (s *SQLiteStore) SaveChallenge(ctx context.Context, address common.Address, message string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO challenges (address, message, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(address) DO UPDATE SET message = excluded.message, expires_at = excluded.expires_at`,
		address.Hex(), message, expiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save challenge: %w", err)
	}
	return nil
}

// ConsumeChallenge reads and deletes the pending challenge in one transaction,
// so a challenge can be used at most once.
func (s *SQLiteStore) ConsumeChallenge(ctx context.Context, address common.Address) (string, time.Time, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		message   string
		expiresAt int64
	)
	err = tx.QueryRowContext(ctx,
		"SELECT message, expires_at FROM challenges WHERE address = ?",
		address.Hex(),
	).Scan(&message, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, fmt.Errorf("challenge for %s: %w", address.Hex(), storage.ErrNotFound)
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to get challenge: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM challenges WHERE address = ?", address.Hex()); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to delete challenge: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return message, time.Unix(expiresAt, 0), nil
}
