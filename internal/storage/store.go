// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mmynk/daotreasury/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence the treasury needs: the append-only event
// journal, the deployment record and pending wallet login challenges.
// This abstraction allows swapping storage backends without changing the
// engine or the service layer.
type Store interface {
	// AppendEvents persists events atomically. Sequence numbers must continue
	// the journal without gaps.
	AppendEvents(ctx context.Context, events []models.Event) error

	// ListEvents returns journal entries with Seq > afterSeq in order.
	ListEvents(ctx context.Context, afterSeq uint64) ([]models.Event, error)

	// SaveDeployment stores the deployment record. It fails if one exists.
	SaveDeployment(ctx context.Context, d models.Deployment) error

	// GetDeployment returns the deployment record or ErrNotFound.
	GetDeployment(ctx context.Context) (models.Deployment, error)

	// SaveChallenge stores a login challenge for address, replacing any
	// earlier one.
	SaveChallenge(ctx context.Context, address common.Address, message string, expiresAt time.Time) error

	// ConsumeChallenge returns and deletes the pending challenge for address.
	// Returns ErrNotFound if there is none.
	ConsumeChallenge(ctx context.Context, address common.Address) (message string, expiresAt time.Time, err error)

	// Close releases any resources held by the store.
	Close() error
}
