// Package deploy creates the treasury's deployment record and writes the
// files the web frontend reads to find and call the treasury.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/mmynk/daotreasury/internal/models"
	"github.com/mmynk/daotreasury/internal/storage"
)

// Store is the part of storage.Store that deployment needs.
type Store interface {
	SaveDeployment(ctx context.Context, d models.Deployment) error
	GetDeployment(ctx context.Context) (models.Deployment, error)
}

// TreasuryAddress is the address a contract created by deployer's first
// transaction would get.
func TreasuryAddress(deployer common.Address) common.Address {
	return crypto.CreateAddress(deployer, 0)
}

// Ensure returns the stored deployment, creating it on first start. A stored
// deployment for a different deployer is an error, since the journal belongs
// to that deployment.
func Ensure(ctx context.Context, store Store, deployer common.Address, now time.Time, logger *slog.Logger) (models.Deployment, error) {
	d, err := store.GetDeployment(ctx)
	switch {
	case err == nil:
		if d.Deployer != deployer {
			return models.Deployment{}, fmt.Errorf("database belongs to deployer %s, configured deployer is %s", d.Deployer.Hex(), deployer.Hex())
		}
		return d, nil
	case !errors.Is(err, storage.ErrNotFound):
		return models.Deployment{}, err
	}

	d = models.Deployment{
		Deployer:  deployer,
		Address:   TreasuryAddress(deployer),
		CreatedAt: now.Unix(),
	}
	if err := store.SaveDeployment(ctx, d); err != nil {
		return models.Deployment{}, err
	}
	logger.Info("Treasury deployed", "deployer", d.Deployer.Hex(), "address", d.Address.Hex())
	return d, nil
}
