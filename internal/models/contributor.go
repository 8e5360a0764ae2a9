package models

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Contributor represents an address that has paid into the treasury.
type Contributor struct {
	// Address is the contributor's account.
	Address common.Address `json:"address"`

	// Amount is the cumulative contribution in base units. It only grows.
	Amount *uint256.Int `json:"amount"`

	// Stakeholder reports whether Amount meets the stakeholder threshold.
	// Filled in by the engine at read time, never persisted.
	Stakeholder bool `json:"stakeholder"`

	// FirstContributedAt is the Unix timestamp of the first contribution.
	FirstContributedAt int64 `json:"first_contributed_at"`
}
