package models

import "github.com/ethereum/go-ethereum/common"

// Deployment identifies a treasury instance. It is written once, the first
// time the server starts against an empty database.
type Deployment struct {
	// Deployer is the account that owns the deployment.
	Deployer common.Address `json:"deployer"`

	// Address is the treasury's own address, derived from the deployer.
	Address common.Address `json:"address"`

	// CreatedAt is the Unix timestamp of the deployment.
	CreatedAt int64 `json:"created_at"`
}
