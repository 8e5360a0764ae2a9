package models

import "github.com/ethereum/go-ethereum/common"

// Vote is one voter's choice on one proposal.
// There is at most one Vote per (ProposalID, Voter).
type Vote struct {
	ProposalID uint64         `json:"proposal_id"`
	Voter      common.Address `json:"voter"`

	// Up is true for an up-vote and false for a down-vote.
	Up bool `json:"up"`

	// CastAt is the Unix timestamp of the vote.
	CastAt int64 `json:"cast_at"`
}
