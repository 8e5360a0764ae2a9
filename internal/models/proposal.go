package models

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Proposal is a funding request voted on by contributors.
// Proposals are append-only: ids are assigned in creation order starting at 0
// and are never reused.
type Proposal struct {
	// ID is the sequential proposal id.
	ID uint64 `json:"id"`

	// Title is the short human-readable name of the request.
	Title string `json:"title"`

	// Description explains what the funds are for.
	Description string `json:"description"`

	// Creator is the stakeholder that raised the proposal.
	Creator common.Address `json:"creator"`

	// Beneficiary receives Amount when the proposal is paid.
	Beneficiary common.Address `json:"beneficiary"`

	// Amount is the requested payout in base units.
	Amount *uint256.Int `json:"amount"`

	// UpVotes and DownVotes are the running tally.
	UpVotes   uint64 `json:"up_votes"`
	DownVotes uint64 `json:"down_votes"`

	// Paid is set once the payout succeeded. A paid proposal is immutable.
	Paid bool `json:"paid"`

	// CreatedAt is the Unix timestamp when the proposal was raised.
	CreatedAt int64 `json:"created_at"`

	// Deadline is the Unix timestamp after which voting is closed.
	Deadline int64 `json:"deadline"`

	// PaidAt and Executor are recorded on payout.
	PaidAt   int64          `json:"paid_at,omitempty"`
	Executor common.Address `json:"executor,omitempty"`
}

// Clone returns a deep copy so callers never alias engine state.
func (p *Proposal) Clone() *Proposal {
	cp := *p
	if p.Amount != nil {
		cp.Amount = p.Amount.Clone()
	}
	return &cp
}
