package models

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// EventKind names the event stream an entry belongs to.
type EventKind string

const (
	// KindContribution records money coming into the treasury.
	KindContribution EventKind = "ContributionAction"
	// KindProposal records proposal creation and payout.
	KindProposal EventKind = "ProposalAction"
	// KindVote records a single vote.
	KindVote EventKind = "VoteAction"
)

// Action labels carried by events.
const (
	LabelContributed    = "Contributed"
	LabelProposalRaised = "Proposal Raised"
	LabelPaid           = "paid"
)

// Event is one entry of the governance journal. The journal is append-only and
// replaying it from Seq 1 rebuilds the whole treasury state, so every event
// carries the full data of the transition it records.
//
// Field use per kind:
//
//	ContributionAction: Actor, Timestamp, Label, Amount
//	ProposalAction:     Actor, Timestamp, Label, Beneficiary, Amount, ProposalID
//	                    (+ Title, Description, Deadline when Label is "Proposal Raised")
//	VoteAction:         Actor, ProposalID, Title, Beneficiary, Amount,
//	                    UpVotes, DownVotes, Choice
type Event struct {
	// Seq is the journal position, starting at 1. Assigned by the engine.
	Seq uint64 `json:"seq"`

	Kind      EventKind      `json:"kind"`
	Actor     common.Address `json:"actor"`
	Timestamp int64          `json:"timestamp"`
	Label     string         `json:"label,omitempty"`

	ProposalID  uint64         `json:"proposal_id"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Beneficiary common.Address `json:"beneficiary"`
	Amount      *uint256.Int   `json:"amount"`
	Deadline    int64          `json:"deadline,omitempty"`

	UpVotes   uint64 `json:"up_votes,omitempty"`
	DownVotes uint64 `json:"down_votes,omitempty"`
	Choice    bool   `json:"choice,omitempty"`
}

// ProposalAction is the (actor, timestamp, label, beneficiary, amount) view
// emitted when a proposal is raised or paid.
type ProposalAction struct {
	Actor       common.Address
	Timestamp   int64
	Label       string
	Beneficiary common.Address
	Amount      *uint256.Int
}

// VoteAction is the (voter, proposalId, title, beneficiary, amount, upVotes,
// downVotes, choice) view emitted for every vote.
type VoteAction struct {
	Voter       common.Address
	ProposalID  uint64
	Title       string
	Beneficiary common.Address
	Amount      *uint256.Int
	UpVotes     uint64
	DownVotes   uint64
	Choice      bool
}

// ProposalAction returns the event as a ProposalAction. ok is false for other kinds.
func (e Event) ProposalAction() (ProposalAction, bool) {
	if e.Kind != KindProposal {
		return ProposalAction{}, false
	}
	return ProposalAction{
		Actor:       e.Actor,
		Timestamp:   e.Timestamp,
		Label:       e.Label,
		Beneficiary: e.Beneficiary,
		Amount:      cloneAmount(e.Amount),
	}, true
}

// VoteAction returns the event as a VoteAction. ok is false for other kinds.
func (e Event) VoteAction() (VoteAction, bool) {
	if e.Kind != KindVote {
		return VoteAction{}, false
	}
	return VoteAction{
		Voter:       e.Actor,
		ProposalID:  e.ProposalID,
		Title:       e.Title,
		Beneficiary: e.Beneficiary,
		Amount:      cloneAmount(e.Amount),
		UpVotes:     e.UpVotes,
		DownVotes:   e.DownVotes,
		Choice:      e.Choice,
	}, true
}

func cloneAmount(a *uint256.Int) *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return a.Clone()
}
