package governance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/mmynk/daotreasury/internal/models"
)

// ProposalInput is the caller-supplied part of a new proposal.
type ProposalInput struct {
	Title       string
	Description string
	Beneficiary common.Address
	Amount      *uint256.Int
}

func (in ProposalInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidProposal)
	}
	if in.Beneficiary == (common.Address{}) {
		return fmt.Errorf("%w: beneficiary is required", ErrInvalidProposal)
	}
	if in.Amount == nil || in.Amount.IsZero() {
		return ErrInvalidAmount
	}
	return nil
}

// CreateProposal raises a new spending proposal. Only stakeholders may do so.
func (t *Treasury) CreateProposal(ctx context.Context, caller common.Address, in ProposalInput) (*models.Proposal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.isStakeholder(caller) {
		return nil, ErrNotStakeholder
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := t.now()
	e, err := t.commit(ctx, models.Event{
		Kind:        models.KindProposal,
		Actor:       caller,
		Timestamp:   now.Unix(),
		Label:       models.LabelProposalRaised,
		ProposalID:  uint64(len(t.proposals)),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Beneficiary: in.Beneficiary,
		Amount:      in.Amount.Clone(),
		Deadline:    now.Add(t.policy.VotingPeriod).Unix(),
	})
	if err != nil {
		return nil, err
	}

	p := t.proposals[e.ProposalID]
	t.logger.Info("Proposal raised",
		"proposal_id", p.ID,
		"creator", caller.Hex(),
		"beneficiary", p.Beneficiary.Hex(),
		"amount", p.Amount.Dec(),
		"deadline", time.Unix(p.Deadline, 0).UTC(),
	)
	return p.Clone(), nil
}

// Proposal returns a copy of the proposal with the given id.
func (t *Treasury) Proposal(id uint64) (*models.Proposal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.proposal(id)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// Proposals returns every proposal in creation order.
func (t *Treasury) Proposals() []*models.Proposal {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*models.Proposal, len(t.proposals))
	for i, p := range t.proposals {
		out[i] = p.Clone()
	}
	return out
}
