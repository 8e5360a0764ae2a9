package governance

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mmynk/daotreasury/internal/models"
	"github.com/mmynk/daotreasury/internal/tally"
)

// PerformVote records the caller's vote on a proposal. Each contributor votes
// at most once per proposal, and only until the proposal's deadline.
func (t *Treasury) PerformVote(ctx context.Context, caller common.Address, id uint64, up bool) (models.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.proposal(id)
	if err != nil {
		return models.Event{}, err
	}
	if p.Paid {
		return models.Event{}, ErrAlreadyPaid
	}
	now := t.now().Unix()
	if now > p.Deadline {
		return models.Event{}, ErrVotingClosed
	}
	if _, ok := t.contributors[caller]; !ok {
		return models.Event{}, ErrNotContributor
	}
	if _, dup := t.voted[id][caller]; dup {
		return models.Event{}, ErrDuplicateVote
	}

	upVotes, downVotes := p.UpVotes, p.DownVotes
	if up {
		upVotes++
	} else {
		downVotes++
	}

	e, err := t.commit(ctx, models.Event{
		Kind:        models.KindVote,
		Actor:       caller,
		Timestamp:   now,
		ProposalID:  id,
		Title:       p.Title,
		Beneficiary: p.Beneficiary,
		Amount:      p.Amount.Clone(),
		UpVotes:     upVotes,
		DownVotes:   downVotes,
		Choice:      up,
	})
	if err != nil {
		return models.Event{}, err
	}

	t.logger.Info("Vote cast",
		"proposal_id", id,
		"voter", caller.Hex(),
		"up", up,
		"up_votes", upVotes,
		"down_votes", downVotes,
	)
	return e, nil
}

// ProposalVotes returns the votes cast on a proposal in cast order.
func (t *Treasury) ProposalVotes(id uint64) ([]models.Vote, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.proposal(id); err != nil {
		return nil, err
	}
	votes := make([]models.Vote, len(t.votes[id]))
	copy(votes, t.votes[id])
	return votes, nil
}

// PayBeneficiary releases a proposal's amount to its beneficiary once the
// vote clears the policy's quorum and majority.
func (t *Treasury) PayBeneficiary(ctx context.Context, caller common.Address, id uint64) (models.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.proposal(id)
	if err != nil {
		return models.Event{}, err
	}
	if !t.isStakeholder(caller) {
		return models.Event{}, ErrNotStakeholder
	}
	if p.Paid {
		return models.Event{}, ErrAlreadyPaid
	}

	now := t.now().Unix()
	switch t.policy.PayoutTiming {
	case tally.PayoutBeforeDeadline:
		if now > p.Deadline {
			return models.Event{}, ErrVotingClosed
		}
	case tally.PayoutAfterDeadline:
		if now <= p.Deadline {
			return models.Event{}, ErrVotingOpen
		}
	}

	outcome := tally.Decide(t.policy, p.UpVotes, p.DownVotes)
	if !outcome.Passed() {
		return models.Event{}, fmt.Errorf("%w: %d up, %d down", ErrInsufficientVotes, p.UpVotes, p.DownVotes)
	}
	if t.balance.Lt(p.Amount) {
		return models.Event{}, ErrInsufficientFunds
	}

	e, err := t.commit(ctx, models.Event{
		Kind:        models.KindProposal,
		Actor:       caller,
		Timestamp:   now,
		Label:       models.LabelPaid,
		ProposalID:  id,
		Beneficiary: p.Beneficiary,
		Amount:      p.Amount.Clone(),
	})
	if err != nil {
		return models.Event{}, err
	}

	t.logger.Info("Beneficiary paid",
		"proposal_id", id,
		"beneficiary", p.Beneficiary.Hex(),
		"amount", p.Amount.Dec(),
		"executor", caller.Hex(),
		"balance", t.balance.Dec(),
	)
	return e, nil
}
