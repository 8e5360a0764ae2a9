// Package governance implements the treasury's state machine: the contribution
// ledger, the proposal store, voting and the payout gate.
//
// A Treasury owns all state. Every mutating operation runs under one lock,
// produces exactly one journal event, and touches memory only after the
// journal accepted that event, so a failed operation never leaves a partial
// change behind.
package governance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/mmynk/daotreasury/internal/models"
	"github.com/mmynk/daotreasury/internal/tally"
)

// Journal persists events before they take effect.
type Journal interface {
	AppendEvents(ctx context.Context, events []models.Event) error
}

// Option configures a Treasury.
type Option func(*Treasury)

// WithJournal makes every operation append its event to j before applying it.
func WithJournal(j Journal) Option {
	return func(t *Treasury) { t.journal = j }
}

// WithClock overrides the time source used for timestamps and deadlines.
func WithClock(now func() time.Time) Option {
	return func(t *Treasury) { t.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Treasury) { t.logger = l }
}

// WithDeployment records who deployed the treasury and its address.
func WithDeployment(d models.Deployment) Option {
	return func(t *Treasury) { t.deployment = d }
}

// Treasury is the governance engine.
type Treasury struct {
	mu sync.Mutex

	policy     tally.Policy
	journal    Journal
	now        func() time.Time
	logger     *slog.Logger
	deployment models.Deployment

	balance      *uint256.Int
	contributors map[common.Address]*models.Contributor
	order        []common.Address
	proposals    []*models.Proposal
	votes        map[uint64][]models.Vote
	voted        map[uint64]map[common.Address]struct{}
	events       []models.Event
}

// New creates an empty treasury governed by policy.
func New(policy tally.Policy, opts ...Option) (*Treasury, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	t := &Treasury{
		policy:       policy,
		now:          time.Now,
		logger:       slog.Default(),
		balance:      new(uint256.Int),
		contributors: make(map[common.Address]*models.Contributor),
		votes:        make(map[uint64][]models.Vote),
		voted:        make(map[uint64]map[common.Address]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Policy returns the rule set the treasury was created with.
func (t *Treasury) Policy() tally.Policy {
	p := t.policy
	p.StakeholderThreshold = p.StakeholderThreshold.Clone()
	return p
}

// Restore replays journal events into an empty treasury. Events must be in
// sequence order starting at 1.
func (t *Treasury) Restore(events []models.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.events) > 0 {
		return fmt.Errorf("%w: restore into a non-empty treasury", ErrCorruptJournal)
	}
	for _, e := range events {
		if e.Seq != uint64(len(t.events))+1 {
			return fmt.Errorf("%w: expected seq %d, got %d", ErrCorruptJournal, len(t.events)+1, e.Seq)
		}
		if err := t.apply(e); err != nil {
			return fmt.Errorf("replay seq %d: %w", e.Seq, err)
		}
	}
	t.logger.Info("Treasury restored",
		"events", len(events),
		"proposals", len(t.proposals),
		"contributors", len(t.order),
		"balance", t.balance.Dec(),
	)
	return nil
}

// commit journals e and then applies it. Callers hold t.mu and have already
// validated the transition.
func (t *Treasury) commit(ctx context.Context, e models.Event) (models.Event, error) {
	e.Seq = uint64(len(t.events)) + 1
	if t.journal != nil {
		if err := t.journal.AppendEvents(ctx, []models.Event{e}); err != nil {
			return models.Event{}, fmt.Errorf("failed to journal %s: %w", e.Kind, err)
		}
	}
	if err := t.apply(e); err != nil {
		// Validation happens before commit, so this means the engine's own
		// checks and apply disagree. The event is already journaled.
		t.logger.Error("Journaled event could not be applied", "seq", e.Seq, "kind", e.Kind, "error", err)
		return models.Event{}, err
	}
	return e, nil
}

// apply mutates state for one event. It is the only place state changes.
func (t *Treasury) apply(e models.Event) error {
	switch e.Kind {
	case models.KindContribution:
		if e.Amount == nil || e.Amount.IsZero() {
			return fmt.Errorf("%w: contribution without amount", ErrCorruptJournal)
		}
		newBalance, overflow := new(uint256.Int).AddOverflow(t.balance, e.Amount)
		if overflow {
			return fmt.Errorf("%w: balance overflow", ErrInvalidAmount)
		}
		c, ok := t.contributors[e.Actor]
		if !ok {
			c = &models.Contributor{
				Address:            e.Actor,
				Amount:             new(uint256.Int),
				FirstContributedAt: e.Timestamp,
			}
			t.contributors[e.Actor] = c
			t.order = append(t.order, e.Actor)
		}
		c.Amount.Add(c.Amount, e.Amount)
		t.balance = newBalance

	case models.KindProposal:
		switch e.Label {
		case models.LabelProposalRaised:
			if e.Amount == nil {
				return fmt.Errorf("%w: proposal without amount", ErrCorruptJournal)
			}
			if e.ProposalID != uint64(len(t.proposals)) {
				return fmt.Errorf("%w: proposal id %d out of order", ErrCorruptJournal, e.ProposalID)
			}
			t.proposals = append(t.proposals, &models.Proposal{
				ID:          e.ProposalID,
				Title:       e.Title,
				Description: e.Description,
				Creator:     e.Actor,
				Beneficiary: e.Beneficiary,
				Amount:      e.Amount.Clone(),
				CreatedAt:   e.Timestamp,
				Deadline:    e.Deadline,
			})
		case models.LabelPaid:
			p, err := t.proposal(e.ProposalID)
			if err != nil {
				return err
			}
			if p.Paid {
				return ErrAlreadyPaid
			}
			newBalance, underflow := new(uint256.Int).SubOverflow(t.balance, p.Amount)
			if underflow {
				return ErrInsufficientFunds
			}
			t.balance = newBalance
			p.Paid = true
			p.PaidAt = e.Timestamp
			p.Executor = e.Actor
		default:
			return fmt.Errorf("%w: unknown proposal label %q", ErrCorruptJournal, e.Label)
		}

	case models.KindVote:
		p, err := t.proposal(e.ProposalID)
		if err != nil {
			return err
		}
		if _, dup := t.voted[p.ID][e.Actor]; dup {
			return ErrDuplicateVote
		}
		if t.voted[p.ID] == nil {
			t.voted[p.ID] = make(map[common.Address]struct{})
		}
		t.voted[p.ID][e.Actor] = struct{}{}
		t.votes[p.ID] = append(t.votes[p.ID], models.Vote{
			ProposalID: p.ID,
			Voter:      e.Actor,
			Up:         e.Choice,
			CastAt:     e.Timestamp,
		})
		if e.Choice {
			p.UpVotes++
		} else {
			p.DownVotes++
		}

	default:
		return fmt.Errorf("%w: unknown event kind %q", ErrCorruptJournal, e.Kind)
	}

	t.events = append(t.events, e)
	return nil
}

func (t *Treasury) proposal(id uint64) (*models.Proposal, error) {
	if id >= uint64(len(t.proposals)) {
		return nil, fmt.Errorf("%w: id %d", ErrProposalNotFound, id)
	}
	return t.proposals[id], nil
}

func cloneInt(v *uint256.Int) *uint256.Int {
	if v == nil {
		return nil
	}
	return v.Clone()
}

func (t *Treasury) isStakeholder(addr common.Address) bool {
	c, ok := t.contributors[addr]
	return ok && tally.IsStakeholder(c.Amount, t.policy.StakeholderThreshold)
}
