package governance

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/mmynk/daotreasury/internal/models"
	"github.com/mmynk/daotreasury/internal/tally"
)

// Receipt is the outcome of a contribution, read under the same lock that
// applied it.
type Receipt struct {
	Event       models.Event
	Contributed *uint256.Int
	Stakeholder bool
	Balance     *uint256.Int
}

// Contribute adds amount to the caller's cumulative contribution and to the
// treasury balance. The caller becomes a stakeholder once the total reaches
// the policy threshold.
func (t *Treasury) Contribute(ctx context.Context, caller common.Address, amount *uint256.Int) (Receipt, error) {
	if amount == nil || amount.IsZero() {
		return Receipt{}, ErrInvalidAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, overflow := new(uint256.Int).AddOverflow(t.balance, amount); overflow {
		return Receipt{}, fmt.Errorf("%w: treasury balance would overflow", ErrInvalidAmount)
	}

	e, err := t.commit(ctx, models.Event{
		Kind:      models.KindContribution,
		Actor:     caller,
		Timestamp: t.now().Unix(),
		Label:     models.LabelContributed,
		Amount:    amount.Clone(),
	})
	if err != nil {
		return Receipt{}, err
	}

	r := Receipt{
		Event:       e,
		Contributed: t.contributors[caller].Amount.Clone(),
		Stakeholder: t.isStakeholder(caller),
		Balance:     t.balance.Clone(),
	}
	t.logger.Info("Contribution received",
		"contributor", caller.Hex(),
		"amount", amount.Dec(),
		"stakeholder", r.Stakeholder,
	)
	return r, nil
}

// StakeholderStatus reports whether addr's contribution meets the threshold.
func (t *Treasury) StakeholderStatus(addr common.Address) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isStakeholder(addr)
}

// IsContributor reports whether addr has ever contributed.
func (t *Treasury) IsContributor(addr common.Address) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.contributors[addr]
	return ok
}

// StakeholderBalance returns a stakeholder's cumulative contribution.
func (t *Treasury) StakeholderBalance(addr common.Address) (*uint256.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.isStakeholder(addr) {
		return nil, ErrNotStakeholder
	}
	return t.contributors[addr].Amount.Clone(), nil
}

// ContributorBalance returns addr's cumulative contribution, zero if none.
func (t *Treasury) ContributorBalance(addr common.Address) *uint256.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.contributors[addr]; ok {
		return c.Amount.Clone()
	}
	return new(uint256.Int)
}

// TotalBalance returns the funds currently held by the treasury.
func (t *Treasury) TotalBalance() *uint256.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balance.Clone()
}

// Deployment returns the deployment record the treasury was created with.
func (t *Treasury) Deployment() models.Deployment {
	return t.deployment
}

// Deployer returns the address that deployed the treasury.
func (t *Treasury) Deployer() common.Address {
	return t.deployment.Deployer
}

// Roster is the contributor list together with its totals.
type Roster struct {
	Contributors []models.Contributor
	Summary      tally.Summary
}

// Roster returns the contributor list and its summary from one consistent state.
func (t *Treasury) Roster() Roster {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Roster{
		Contributors: t.listContributors(),
		Summary:      t.summary(),
	}
}

// ListContributors returns every contributor in first-contribution order.
func (t *Treasury) ListContributors() []models.Contributor {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.listContributors()
}

// Summary classifies all contributors against the stakeholder threshold.
func (t *Treasury) Summary() tally.Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary()
}

func (t *Treasury) listContributors() []models.Contributor {
	out := make([]models.Contributor, 0, len(t.order))
	for _, addr := range t.order {
		c := t.contributors[addr]
		out = append(out, models.Contributor{
			Address:            c.Address,
			Amount:             c.Amount.Clone(),
			Stakeholder:        tally.IsStakeholder(c.Amount, t.policy.StakeholderThreshold),
			FirstContributedAt: c.FirstContributedAt,
		})
	}
	return out
}

func (t *Treasury) summary() tally.Summary {
	balances := make(map[common.Address]*uint256.Int, len(t.contributors))
	for addr, c := range t.contributors {
		balances[addr] = c.Amount
	}
	return tally.Summarize(balances, t.policy.StakeholderThreshold)
}
