// Package tally holds the pure governance math: who counts as a stakeholder and
// whether a proposal's votes clear the payout gate.
package tally

import (
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// PayoutTiming decides how the payout gate relates to the voting deadline.
type PayoutTiming string

const (
	// PayoutBeforeDeadline allows payment only while the proposal is still open.
	// After the deadline a payout fails the same way a late vote does.
	PayoutBeforeDeadline PayoutTiming = "before-deadline"
	// PayoutAfterDeadline allows payment only once voting has closed.
	PayoutAfterDeadline PayoutTiming = "after-deadline"
	// PayoutAnytime ignores the deadline for payouts.
	PayoutAnytime PayoutTiming = "anytime"
)

// Policy is the configurable governance rule set.
type Policy struct {
	// StakeholderThreshold is the cumulative contribution (base units) at or
	// above which a contributor becomes a stakeholder.
	StakeholderThreshold *uint256.Int

	// VotingPeriod is how long after creation a proposal accepts votes.
	// Deadlines are unix seconds, so it must be a whole number of seconds.
	VotingPeriod time.Duration

	// Quorum is the minimum number of votes cast (up + down) before a payout.
	Quorum uint64

	// MajorityPercent is the share of cast votes the up-votes must exceed.
	// 50 means a strict majority.
	MajorityPercent uint64

	// PayoutTiming relates payouts to the voting deadline.
	PayoutTiming PayoutTiming
}

// Validate reports the first invalid field.
func (p Policy) Validate() error {
	if p.StakeholderThreshold == nil || p.StakeholderThreshold.IsZero() {
		return fmt.Errorf("stakeholder threshold must be positive")
	}
	if p.VotingPeriod <= 0 {
		return fmt.Errorf("voting period must be positive")
	}
	if p.VotingPeriod%time.Second != 0 {
		return fmt.Errorf("voting period must be whole seconds, got %s", p.VotingPeriod)
	}
	if p.Quorum == 0 {
		return fmt.Errorf("quorum must be at least one vote")
	}
	if p.MajorityPercent >= 100 {
		return fmt.Errorf("majority percent must be below 100, got %d", p.MajorityPercent)
	}
	switch p.PayoutTiming {
	case PayoutBeforeDeadline, PayoutAfterDeadline, PayoutAnytime:
	default:
		return fmt.Errorf("unknown payout timing %q", p.PayoutTiming)
	}
	return nil
}

// Outcome is the result of evaluating a tally against a policy.
type Outcome struct {
	Cast       uint64
	QuorumMet  bool
	MajorityOK bool
}

// Passed reports whether the payout gate is open.
func (o Outcome) Passed() bool {
	return o.QuorumMet && o.MajorityOK
}

// Decide evaluates a proposal's up/down tally.
//
// Rules:
//   - quorum: up + down >= Quorum
//   - majority: up * 100 > (up + down) * MajorityPercent
//
// With the defaults (Quorum 1, MajorityPercent 50) two up-votes against zero
// down-votes pass and a tie fails.
func Decide(p Policy, up, down uint64) Outcome {
	cast := up + down
	return Outcome{
		Cast:       cast,
		QuorumMet:  cast >= p.Quorum,
		MajorityOK: cast > 0 && up*100 > cast*p.MajorityPercent,
	}
}

// IsStakeholder reports whether a cumulative contribution meets the threshold.
func IsStakeholder(amount, threshold *uint256.Int) bool {
	if amount == nil || threshold == nil {
		return false
	}
	return !amount.Lt(threshold)
}

// MemberBalance is one contributor's standing.
type MemberBalance struct {
	Address     common.Address
	Amount      *uint256.Int
	Stakeholder bool
}

// Summary aggregates a set of contributor balances.
type Summary struct {
	Members          []MemberBalance
	Total            *uint256.Int
	StakeholderTotal *uint256.Int
	Stakeholders     int
}

// Summarize classifies every contributor and sums the balances.
// Members are ordered by amount (largest first), ties by address.
func Summarize(balances map[common.Address]*uint256.Int, threshold *uint256.Int) Summary {
	s := Summary{
		Total:            new(uint256.Int),
		StakeholderTotal: new(uint256.Int),
	}
	for addr, amount := range balances {
		if amount == nil {
			continue
		}
		m := MemberBalance{
			Address:     addr,
			Amount:      amount.Clone(),
			Stakeholder: IsStakeholder(amount, threshold),
		}
		s.Total.Add(s.Total, amount)
		if m.Stakeholder {
			s.Stakeholders++
			s.StakeholderTotal.Add(s.StakeholderTotal, amount)
		}
		s.Members = append(s.Members, m)
	}

	sort.Slice(s.Members, func(i, j int) bool {
		if c := s.Members[i].Amount.Cmp(s.Members[j].Amount); c != 0 {
			return c > 0
		}
		return s.Members[i].Address.Cmp(s.Members[j].Address) < 0
	})
	return s
}
