package governance

import "errors"

// Operation failures. Messages keep the wording clients already match on
// ("time has already passed", "double voting is not allowed", "insufficient votes").
var (
	ErrNotStakeholder    = errors.New("not a stakeholder")
	ErrNotContributor    = errors.New("not a contributor")
	ErrVotingClosed      = errors.New("time has already passed")
	ErrVotingOpen        = errors.New("voting period has not ended")
	ErrDuplicateVote     = errors.New("double voting is not allowed")
	ErrInsufficientVotes = errors.New("insufficient votes")
	ErrAlreadyPaid       = errors.New("payment already made")
	ErrInsufficientFunds = errors.New("insufficient treasury balance")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidProposal   = errors.New("invalid proposal")
	ErrProposalNotFound  = errors.New("proposal not found")

	// ErrCorruptJournal is returned by Restore when replayed events do not
	// describe a valid history.
	ErrCorruptJournal = errors.New("journal is inconsistent")
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrNotStakeholder, "not_stakeholder"},
	{ErrNotContributor, "not_contributor"},
	{ErrVotingClosed, "voting_closed"},
	{ErrVotingOpen, "voting_open"},
	{ErrDuplicateVote, "duplicate_vote"},
	{ErrInsufficientVotes, "insufficient_votes"},
	{ErrAlreadyPaid, "already_paid"},
	{ErrInsufficientFunds, "insufficient_funds"},
	{ErrInvalidAmount, "invalid_amount"},
	{ErrInvalidProposal, "invalid_proposal"},
	{ErrProposalNotFound, "proposal_not_found"},
}

// Reason returns a short snake_case label for a governance error, suitable as
// a metric label. Errors outside the taxonomy map to "internal".
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "internal"
}
