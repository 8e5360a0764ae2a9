package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/daotreasury/internal/governance"
	"github.com/mmynk/daotreasury/internal/units"
)

// toConnectError maps governance and input errors to Connect codes.
// The message is kept so clients can match on it.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, governance.ErrNotStakeholder),
		errors.Is(err, governance.ErrNotContributor):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, governance.ErrDuplicateVote):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, governance.ErrVotingClosed),
		errors.Is(err, governance.ErrVotingOpen),
		errors.Is(err, governance.ErrInsufficientVotes),
		errors.Is(err, governance.ErrAlreadyPaid),
		errors.Is(err, governance.ErrInsufficientFunds):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, governance.ErrInvalidAmount),
		errors.Is(err, governance.ErrInvalidProposal),
		errors.Is(err, errInvalidAddress),
		isUnitsError(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, governance.ErrProposalNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func isUnitsError(err error) bool {
	return errors.Is(err, units.ErrEmpty) ||
		errors.Is(err, units.ErrNegative) ||
		errors.Is(err, units.ErrSyntax) ||
		errors.Is(err, units.ErrOverflow) ||
		errors.Is(err, units.ErrPrecision)
}
