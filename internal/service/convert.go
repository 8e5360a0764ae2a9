package service

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/mmynk/daotreasury/internal/models"
	"github.com/mmynk/daotreasury/pkg/api"
)

var errInvalidAddress = errors.New("invalid address")

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", errInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

func dec(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

func hexOrEmpty(a common.Address) string {
	if a == (common.Address{}) {
		return ""
	}
	return a.Hex()
}

func toAPIProposal(p *models.Proposal) *api.Proposal {
	return &api.Proposal{
		Id:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Creator:     p.Creator.Hex(),
		Beneficiary: p.Beneficiary.Hex(),
		Amount:      dec(p.Amount),
		UpVotes:     p.UpVotes,
		DownVotes:   p.DownVotes,
		Paid:        p.Paid,
		CreatedAt:   p.CreatedAt,
		Deadline:    p.Deadline,
		PaidAt:      p.PaidAt,
		Executor:    hexOrEmpty(p.Executor),
	}
}

func toAPIVote(v models.Vote) *api.Vote {
	return &api.Vote{
		ProposalId: v.ProposalID,
		Voter:      v.Voter.Hex(),
		Up:         v.Up,
		CastAt:     v.CastAt,
	}
}

func toAPIContributor(c models.Contributor) *api.Contributor {
	return &api.Contributor{
		Address:            c.Address.Hex(),
		Amount:             dec(c.Amount),
		Stakeholder:        c.Stakeholder,
		FirstContributedAt: c.FirstContributedAt,
	}
}

func toAPIEvent(e models.Event) *api.Event {
	return &api.Event{
		Seq:         e.Seq,
		Kind:        string(e.Kind),
		Actor:       e.Actor.Hex(),
		Timestamp:   e.Timestamp,
		Label:       e.Label,
		ProposalId:  e.ProposalID,
		Title:       e.Title,
		Description: e.Description,
		Beneficiary: hexOrEmpty(e.Beneficiary),
		Amount:      dec(e.Amount),
		Deadline:    e.Deadline,
		UpVotes:     e.UpVotes,
		DownVotes:   e.DownVotes,
		Choice:      e.Choice,
	}
}

func toAPIDeployment(d models.Deployment) *api.Deployment {
	return &api.Deployment{
		Deployer:  d.Deployer.Hex(),
		Address:   d.Address.Hex(),
		CreatedAt: d.CreatedAt,
	}
}
