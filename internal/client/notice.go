package client

import (
	"errors"
	"strings"

	"connectrpc.com/connect"
)

// Notices shown to users for known failures.
const (
	NoticeVotingEnded       = "Sorry, voting time has ended"
	NoticeAlreadyVoted      = "You have already voted!"
	NoticeInsufficientVotes = "Sorry, insufficient votes"
	NoticeNotStakeholder    = "You are not a stakeholder!"
)

// Substrings are matched against the lowercased message.
var notices = []struct {
	substr string
	notice string
}{
	{"time has already passed", NoticeVotingEnded},
	{"double voting is not allowed", NoticeAlreadyVoted},
	{"insufficient votes", NoticeInsufficientVotes},
	{"not a stakeholder", NoticeNotStakeholder},
}

// Notice returns the user-facing notice for err. ok is false when the error
// is not one users are told about.
func Notice(err error) (notice string, ok bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		msg = connectErr.Message()
	}
	msg = strings.ToLower(msg)
	for _, n := range notices {
		if strings.Contains(msg, n.substr) {
			return n.notice, true
		}
	}
	return "", false
}

// Explain returns the notice for err, or logs err and returns "" when there
// is none.
func (c *Client) Explain(err error) string {
	if notice, ok := Notice(err); ok {
		return notice
	}
	if err != nil {
		c.logger.Error("request failed", "error", err, "code", connect.CodeOf(err).String())
	}
	return ""
}
