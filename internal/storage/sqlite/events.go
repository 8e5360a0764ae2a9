package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/mmynk/daotreasury/internal/models"
)

// eventPayload holds the event fields that have no column of their own.
type eventPayload struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Beneficiary common.Address `json:"beneficiary"`
	Deadline    int64          `json:"deadline,omitempty"`
	UpVotes     uint64         `json:"up_votes,omitempty"`
	DownVotes   uint64         `json:"down_votes,omitempty"`
	Choice      bool           `json:"choice,omitempty"`
}

// AppendEvents writes events in one transaction. A sequence number that
// does not follow the last stored one aborts the whole batch.
func (s *SQLiteStore) AppendEvents(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var last uint64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) FROM events").Scan(&last); err != nil {
		return fmt.Errorf("failed to read last seq: %w", err)
	}

	for _, e := range events {
		if e.Seq != last+1 {
			return fmt.Errorf("event seq %d does not follow %d", e.Seq, last)
		}
		last = e.Seq

		payload, err := json.Marshal(eventPayload{
			Title:       e.Title,
			Description: e.Description,
			Beneficiary: e.Beneficiary,
			Deadline:    e.Deadline,
			UpVotes:     e.UpVotes,
			DownVotes:   e.DownVotes,
			Choice:      e.Choice,
		})
		if err != nil {
			return fmt.Errorf("failed to encode event %d: %w", e.Seq, err)
		}

		amount := "0"
		if e.Amount != nil {
			amount = e.Amount.Dec()
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO events (seq, kind, actor, proposal_id, label, amount, payload, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Seq, string(e.Kind), e.Actor.Hex(), e.ProposalID, e.Label, amount, string(payload), e.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListEvents returns every event after afterSeq in sequence order.
func (s *SQLiteStore) ListEvents(ctx context.Context, afterSeq uint64) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, kind, actor, proposal_id, label, amount, payload, created_at
		 FROM events WHERE seq > ? ORDER BY seq`,
		afterSeq,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var (
			e       models.Event
			kind    string
			actor   string
			amount  string
			payload string
		)
		if err := rows.Scan(&e.Seq, &kind, &actor, &e.ProposalID, &e.Label, &amount, &payload, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		var p eventPayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, fmt.Errorf("failed to decode event %d: %w", e.Seq, err)
		}
		e.Amount, err = uint256.FromDecimal(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to decode amount of event %d: %w", e.Seq, err)
		}

		e.Kind = models.EventKind(kind)
		e.Actor = common.HexToAddress(actor)
		e.Title = p.Title
		e.Description = p.Description
		e.Beneficiary = p.Beneficiary
		e.Deadline = p.Deadline
		e.UpVotes = p.UpVotes
		e.DownVotes = p.DownVotes
		e.Choice = p.Choice
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}
