package governance

import "github.com/mmynk/daotreasury/internal/models"

// EventFilter selects journal entries.
type EventFilter struct {
	// AfterSeq skips events with Seq <= AfterSeq.
	AfterSeq uint64
	// Limit caps the result. Zero means no limit.
	Limit int
	// ProposalID, when set, keeps only proposal and vote events for that id.
	ProposalID *uint64
}

// Events returns journal entries in sequence order.
func (t *Treasury) Events(f EventFilter) []models.Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []models.Event
	start := f.AfterSeq
	if start > uint64(len(t.events)) {
		return out
	}
	for _, e := range t.events[start:] {
		if f.ProposalID != nil {
			if e.Kind == models.KindContribution || e.ProposalID != *f.ProposalID {
				continue
			}
		}
		e.Amount = cloneInt(e.Amount)
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// LastSeq returns the sequence number of the newest event.
func (t *Treasury) LastSeq() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return uint64(len(t.events))
}
