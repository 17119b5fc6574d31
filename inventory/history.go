package inventory

import (
	"time"

	"github.com/google/uuid"
)

// record prepends a fresh audit event to the address's trail, keeping it
// newest-first. Events are only ever added, never rewritten or removed; the
// trail outlives the address itself so deletes and splits stay auditable.
func (s *snapshot) record(id AddressID, action HistoryAction, actor, note string, before, after Change) {
	ev := HistoryEvent{
		ID:        uuid.NewString(),
		AddressID: id,
		At:        time.Now().UTC(),
		Action:    action,
		Actor:     actor,
		Note:      note,
		Before:    before,
		After:     after,
	}
	s.history[id] = append([]HistoryEvent{ev}, s.history[id]...)
}
