package models

import "time"

type Todo struct {
	ID        string `json:"_id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	// CompletedAt is epoch milliseconds, set only while Completed is true.
	CompletedAt *int64 `json:"completedAt"`
	Creator     string `json:"_creator,omitempty"`
}

// TodoPatch carries the mutable fields of a PATCH request. Nil means the
// field was absent from the request body.
type TodoPatch struct {
	Text        *string `json:"text"`
	Completed   *bool   `json:"completed"`
	CompletedAt *int64  `json:"completedAt"`
}

// Apply mutates todo in place. Completion drives the timestamp: marking a
// todo completed stamps now (in millis) unless the patch supplies its own
// CompletedAt; marking it not completed clears CompletedAt regardless of
// anything else in the patch.
func (p TodoPatch) Apply(todo *Todo, now time.Time) {
	if p.Text != nil {
		todo.Text = *p.Text
	}
	if p.Completed != nil && *p.Completed {
		todo.Completed = true
		if p.CompletedAt != nil {
			todo.CompletedAt = p.CompletedAt
		} else {
			millis := now.UnixMilli()
			todo.CompletedAt = &millis
		}
		return
	}
	// Absent completed is treated the same as completed:false, matching
	// the established wire behavior of this API.
	todo.Completed = false
	todo.CompletedAt = nil
}
