// Package todo defines the task-service entities and resource paths shared
// by the tree and mutation layers. Entities are immutable snapshots of what
// the service returned; nothing here holds live state.
package todo

import "time"

// Status is a task's completion state on the wire.
type Status string

const (
	StatusNotStarted Status = "notStarted"
	StatusCompleted  Status = "completed"
)

// Toggled returns the negation of the current status. Any status other
// than completed toggles to completed.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusNotStarted
	}
	return StatusCompleted
}

// Importance is a task's priority marker on the wire.
type Importance string

const (
	ImportanceNormal Importance = "normal"
	ImportanceHigh   Importance = "high"
)

// Toggled returns the negation of the current importance. Any importance
// other than high toggles to high.
func (i Importance) Toggled() Importance {
	if i == ImportanceHigh {
		return ImportanceNormal
	}
	return ImportanceHigh
}

// DateTimeInfo is the wire form of a zoned timestamp, e.g.
// {"dateTime": "2024-03-01T09:00:00.0000000", "timeZone": "UTC"}.
type DateTimeInfo struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Time parses the timestamp. The second return is false when the value
// cannot be interpreted; callers treat that the same as an absent field.
func (d DateTimeInfo) Time() (time.Time, bool) {
	loc := time.UTC
	if d.TimeZone != "" {
		if l, err := time.LoadLocation(d.TimeZone); err == nil {
			loc = l
		}
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, d.DateTime, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateOnly renders the timestamp as a plain yyyy-mm-dd date, or "" when
// the value is absent or malformed.
func (d DateTimeInfo) DateOnly() string {
	t, ok := d.Time()
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// ItemBody is a task's note text.
type ItemBody struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
}

// Task is a single to-do item.
type Task struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Status           Status        `json:"status"`
	Importance       Importance    `json:"importance"`
	DueDateTime      *DateTimeInfo `json:"dueDateTime,omitempty"`
	ReminderDateTime *DateTimeInfo `json:"reminderDateTime,omitempty"`
	Body             *ItemBody     `json:"body,omitempty"`
}

// Completed reports whether the task's status is completed.
func (t Task) Completed() bool { return t.Status == StatusCompleted }

// Important reports whether the task's importance is high.
func (t Task) Important() bool { return t.Importance == ImportanceHigh }

// Note returns the body text, or "" when the task has no body.
func (t Task) Note() string {
	if t.Body == nil {
		return ""
	}
	return t.Body.Content
}

// WellknownDefaultList marks the service's built-in list.
const WellknownDefaultList = "defaultList"

// TaskList is a named collection of tasks.
type TaskList struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	WellknownListName string `json:"wellknownListName,omitempty"`
}

// IsDefault reports whether the list is the service's built-in default.
func (l TaskList) IsDefault() bool { return l.WellknownListName == WellknownDefaultList }
