package todo

import (
	"encoding/json"
	"testing"
)

func TestStatusToggled(t *testing.T) {
	if got := StatusNotStarted.Toggled(); got != StatusCompleted {
		t.Errorf("expected completed, got %q", got)
	}
	if got := StatusCompleted.Toggled(); got != StatusNotStarted {
		t.Errorf("expected notStarted, got %q", got)
	}
	// Double toggle returns to the original value.
	if got := StatusNotStarted.Toggled().Toggled(); got != StatusNotStarted {
		t.Errorf("expected notStarted after double toggle, got %q", got)
	}
}

func TestStatusToggled_UnknownStatus(t *testing.T) {
	// Anything that is not completed counts as open and toggles to completed.
	if got := Status("waitingOnOthers").Toggled(); got != StatusCompleted {
		t.Errorf("expected completed, got %q", got)
	}
}

func TestImportanceToggled(t *testing.T) {
	if got := ImportanceNormal.Toggled(); got != ImportanceHigh {
		t.Errorf("expected high, got %q", got)
	}
	if got := ImportanceHigh.Toggled(); got != ImportanceNormal {
		t.Errorf("expected normal, got %q", got)
	}
}

func TestDateTimeInfo_Time(t *testing.T) {
	d := DateTimeInfo{DateTime: "2024-03-01T09:30:00.0000000", TimeZone: "UTC"}
	tm, ok := d.Time()
	if !ok {
		t.Fatal("expected timestamp to parse")
	}
	if tm.Hour() != 9 || tm.Minute() != 30 {
		t.Errorf("unexpected time: %v", tm)
	}
}

func TestDateTimeInfo_TimeDateOnlyInput(t *testing.T) {
	d := DateTimeInfo{DateTime: "2024-03-01"}
	tm, ok := d.Time()
	if !ok {
		t.Fatal("expected date to parse")
	}
	if tm.Year() != 2024 || tm.Month() != 3 || tm.Day() != 1 {
		t.Errorf("unexpected date: %v", tm)
	}
}

func TestDateTimeInfo_TimeMalformed(t *testing.T) {
	d := DateTimeInfo{DateTime: "soon"}
	if _, ok := d.Time(); ok {
		t.Error("expected malformed timestamp to be treated as absent")
	}
	if got := d.DateOnly(); got != "" {
		t.Errorf("expected empty date, got %q", got)
	}
}

func TestDateTimeInfo_UnknownZoneFallsBackToUTC(t *testing.T) {
	d := DateTimeInfo{DateTime: "2024-03-01T09:00:00", TimeZone: "Not/AZone"}
	if _, ok := d.Time(); !ok {
		t.Error("expected parse to succeed despite unknown zone")
	}
}

func TestTaskDecode_OptionalFieldsAbsent(t *testing.T) {
	raw := `{"id":"T1","title":"Buy milk","status":"notStarted","importance":"normal"}`

	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.DueDateTime != nil {
		t.Error("expected nil due date")
	}
	if task.Body != nil {
		t.Error("expected nil body")
	}
	if task.Note() != "" {
		t.Errorf("expected empty note, got %q", task.Note())
	}
	if task.Completed() {
		t.Error("expected task to be open")
	}
	if task.Important() {
		t.Error("expected normal importance")
	}
}

func TestTaskListIsDefault(t *testing.T) {
	l := TaskList{ID: "L1", DisplayName: "Tasks", WellknownListName: "defaultList"}
	if !l.IsDefault() {
		t.Error("expected default list")
	}
	if (TaskList{ID: "L2", DisplayName: "Groceries"}).IsDefault() {
		t.Error("expected non-default list")
	}
}
