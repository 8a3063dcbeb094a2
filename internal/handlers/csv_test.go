package handlers

import (
	"strings"
	"testing"

	"eventflow/models"
)

func TestParseAttendeeCSVHeaderCaseInsensitive(t *testing.T) {
	csvData := "NAME,Email,COMPANY\nJohn Doe,john@example.com,ABC Corp\n"
	attendees, err := parseAttendeeCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attendees) != 1 {
		t.Fatalf("expected 1 attendee, got %d", len(attendees))
	}
	a := attendees[0]
	if a.Name != "John Doe" || a.Email != "john@example.com" || a.Company != "ABC Corp" {
		t.Errorf("unexpected attendee: %+v", a)
	}
}

func TestParseAttendeeCSVRequiresHeaders(t *testing.T) {
	csvData := "fullname,mail\nJohn,j@x.com\n"
	if _, err := parseAttendeeCSV(strings.NewReader(csvData)); err == nil {
		t.Fatal("expected error for missing name/email headers")
	}
}

func TestParseAttendeeCSVSkipsNamelessRows(t *testing.T) {
	csvData := "name,email\nJohn,j@x.com\n,orphan@x.com\nJane,jane@x.com\n"
	attendees, err := parseAttendeeCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attendees) != 2 {
		t.Fatalf("expected 2 attendees, got %d", len(attendees))
	}
}

func TestReconcileAttendeesBatch(t *testing.T) {
	existing := []models.Attendee{
		{Name: "Old Timer", Email: "old@example.com"},
	}
	candidates := []models.Attendee{
		{Name: "Row One", Email: "one@example.com"},
		{Name: "Dup Of One", Email: "one@example.com"}, // дубликат внутри файла
		{Name: "Row Three", Email: "three@example.com"},
		{Name: "Old Timer Clone", Email: "old@example.com"}, // дубликат базы
	}

	accepted, skipped := reconcileAttendees(existing, candidates)
	if len(accepted) != 2 {
		t.Fatalf("expected 2 accepted, got %d: %+v", len(accepted), accepted)
	}
	if accepted[0].Name != "Row One" || accepted[1].Name != "Row Three" {
		t.Errorf("accepted rows out of order: %+v", accepted)
	}
	if len(skipped) != 2 || skipped[0] != "Dup Of One" || skipped[1] != "Old Timer Clone" {
		t.Errorf("unexpected skipped list: %v", skipped)
	}
}

func TestParseEventCSV(t *testing.T) {
	csvData := "title,description,presenter,location,start_time,end_time\n" +
		"Keynote,Opening,Jane,Main Hall,2026-09-01 09:00,2026-09-01 09:45\n" +
		",missing title,,,2026-09-01 10:00,2026-09-01 10:30\n" +
		"Bad Time,,,Main Hall,not-a-time,2026-09-01 11:00\n"

	events, err := parseEventCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Title != "Keynote" || e.Location != "Main Hall" || e.Presenter != "Jane" {
		t.Errorf("unexpected event: %+v", e)
	}
	if e.Duration != 45 {
		t.Errorf("duration should come from the interval, got %d", e.Duration)
	}
	if e.Status != models.StatusScheduled {
		t.Errorf("imported events must be scheduled, got %q", e.Status)
	}
}

func TestParseEventCSVRequiresHeaders(t *testing.T) {
	csvData := "title,begins\nKeynote,2026-09-01 09:00\n"
	if _, err := parseEventCSV(strings.NewReader(csvData)); err == nil {
		t.Fatal("expected error for missing start_time/end_time headers")
	}
}

func TestCSVQuote(t *testing.T) {
	if got := csvQuote(`say "hi", ok`); got != `"say ""hi"", ok"` {
		t.Errorf("csvQuote() = %s", got)
	}
}
