package display

import (
	"testing"
	"time"

	"eventflow/models"

	"gorm.io/gorm"
)

var baseTime = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func visibleEvent(id uint, location, status string, cue int, start, end *time.Time) models.Event {
	return models.Event{
		Model:     gorm.Model{ID: id},
		Title:     "event",
		Location:  location,
		Status:    status,
		CueOrder:  cue,
		StartTime: start,
		EndTime:   end,
		Duration:  30,
	}
}

func TestVisibleWindow(t *testing.T) {
	now := baseTime
	events := []models.Event{
		// Идущее видно всегда.
		visibleEvent(1, "Main Hall", models.StatusInProgress, 1, nil, ptr(now.Add(20*time.Minute))),
		// Начало через 10 минут - внутри окна.
		visibleEvent(2, "Main Hall", models.StatusScheduled, 2, ptr(now.Add(10*time.Minute)), nil),
		// Начало через 20 минут - за окном.
		visibleEvent(3, "Main Hall", models.StatusScheduled, 3, ptr(now.Add(20*time.Minute)), nil),
		// Завершённое не показывается.
		visibleEvent(4, "Main Hall", models.StatusCompleted, 4, nil, nil),
		// Запланированное без start_time не показывается.
		visibleEvent(5, "Main Hall", models.StatusScheduled, 5, nil, nil),
	}

	byLocation := Visible(events, now)
	list := byLocation["Main Hall"]
	if len(list) != 2 {
		t.Fatalf("expected 2 visible events, got %d", len(list))
	}
	if list[0].ID != 1 || list[1].ID != 2 {
		t.Errorf("visible list should be events 1 and 2 by cue_order, got %d and %d", list[0].ID, list[1].ID)
	}
}

func TestVisibleGroupsEmptyLocationUnderPlaceholder(t *testing.T) {
	now := baseTime
	events := []models.Event{
		visibleEvent(1, "", models.StatusInProgress, 1, nil, ptr(now.Add(20*time.Minute))),
		visibleEvent(2, "Main Hall", models.StatusInProgress, 2, nil, ptr(now.Add(20*time.Minute))),
	}

	byLocation := Visible(events, now)
	if _, ok := byLocation[""]; ok {
		t.Fatal("empty location must not appear as a group key")
	}
	if len(byLocation[NoLocationLabel]) != 1 || byLocation[NoLocationLabel][0].ID != 1 {
		t.Fatalf("event without location should live under %q, got %+v", NoLocationLabel, byLocation)
	}

	c := NewComposer()
	entries := c.Snapshot(events, now)
	for _, entry := range entries {
		if entry.Location == "" {
			t.Errorf("snapshot entry with empty location: %+v", entry)
		}
	}
}

func TestComposerRotation(t *testing.T) {
	now := baseTime
	events := []models.Event{
		visibleEvent(1, "Main Hall", models.StatusInProgress, 1, nil, ptr(now.Add(20*time.Minute))),
		visibleEvent(2, "Main Hall", models.StatusScheduled, 2, ptr(now.Add(5*time.Minute)), nil),
	}

	c := NewComposer()
	counts := Counts(events, now)

	want := []uint{1, 2, 1, 2}
	for i, expected := range want {
		if i > 0 {
			c.Advance(counts)
		}
		entries := c.Snapshot(events, now)
		if len(entries) != 1 {
			t.Fatalf("step %d: expected one entry, got %d", i, len(entries))
		}
		if entries[0].Event.ID != expected {
			t.Errorf("step %d: expected event %d, got %d", i, expected, entries[0].Event.ID)
		}
		if entries[0].Total != 2 {
			t.Errorf("step %d: total should be 2, got %d", i, entries[0].Total)
		}
	}
}

func TestComposerSingleCandidateStays(t *testing.T) {
	now := baseTime
	events := []models.Event{
		visibleEvent(1, "Main Hall", models.StatusInProgress, 1, nil, ptr(now.Add(20*time.Minute))),
	}

	c := NewComposer()
	for i := 0; i < 3; i++ {
		c.Advance(Counts(events, now))
		entries := c.Snapshot(events, now)
		if entries[0].Position != 0 {
			t.Fatalf("single candidate must stay at position 0, got %d", entries[0].Position)
		}
	}
}

func TestComposerClampsWhenListShrinks(t *testing.T) {
	now := baseTime
	full := []models.Event{
		visibleEvent(1, "Main Hall", models.StatusInProgress, 1, nil, ptr(now.Add(20*time.Minute))),
		visibleEvent(2, "Main Hall", models.StatusScheduled, 2, ptr(now.Add(5*time.Minute)), nil),
	}

	c := NewComposer()
	c.Advance(Counts(full, now)) // индекс 1

	// Второе событие пропало с экрана; индекс 1 больше не существует.
	shrunk := full[:1]
	entries := c.Snapshot(shrunk, now)
	if len(entries) != 1 || entries[0].Event.ID != 1 || entries[0].Position != 0 {
		t.Fatalf("index should clamp to 0 after shrink, got %+v", entries)
	}
}

func TestCountdownTexts(t *testing.T) {
	now := baseTime
	cases := []struct {
		name  string
		event models.Event
		want  string
	}{
		{
			name:  "in progress remaining",
			event: visibleEvent(1, "A", models.StatusInProgress, 1, nil, ptr(now.Add(2*time.Minute+30*time.Second))),
			want:  "2m 30s",
		},
		{
			name:  "in progress with hours",
			event: visibleEvent(2, "A", models.StatusInProgress, 1, nil, ptr(now.Add(time.Hour+5*time.Minute+12*time.Second))),
			want:  "1h 5m 12s",
		},
		{
			name:  "overtime counts up",
			event: visibleEvent(3, "A", models.StatusInProgress, 1, nil, ptr(now.Add(-5*time.Second))),
			want:  "+0m 5s",
		},
		{
			name:  "scheduled in the future",
			event: visibleEvent(4, "A", models.StatusScheduled, 1, ptr(now.Add(10*time.Minute)), nil),
			want:  "Starts in 10m 0s",
		},
		{
			name:  "scheduled start already passed",
			event: visibleEvent(5, "A", models.StatusScheduled, 1, ptr(now.Add(-time.Minute)), nil),
			want:  "Event not started yet",
		},
		{
			name:  "completed",
			event: visibleEvent(6, "A", models.StatusCompleted, 1, nil, nil),
			want:  "Event has ended",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Countdown(tc.event, now); got != tc.want {
				t.Errorf("Countdown() = %q, want %q", got, tc.want)
			}
		})
	}
}
