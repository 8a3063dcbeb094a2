package scheduler

import (
	"testing"
	"time"

	"eventflow/models"

	"gorm.io/gorm"
)

func ts(t *testing.T, s string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return &parsed
}

func event(id uint, location, status string, cue int, start, end *time.Time) models.Event {
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

func findTransition(trs []Transition, id uint) *Transition {
	for i := range trs {
		if trs[i].EventID == id {
			return &trs[i]
		}
	}
	return nil
}

func TestPlanAutoStart(t *testing.T) {
	now := *ts(t, "2026-09-01 10:00:00")
	events := []models.Event{
		event(1, "Main Hall", models.StatusScheduled, 1, ts(t, "2026-09-01 10:00:00"), nil),
		event(2, "Main Hall", models.StatusScheduled, 2, ts(t, "2026-09-01 11:00:00"), nil),
	}

	trs := Plan(events, now)
	if len(trs) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(trs))
	}
	tr := trs[0]
	if tr.EventID != 1 || tr.To != models.StatusInProgress {
		t.Fatalf("unexpected transition: %+v", tr)
	}
	if tr.EndTime == nil || !tr.EndTime.Equal(now.Add(30*time.Minute)) {
		t.Errorf("end_time should be now + duration, got %v", tr.EndTime)
	}
}

func TestPlanAutoCompleteAndCascade(t *testing.T) {
	now := *ts(t, "2026-09-01 10:30:00")
	events := []models.Event{
		event(1, "Main Hall", models.StatusInProgress, 1, ts(t, "2026-09-01 10:00:00"), ts(t, "2026-09-01 10:30:00")),
		event(2, "Main Hall", models.StatusScheduled, 2, nil, nil),
	}

	trs := Plan(events, now)
	if len(trs) != 2 {
		t.Fatalf("expected complete + cascade, got %d transitions: %+v", len(trs), trs)
	}
	if trs[0].EventID != 1 || trs[0].To != models.StatusCompleted {
		t.Fatalf("first transition should complete event 1: %+v", trs[0])
	}
	if trs[1].EventID != 2 || trs[1].To != models.StatusInProgress || !trs[1].Cascade {
		t.Fatalf("second transition should cascade-start event 2: %+v", trs[1])
	}
}

func TestPlanCascadePicksSmallestGreaterCue(t *testing.T) {
	now := *ts(t, "2026-09-01 12:00:00")
	// Событие с cue_order 1 завершено раньше; 2 и 4 ждут без start_time.
	// События отсортированы по cue_order, как их загружает Tick.
	events := []models.Event{
		event(1, "Main Hall", models.StatusCompleted, 1, nil, nil),
		event(2, "Main Hall", models.StatusScheduled, 2, nil, nil),
		event(4, "Main Hall", models.StatusScheduled, 4, nil, nil),
	}

	trs := Plan(events, now)
	if len(trs) != 1 {
		t.Fatalf("expected exactly one cascade, got %+v", trs)
	}
	if trs[0].EventID != 2 {
		t.Errorf("cascade should pick cue 2, picked event %d", trs[0].EventID)
	}
}

func TestPlanCascadeSkipsEarlierCue(t *testing.T) {
	now := *ts(t, "2026-09-01 12:00:00")
	// Кандидат с cue_order меньше завершённого не запускается: дорожка
	// движется только вперёд.
	events := []models.Event{
		event(1, "Main Hall", models.StatusScheduled, 1, nil, nil),
		event(2, "Main Hall", models.StatusCompleted, 2, nil, nil),
	}

	if trs := Plan(events, now); len(trs) != 0 {
		t.Fatalf("expected no transitions, got %+v", trs)
	}
}

func TestPlanOccupiedLaneBlocksCascade(t *testing.T) {
	now := *ts(t, "2026-09-01 12:00:00")
	events := []models.Event{
		event(1, "Main Hall", models.StatusCompleted, 1, nil, nil),
		event(2, "Main Hall", models.StatusInProgress, 2, nil, ts(t, "2026-09-01 13:00:00")),
		event(3, "Main Hall", models.StatusScheduled, 3, nil, nil),
	}

	if trs := Plan(events, now); len(trs) != 0 {
		t.Fatalf("running event should block cascade, got %+v", trs)
	}
}

func TestPlanCancelledNeverParticipates(t *testing.T) {
	now := *ts(t, "2026-09-01 12:00:00")
	// cancelled не запускается сам и не даёт истории завершений.
	events := []models.Event{
		event(1, "Main Hall", models.StatusCancelled, 1, ts(t, "2026-09-01 10:00:00"), nil),
		event(2, "Main Hall", models.StatusScheduled, 2, nil, nil),
	}

	if trs := Plan(events, now); len(trs) != 0 {
		t.Fatalf("cancelled must not start cascades, got %+v", trs)
	}
}

func TestPlanLocationsIndependent(t *testing.T) {
	now := *ts(t, "2026-09-01 10:30:00")
	// Завершение в Main Hall не трогает дорожку Room B.
	events := []models.Event{
		event(1, "Main Hall", models.StatusInProgress, 1, nil, ts(t, "2026-09-01 10:30:00")),
		event(2, "Main Hall", models.StatusScheduled, 2, nil, nil),
		event(3, "Room B", models.StatusScheduled, 3, nil, nil),
	}

	trs := Plan(events, now)
	if tr := findTransition(trs, 3); tr != nil {
		t.Fatalf("Room B event must stay untouched: %+v", tr)
	}
	if tr := findTransition(trs, 2); tr == nil || !tr.Cascade {
		t.Fatalf("Main Hall cascade missing: %+v", trs)
	}
}

func TestPlanIdempotentWhenNothingDue(t *testing.T) {
	now := *ts(t, "2026-09-01 09:00:00")
	events := []models.Event{
		event(1, "Main Hall", models.StatusScheduled, 1, ts(t, "2026-09-01 10:00:00"), nil),
		event(2, "Main Hall", models.StatusInProgress, 2, nil, ts(t, "2026-09-01 09:30:00")),
	}

	if trs := Plan(events, now); len(trs) != 0 {
		t.Fatalf("expected no transitions before any deadline, got %+v", trs)
	}
}

func TestPlanCascadeRetriesEachTick(t *testing.T) {
	// Если каскад в прошлый тик не применился, состояние базы не
	// изменилось и следующий Plan предложит его снова.
	now := *ts(t, "2026-09-01 12:00:00")
	events := []models.Event{
		event(1, "Main Hall", models.StatusCompleted, 1, nil, nil),
		event(2, "Main Hall", models.StatusScheduled, 2, nil, nil),
	}

	first := Plan(events, now)
	second := Plan(events, now.Add(time.Second))
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("cascade should be re-planned every tick: %+v / %+v", first, second)
	}
	if first[0].EventID != second[0].EventID {
		t.Errorf("retry should target the same candidate")
	}
}

func TestPlanStartWithoutStartTimeStaysPut(t *testing.T) {
	now := *ts(t, "2026-09-01 12:00:00")
	// Без start_time и без завершённых предшественников событие ждёт
	// ручного запуска.
	events := []models.Event{
		event(1, "Main Hall", models.StatusScheduled, 1, nil, nil),
	}

	if trs := Plan(events, now); len(trs) != 0 {
		t.Fatalf("expected no transitions, got %+v", trs)
	}
}
