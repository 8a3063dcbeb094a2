// eventflow/internal/display/composer.go

// Package display решает, что показывает публичный экран каждой локации:
// отбор видимых событий, ротация между несколькими кандидатами и текст
// обратного отсчёта.
package display

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"eventflow/models"
)

// LookaheadWindow - запланированное событие видно на экране за 15 минут
// до начала.
const LookaheadWindow = 15 * time.Minute

// RotateInterval - период смены события на экране, когда кандидатов
// несколько.
const RotateInterval = 10 * time.Second

// Тексты отсчёта для краевых состояний.
const (
	msgEnded      = "Event has ended"
	msgNotStarted = "Event not started yet"
)

// NoLocationLabel - подпись экрана для событий без локации.
const NoLocationLabel = "No Location"

// Visible отбирает события, подходящие для экрана: идущие сейчас либо
// запланированные с началом внутри окна ожидания. Возвращает события по
// локациям, внутри локации - по cue_order. События без локации
// собираются под NoLocationLabel.
func Visible(events []models.Event, now time.Time) map[string][]models.Event {
	byLocation := make(map[string][]models.Event)
	add := func(e models.Event) {
		loc := e.Location
		if loc == "" {
			loc = NoLocationLabel
		}
		byLocation[loc] = append(byLocation[loc], e)
	}
	for _, e := range events {
		switch e.Status {
		case models.StatusInProgress:
			add(e)
		case models.StatusScheduled:
			if e.StartTime == nil {
				continue
			}
			if e.StartTime.Before(now) || e.StartTime.After(now.Add(LookaheadWindow)) {
				continue
			}
			add(e)
		}
	}
	for loc := range byLocation {
		list := byLocation[loc]
		sort.SliceStable(list, func(i, j int) bool { return list[i].CueOrder < list[j].CueOrder })
	}
	return byLocation
}

// Entry - то, что сейчас показывает экран одной локации.
type Entry struct {
	Location  string       `json:"location"`
	Event     models.Event `json:"event"`
	Countdown string       `json:"countdown"`
	Position  int          `json:"position"`
	Total     int          `json:"total"`
}

// Composer хранит индексы ротации по локациям. Индекс переживает тики,
// пока список кандидатов не меняет длину; при сжатии списка индекс
// прижимается к границе.
type Composer struct {
	mu      sync.Mutex
	indices map[string]int
}

func NewComposer() *Composer {
	return &Composer{indices: make(map[string]int)}
}

// Advance сдвигает индекс ротации каждой локации, где кандидатов больше
// одного: index = (index + 1) mod count. Вызывается раз в RotateInterval.
func (c *Composer) Advance(counts map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for loc, count := range counts {
		if count > 1 {
			c.indices[loc] = (c.indices[loc] + 1) % count
		} else {
			c.indices[loc] = 0
		}
	}
	// Локации, пропавшие с экрана, забываем.
	for loc := range c.indices {
		if _, ok := counts[loc]; !ok {
			delete(c.indices, loc)
		}
	}
}

// Snapshot выбирает по одному событию на локацию из видимых. Индекс вне
// диапазона (список сжался между тиками) прижимается к нулю.
func (c *Composer) Snapshot(events []models.Event, now time.Time) []Entry {
	byLocation := Visible(events, now)

	locations := make([]string, 0, len(byLocation))
	for loc := range byLocation {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]Entry, 0, len(locations))
	for _, loc := range locations {
		list := byLocation[loc]
		idx := c.indices[loc]
		if idx >= len(list) {
			idx = 0
			c.indices[loc] = 0
		}
		e := list[idx]
		entries = append(entries, Entry{
			Location:  loc,
			Event:     e,
			Countdown: Countdown(e, now),
			Position:  idx,
			Total:     len(list),
		})
	}
	return entries
}

// Counts возвращает число видимых кандидатов по локациям - вход для Advance.
func Counts(events []models.Event, now time.Time) map[string]int {
	byLocation := Visible(events, now)
	counts := make(map[string]int, len(byLocation))
	for loc, list := range byLocation {
		counts[loc] = len(list)
	}
	return counts
}

// Countdown - чистая функция текста отсчёта.
//   - completed: фиксированное сообщение о завершении;
//   - in_progress: остаток до end_time, при перерасходе счёт вверх с "+";
//   - scheduled: "Starts in ...", а для уже наступившего start_time -
//     заглушка на случай рассинхронизации часов с движком.
func Countdown(e models.Event, now time.Time) string {
	switch e.Status {
	case models.StatusCompleted:
		return msgEnded
	case models.StatusInProgress:
		if e.EndTime == nil {
			return ""
		}
		remaining := e.EndTime.Sub(now)
		if remaining < 0 {
			return "+" + formatClock(-remaining)
		}
		return formatClock(remaining)
	case models.StatusScheduled:
		if e.StartTime == nil {
			return ""
		}
		remaining := e.StartTime.Sub(now)
		if remaining <= 0 {
			return msgNotStarted
		}
		return "Starts in " + formatClock(remaining)
	}
	return ""
}

// formatClock печатает длительность как "1h 5m 12s", опуская нулевые часы.
func formatClock(d time.Duration) string {
	total := int(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
