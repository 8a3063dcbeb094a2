// eventflow/models/event.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы события. Прямой путь: scheduled -> in_progress -> completed.
// cancelled - терминальный статус, достижимый только вручную.
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// DefaultDurationMinutes используется, когда длительность не задана.
const DefaultDurationMinutes = 30

// Event represents a single rundown item: a talk, a break or an announcement.
type Event struct {
	gorm.Model
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	Presenter   string `json:"presenter"`
	// Location группирует события в независимые "дорожки": авто-переход
	// к следующему событию работает только внутри одной локации.
	Location  string     `json:"location"`
	Notes     string     `json:"notes"`
	Color     string     `json:"color"`
	StartTime *time.Time `json:"start_time"`
	// EndTime пересчитывается как now + Duration при каждом переходе в
	// in_progress и после этого не принадлежит пользователю.
	EndTime  *time.Time `json:"end_time"`
	Duration int        `json:"duration" gorm:"default:30"` // минуты
	Status   string     `json:"status" gorm:"default:'scheduled'"`
	// CueOrder задаёт и порядок отображения, и порядок авто-перехода.
	CueOrder       int  `json:"cue_order"`
	IsAnnouncement bool `json:"is_announcement" gorm:"default:false"`
}

// DurationOrDefault возвращает длительность события, подставляя значение
// по умолчанию для нулевой или отрицательной.
func (e Event) DurationOrDefault() time.Duration {
	if e.Duration <= 0 {
		return DefaultDurationMinutes * time.Minute
	}
	return time.Duration(e.Duration) * time.Minute
}

// IsValidStatus проверяет, что строка является известным статусом.
func IsValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminalStatus - из completed и cancelled переходов нет.
func IsTerminalStatus(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition проверяет ручной переход статуса. Машина состояний
// движется только вперёд: из терминальных статусов выхода нет, вернуть
// событие в scheduled нельзя.
func CanTransition(from, to string) bool {
	if !IsValidStatus(from) || !IsValidStatus(to) {
		return false
	}
	if IsTerminalStatus(from) || to == StatusScheduled {
		return false
	}
	return from != to
}
