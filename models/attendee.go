// eventflow/models/attendee.go

package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Attendee represents a registered event attendee.
type Attendee struct {
	gorm.Model
	Name      string `json:"name" gorm:"not null"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	CheckedIn bool   `json:"checked_in" gorm:"default:false"`
	// CheckInTime заполняется только вместе с CheckedIn: устанавливается при
	// отметке и сбрасывается в NULL при её отмене.
	CheckInTime *time.Time `json:"check_in_time"`
	// BadgeCode - непрозрачный код бейджа (uuid), печатается в QR-коде.
	BadgeCode string `json:"badge_code" gorm:"uniqueIndex"`
}

// NormalizeKey приводит имя или email к виду для сравнения:
// обрезанные пробелы, нижний регистр.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FindDuplicate ищет в списке существующих участников дубликат кандидата.
// Правило: если у кандидата есть email, дубликатом считается только запись
// с тем же непустым email (совпадение имён при разных email дубликатом НЕ
// является). Если email у кандидата нет, сравниваются имена. Возвращает
// найденную запись или nil.
func FindDuplicate(candidate Attendee, existing []Attendee) *Attendee {
	email := NormalizeKey(candidate.Email)
	name := NormalizeKey(candidate.Name)

	for i := range existing {
		if email != "" {
			if other := NormalizeKey(existing[i].Email); other != "" && other == email {
				return &existing[i]
			}
			continue
		}
		if NormalizeKey(existing[i].Name) == name {
			return &existing[i]
		}
	}
	return nil
}
