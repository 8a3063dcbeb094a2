// eventflow/internal/handlers/csv.go
package handlers

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"time"

	"eventflow/models"
)

// Чистые функции разбора CSV и сверки дубликатов. Вынесены из обработчиков,
// чтобы их можно было тестировать без HTTP и базы.

// headerIndex строит отображение "имя колонки -> номер" по строке
// заголовка. Имена сравниваются без учёта регистра и пробелов,
// незнакомые колонки просто игнорируются.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, taken := idx[key]; !taken {
			idx[key] = i
		}
	}
	return idx
}

func field(record []string, i int) string {
	if i >= 0 && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

// parseAttendeeCSV читает участников из CSV. Заголовок обязан содержать
// колонки name и email (company - опциональна). Строки без имени
// пропускаются.
func parseAttendeeCSV(r io.Reader) ([]models.Attendee, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("файл пуст")
	}

	idx := headerIndex(records[0])
	nameIdx, hasName := idx["name"]
	emailIdx, hasEmail := idx["email"]
	if !hasName || !hasEmail {
		return nil, errors.New(`CSV должен содержать колонки "name" и "email"`)
	}
	companyIdx, hasCompany := idx["company"]

	var attendees []models.Attendee
	for _, record := range records[1:] {
		name := field(record, nameIdx)
		if name == "" {
			continue
		}
		a := models.Attendee{
			Name:  name,
			Email: field(record, emailIdx),
		}
		if hasCompany {
			a.Company = field(record, companyIdx)
		}
		attendees = append(attendees, a)
	}
	return attendees, nil
}

// reconcileAttendees прогоняет кандидатов через проверку дубликатов в
// порядке файла. Принятые строки сразу попадают в пул сравнения, поэтому
// дубликаты внутри одного файла тоже отсекаются.
func reconcileAttendees(existing, candidates []models.Attendee) (accepted []models.Attendee, skipped []string) {
	pool := make([]models.Attendee, len(existing), len(existing)+len(candidates))
	copy(pool, existing)

	for _, candidate := range candidates {
		if dup := models.FindDuplicate(candidate, pool); dup != nil {
			skipped = append(skipped, candidate.Name)
			continue
		}
		accepted = append(accepted, candidate)
		pool = append(pool, candidate)
	}
	return accepted, skipped
}

var eventTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

func parseEventTime(s string) (time.Time, error) {
	for _, layout := range eventTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("неразборчивое время: " + s)
}

// parseEventCSV читает события из CSV. Обязательные колонки: title,
// start_time, end_time; опциональные: description, presenter, location.
// Строки с пустым или неразборчивым обязательным значением пропускаются.
// Длительность выводится из интервала start..end.
func parseEventCSV(r io.Reader) ([]models.Event, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("файл пуст")
	}

	idx := headerIndex(records[0])
	titleIdx, hasTitle := idx["title"]
	startIdx, hasStart := idx["start_time"]
	endIdx, hasEnd := idx["end_time"]
	if !hasTitle || !hasStart || !hasEnd {
		return nil, errors.New(`CSV должен содержать колонки "title", "start_time" и "end_time"`)
	}
	descIdx, hasDesc := idx["description"]
	presenterIdx, hasPresenter := idx["presenter"]
	locationIdx, hasLocation := idx["location"]

	var events []models.Event
	for _, record := range records[1:] {
		title := field(record, titleIdx)
		if title == "" {
			continue
		}
		start, err := parseEventTime(field(record, startIdx))
		if err != nil {
			continue
		}
		end, err := parseEventTime(field(record, endIdx))
		if err != nil {
			continue
		}

		e := models.Event{
			Title:     title,
			StartTime: &start,
			EndTime:   &end,
			Status:    models.StatusScheduled,
			Duration:  models.DefaultDurationMinutes,
		}
		if minutes := int(end.Sub(start).Minutes()); minutes > 0 {
			e.Duration = minutes
		}
		if hasDesc {
			e.Description = field(record, descIdx)
		}
		if hasPresenter {
			e.Presenter = field(record, presenterIdx)
		}
		if hasLocation {
			e.Location = field(record, locationIdx)
		}
		events = append(events, e)
	}
	return events, nil
}

// csvQuote оборачивает значение в кавычки для экспорта; внутренние
// кавычки удваиваются.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
