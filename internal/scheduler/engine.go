// eventflow/internal/scheduler/engine.go

// Package scheduler содержит движок жизненного цикла событий: периодический
// пересмотр статусов по настенным часам и каскадный авто-запуск следующего
// события в той же локации.
package scheduler

import (
	"log/slog"
	"time"

	"eventflow/models"

	"gorm.io/gorm"
)

// Transition - один запланированный переход статуса. EndTime заполняется
// для переходов в in_progress (end = now + duration события).
type Transition struct {
	EventID uint
	From    string
	To      string
	EndTime *time.Time
	// Cascade помечает авто-запуск, вызванный завершением предшественника,
	// а не собственным start_time события.
	Cascade bool
}

// Plan вычисляет переходы для одного тика. Чистая функция: не трогает ни
// базу, ни входной список. Правила:
//  1. scheduled и now >= start_time -> in_progress, end_time = now + duration;
//  2. in_progress и now >= end_time -> completed;
//  3. каскад: если в локации после правил 1-2 ничего не идёт, но есть
//     завершённые события, запускается scheduled-событие с наименьшим
//     cue_order, большим максимального cue_order завершённых.
//
// Каскад пересматривается каждый тик, поэтому неудачный запуск будет
// повторён, пока в локации остаётся подходящий кандидат. cancelled никогда
// не участвует ни как кандидат, ни как препятствие.
func Plan(events []models.Event, now time.Time) []Transition {
	var completes, starts, cascades []Transition

	// Какие события будут идти после правил 1-2, по локациям.
	running := make(map[string]bool)
	// Наибольший cue_order завершённых (включая завершаемые этим тиком).
	maxCompletedCue := make(map[string]int)
	hasCompleted := make(map[string]bool)
	startedNow := make(map[uint]bool)

	markCompleted := func(loc string, cue int) {
		if !hasCompleted[loc] || cue > maxCompletedCue[loc] {
			maxCompletedCue[loc] = cue
		}
		hasCompleted[loc] = true
	}

	for _, e := range events {
		switch e.Status {
		case models.StatusScheduled:
			if e.StartTime != nil && !now.Before(*e.StartTime) {
				end := now.Add(e.DurationOrDefault())
				starts = append(starts, Transition{
					EventID: e.ID,
					From:    models.StatusScheduled,
					To:      models.StatusInProgress,
					EndTime: &end,
				})
				startedNow[e.ID] = true
				running[e.Location] = true
			}
		case models.StatusInProgress:
			if e.EndTime != nil && !now.Before(*e.EndTime) {
				completes = append(completes, Transition{
					EventID: e.ID,
					From:    models.StatusInProgress,
					To:      models.StatusCompleted,
				})
				markCompleted(e.Location, e.CueOrder)
			} else {
				running[e.Location] = true
			}
		case models.StatusCompleted:
			markCompleted(e.Location, e.CueOrder)
		}
	}

	// Каскад: по одному кандидату на локацию за тик.
	cascaded := make(map[string]bool)
	for _, e := range events {
		loc := e.Location
		if e.Status != models.StatusScheduled || startedNow[e.ID] {
			continue
		}
		if running[loc] || cascaded[loc] || !hasCompleted[loc] {
			continue
		}
		if e.CueOrder <= maxCompletedCue[loc] {
			continue
		}
		// events отсортированы по cue_order, поэтому первый подходящий
		// и есть кандидат с наименьшим cue_order.
		end := now.Add(e.DurationOrDefault())
		cascades = append(cascades, Transition{
			EventID: e.ID,
			From:    models.StatusScheduled,
			To:      models.StatusInProgress,
			EndTime: &end,
			Cascade: true,
		})
		cascaded[loc] = true
	}

	// Сначала завершения, затем запуски, затем каскады.
	out := append(completes, starts...)
	return append(out, cascades...)
}

// Notifier получает уведомление после каждой применённой записи.
type Notifier interface {
	NotifyChange(table, kind string, payload interface{})
}

// Engine применяет план к базе. Создаётся один на процесс и дёргается
// планировщиком раз в секунду.
type Engine struct {
	DB       *gorm.DB
	Notifier Notifier
}

func NewEngine(db *gorm.DB, n Notifier) *Engine {
	return &Engine{DB: db, Notifier: n}
}

// Tick загружает все события, планирует переходы и применяет каждый
// отдельным условным UPDATE. Неудачный переход просто пропускается:
// условие по времени останется истинным, и следующий тик повторит попытку.
func (e *Engine) Tick() {
	now := time.Now()

	var events []models.Event
	if err := e.DB.Order("cue_order asc, id asc").Find(&events).Error; err != nil {
		slog.Error("Лайфцикл: не удалось загрузить события", "error", err)
		return
	}

	transitions := Plan(events, now)
	if len(transitions) == 0 {
		return
	}

	// Если завершение не применилось, каскад этой локации откладывается:
	// дорожка в базе всё ещё занята, и условный UPDATE каскада провалится
	// по защите статуса либо просто оставит два идущих события до
	// следующего тика. Защита `status = from` не даёт затереть ручное
	// изменение, пришедшее между чтением и записью.
	for _, tr := range transitions {
		updates := map[string]interface{}{"status": tr.To}
		if tr.EndTime != nil {
			updates["end_time"] = tr.EndTime
		}

		res := e.DB.Model(&models.Event{}).
			Where("id = ? AND status = ?", tr.EventID, tr.From).
			Updates(updates)
		if res.Error != nil {
			slog.Error("Лайфцикл: переход не применился, попробуем в следующем тике",
				"event_id", tr.EventID, "from", tr.From, "to", tr.To, "error", res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			// Статус изменился под нами - переход больше не актуален.
			continue
		}

		slog.Info("Лайфцикл: переход применён",
			"event_id", tr.EventID, "from", tr.From, "to", tr.To, "cascade", tr.Cascade)

		if e.Notifier != nil {
			var updated models.Event
			if err := e.DB.First(&updated, tr.EventID).Error; err == nil {
				e.Notifier.NotifyChange("events", "UPDATE", updated)
			}
		}
	}
}
