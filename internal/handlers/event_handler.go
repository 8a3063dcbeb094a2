// eventflow/internal/handlers/event_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventflow/config"
	"eventflow/internal/display"
	"eventflow/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- Структуры для входящих данных и ответов по СОБЫТИЯМ ---

type EventInput struct {
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	Presenter      string     `json:"presenter"`
	Location       string     `json:"location"`
	Notes          string     `json:"notes"`
	Color          string     `json:"color"`
	StartTime      *time.Time `json:"start_time"`
	Duration       int        `json:"duration"`
	IsAnnouncement bool       `json:"is_announcement"`
}

// EventResponse дополняет событие текстом отсчёта, который считает сервер:
// так все экраны показывают одно и то же независимо от своих часов.
type EventResponse struct {
	models.Event
	Countdown string `json:"countdown"`
}

// --- Обработчики ---

// ListEventsHandler возвращает раскадровку: события по возрастанию
// cue_order, с поиском и фильтрами по статусу и локации.
func ListEventsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Event{})

	if searchQuery := c.Query("search"); searchQuery != "" {
		searchPattern := "%" + strings.ToLower(searchQuery) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(presenter) LIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}
	if status := c.Query("status"); status != "" && models.IsValidStatus(status) {
		query = query.Where("status = ?", status)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location = ?", location)
	}

	var events []models.Event
	if err := query.Order("cue_order asc, id asc").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список событий"})
		return
	}

	now := time.Now()
	response := make([]EventResponse, 0, len(events))
	for _, e := range events {
		response = append(response, EventResponse{Event: e, Countdown: display.Countdown(e, now)})
	}
	c.JSON(http.StatusOK, gin.H{"data": response})
}

// CreateEventHandler создаёт событие в статусе scheduled. end_time
// выводится из start_time и длительности, cue_order получает следующий
// свободный номер в конце раскадровки.
func CreateEventHandler(c *gin.Context) {
	var input EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Название события обязательно"})
		return
	}

	event := models.Event{
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		Presenter:      input.Presenter,
		Location:       input.Location,
		Notes:          input.Notes,
		Color:          input.Color,
		StartTime:      input.StartTime,
		Duration:       input.Duration,
		Status:         models.StatusScheduled,
		IsAnnouncement: input.IsAnnouncement,
	}
	if event.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Название события обязательно"})
		return
	}
	if event.Duration <= 0 {
		event.Duration = models.DefaultDurationMinutes
	}
	if event.StartTime != nil {
		end := event.StartTime.Add(event.DurationOrDefault())
		event.EndTime = &end
	}

	var maxCue int
	config.DB.Model(&models.Event{}).Select("COALESCE(MAX(cue_order), 0)").Scan(&maxCue)
	event.CueOrder = maxCue + 1

	if err := config.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать событие: " + err.Error()})
		return
	}

	GlobalHub.NotifyChange("events", "INSERT", event)
	c.JSON(http.StatusCreated, event)
}

func UpdateEventHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID события"})
		return
	}

	var event models.Event
	if err := config.DB.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Событие не найдено"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения события: " + err.Error()})
		return
	}

	var input EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Название события обязательно"})
		return
	}

	event.Title = strings.TrimSpace(input.Title)
	event.Description = input.Description
	event.Presenter = input.Presenter
	event.Location = input.Location
	event.Notes = input.Notes
	event.Color = input.Color
	event.IsAnnouncement = input.IsAnnouncement
	if input.Duration > 0 {
		event.Duration = input.Duration
	}
	if input.StartTime != nil {
		event.StartTime = input.StartTime
	}
	// Для ещё не начатого события end_time следует за start_time и
	// длительностью. У идущего события end_time принадлежит движку.
	if event.Status == models.StatusScheduled && event.StartTime != nil {
		end := event.StartTime.Add(event.DurationOrDefault())
		event.EndTime = &end
	}

	if err := config.DB.Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить событие: " + err.Error()})
		return
	}

	GlobalHub.NotifyChange("events", "UPDATE", event)
	c.JSON(http.StatusOK, event)
}

func DeleteEventHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID события"})
		return
	}

	if err := config.DB.Delete(&models.Event{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить событие: " + err.Error()})
		return
	}

	GlobalHub.NotifyChange("events", "DELETE", gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Событие удалено"})
}

// ChangeEventStatusHandler - ручные Start/Stop/Cancel. Выполняет те же
// пересчёты, что и движок: запуск ставит end_time = now + duration,
// завершение запускает следующее scheduled-событие той же локации.
func ChangeEventStatusHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID события"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !models.IsValidStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неизвестный статус"})
		return
	}

	var event models.Event
	if err := config.DB.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Событие не найдено"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения события: " + err.Error()})
		return
	}

	if models.IsTerminalStatus(event.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Событие уже завершено, статус менять нельзя"})
		return
	}
	if input.Status == event.Status {
		c.JSON(http.StatusOK, event)
		return
	}
	if !models.CanTransition(event.Status, input.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Недопустимый переход статуса"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"status": input.Status}
	if input.Status == models.StatusInProgress {
		end := now.Add(event.DurationOrDefault())
		updates["end_time"] = &end
		event.EndTime = &end
	}

	// Защита по старому статусу: если движок успел изменить событие
	// между чтением и записью, ручное изменение не затирает его молча.
	res := config.DB.Model(&models.Event{}).
		Where("id = ? AND status = ?", event.ID, event.Status).
		Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось изменить статус: " + res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Статус события изменился, обновите список"})
		return
	}
	event.Status = input.Status

	// Ручное завершение запускает следующий номер раскадровки так же,
	// как и авто-завершение.
	if input.Status == models.StatusCompleted {
		startNextAtLocation(event, now)
	}

	GlobalHub.NotifyChange("events", "UPDATE", event)
	c.JSON(http.StatusOK, event)
}

// startNextAtLocation находит scheduled-событие той же локации с
// наименьшим cue_order, большим чем у завершённого, и запускает его.
// cue_order берётся из базы на момент вызова, а не из кэша.
func startNextAtLocation(completed models.Event, now time.Time) {
	var next models.Event
	err := config.DB.
		Where("location = ? AND status = ? AND cue_order > ?",
			completed.Location, models.StatusScheduled, completed.CueOrder).
		Order("cue_order asc, id asc").
		First(&next).Error
	if err != nil {
		return // кандидата нет - дорожка закончилась
	}

	end := now.Add(next.DurationOrDefault())
	res := config.DB.Model(&models.Event{}).
		Where("id = ? AND status = ?", next.ID, models.StatusScheduled).
		Updates(map[string]interface{}{"status": models.StatusInProgress, "end_time": &end})
	if res.Error != nil || res.RowsAffected == 0 {
		// Движок доберёт каскад на следующем тике.
		return
	}

	next.Status = models.StatusInProgress
	next.EndTime = &end
	GlobalHub.NotifyChange("events", "UPDATE", next)
}

// ReorderEventsHandler применяет новую раскадровку одной транзакцией.
type reorderItem struct {
	ID       uint `json:"id"`
	CueOrder int  `json:"cue_order"`
}

func ReorderEventsHandler(c *gin.Context) {
	var input []reorderItem
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных: " + err.Error()})
		return
	}
	if len(input) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Нечего переупорядочивать"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range input {
			result := tx.Model(&models.Event{}).Where("id = ?", item.ID).Update("cue_order", item.CueOrder)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errors.New("событие " + strconv.FormatUint(uint64(item.ID), 10) + " не найдено")
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить порядок: " + err.Error()})
		return
	}

	GlobalHub.NotifyChange("events", "UPDATE", gin.H{"reordered": len(input)})
	c.JSON(http.StatusOK, gin.H{"message": "Порядок обновлён"})
}
