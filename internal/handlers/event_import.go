// eventflow/internal/handlers/event_import.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"eventflow/config"
	"eventflow/models"

	"github.com/gin-gonic/gin"
)

// ImportEventsHandler - массовый импорт событий из CSV-файла.
// Импортированные события встают в конец раскадровки в порядке файла.
func ImportEventsHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV-файл не передан"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не удалось открыть файл: " + err.Error()})
		return
	}
	defer file.Close()

	events, err := parseEventCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(events) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "В файле нет ни одной пригодной строки"})
		return
	}

	var maxCue int
	config.DB.Model(&models.Event{}).Select("COALESCE(MAX(cue_order), 0)").Scan(&maxCue)
	for i := range events {
		maxCue++
		events[i].CueOrder = maxCue
	}

	if err := config.DB.Create(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить события: " + err.Error()})
		return
	}

	GlobalHub.NotifyChange("events", "INSERT", gin.H{"imported": len(events)})
	c.JSON(http.StatusOK, gin.H{"imported": len(events)})
}

// ExportEventsCSVHandler выгружает раскадровку в CSV в том же формате,
// который принимает импорт.
func ExportEventsCSVHandler(c *gin.Context) {
	var events []models.Event
	if err := config.DB.Order("cue_order asc, id asc").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить события: " + err.Error()})
		return
	}

	var sb strings.Builder
	sb.WriteString("title,description,presenter,location,start_time,end_time,status\n")
	for _, e := range events {
		start := ""
		if e.StartTime != nil {
			start = e.StartTime.Format(exportTimeFormat)
		}
		end := ""
		if e.EndTime != nil {
			end = e.EndTime.Format(exportTimeFormat)
		}
		row := []string{
			csvQuote(e.Title),
			csvQuote(e.Description),
			csvQuote(e.Presenter),
			csvQuote(e.Location),
			csvQuote(start),
			csvQuote(end),
			csvQuote(e.Status),
		}
		sb.WriteString(strings.Join(row, ","))
		sb.WriteByte('\n')
	}

	fileName := fmt.Sprintf("events_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(sb.String()))
}

// EventTemplateHandler отдаёт шаблон CSV для импорта событий.
func EventTemplateHandler(c *gin.Context) {
	template := "title,description,presenter,location,start_time,end_time\n" +
		"Opening Keynote,Welcome and plans,Jane Smith,Main Hall,2026-09-01 09:00,2026-09-01 09:45\n" +
		"Coffee Break,,,Lobby,2026-09-01 09:45,2026-09-01 10:15\n"
	c.Header("Content-Disposition", "attachment; filename=events_template.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(template))
}
