// eventflow/internal/handlers/display_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"eventflow/config"
	"eventflow/internal/display"
	"eventflow/models"

	"github.com/gin-gonic/gin"
)

// composer - общее состояние ротации экранов. Живёт в процессе, а не в
// базе: при перезапуске ротация просто начинается с первого кандидата.
var composer = display.NewComposer()

// RotateDisplays сдвигает ротацию всех локаций. Дёргается планировщиком
// раз в display.RotateInterval.
func RotateDisplays() {
	var events []models.Event
	if err := config.DB.Order("cue_order asc, id asc").Find(&events).Error; err != nil {
		slog.Error("display rotation: failed to load events", "error", err)
		return
	}
	composer.Advance(display.Counts(events, time.Now()))
}

// DisplayHandler - публичный снимок экранов: по одному событию на
// локацию плюс заголовок форума. Без авторизации, его опрашивают
// экраны в залах.
func DisplayHandler(c *gin.Context) {
	var events []models.Event
	if err := config.DB.Order("cue_order asc, id asc").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить события"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":    getSettingValue(models.SettingForumName, models.DefaultForumName),
		"displays": composer.Snapshot(events, time.Now()),
	})
}
