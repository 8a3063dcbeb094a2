// eventflow/internal/handlers/checkin_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventflow/config"
	"eventflow/models"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// scanKeys готовит отсканированную строку к поиску: сканеры часто
// дописывают перевод строки или пробелы, поэтому код бейджа сравнивается
// после обрезки, а email и имя - ещё и без учёта регистра.
func scanKeys(raw string) (code, normalized string) {
	code = strings.TrimSpace(raw)
	return code, models.NormalizeKey(code)
}

// ScanCheckInHandler отмечает участника по отсканированному QR-коду.
// Код сопоставляется в порядке убывания надёжности: код бейджа, затем
// email, затем имя (без учёта регистра). Повторное сканирование уже
// отмеченного участника - не ошибка, фронтенд показывает предупреждение.
func ScanCheckInHandler(c *gin.Context) {
	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Код не передан"})
		return
	}

	code, normalized := scanKeys(input.Code)

	var attendee models.Attendee
	err := config.DB.
		Where("badge_code = ? OR LOWER(email) = ? OR LOWER(name) = ?", code, normalized, normalized).
		First(&attendee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Участник не найден. Отсканировано: " + code})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка поиска участника: " + err.Error()})
		return
	}

	if attendee.CheckedIn {
		c.JSON(http.StatusOK, gin.H{"alreadyCheckedIn": true, "attendee": attendee})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"checked_in": true, "check_in_time": &now}
	if err := config.DB.Model(&attendee).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось отметить участника: " + err.Error()})
		return
	}
	attendee.CheckedIn = true
	attendee.CheckInTime = &now

	GlobalHub.NotifyChange("attendees", "UPDATE", attendee)
	c.JSON(http.StatusOK, gin.H{"checkedIn": true, "attendee": attendee})
}

// AttendeeBadgeHandler рисует QR-код бейджа участника (PNG).
func AttendeeBadgeHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID участника"})
		return
	}

	var attendee models.Attendee
	if err := config.DB.First(&attendee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Участник не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения участника: " + err.Error()})
		return
	}

	png, err := qrcode.Encode(attendee.BadgeCode, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка генерации QR-кода"})
		return
	}

	c.Header("Content-Disposition", "inline; filename=badge_"+strconv.FormatUint(id, 10)+".png")
	c.Data(http.StatusOK, "image/png", png)
}
