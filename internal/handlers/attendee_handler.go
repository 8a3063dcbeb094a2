// eventflow/internal/handlers/attendee_handler.go
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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Структуры для входящих данных по УЧАСТНИКАМ ---

type AttendeeInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

// AttendeeStats - счётчики для шапки админки и экрана регистрации.
type AttendeeStats struct {
	Total        int64 `json:"total"`
	CheckedIn    int64 `json:"checkedIn"`
	NotCheckedIn int64 `json:"notCheckedIn"`
}

// --- Обработчики ---

// ListAttendeesHandler возвращает список участников: поиск по имени, email
// и компании, фильтр по отметке, постранично либо целиком (?all=true).
func ListAttendeesHandler(c *gin.Context) {
	var attendees []models.Attendee
	var totalRows int64

	baseQuery := config.DB.Model(&models.Attendee{})

	if searchQuery := c.Query("search"); searchQuery != "" {
		searchPattern := "%" + strings.ToLower(searchQuery) + "%"
		baseQuery = baseQuery.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}

	switch c.Query("filter") {
	case "checked-in":
		baseQuery = baseQuery.Where("checked_in = ?", true)
	case "not-checked-in":
		baseQuery = baseQuery.Where("checked_in = ?", false)
	}

	if c.Query("all") == "true" {
		if err := baseQuery.Order("name asc").Find(&attendees).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список участников"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": attendees})
		return
	}

	if err := baseQuery.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать участников"})
		return
	}

	if err := baseQuery.Scopes(Paginate(c)).Order("name asc").Find(&attendees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список участников"})
		return
	}

	if attendees == nil {
		attendees = make([]models.Attendee, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, attendees, totalRows))
}

// CreateAttendeeHandler добавляет одного участника после проверки на
// дубликат. Дубликат - ожидаемая ситуация, а не сбой: возвращаем 409 и
// найденную запись, чтобы фронтенд показал, с кем именно совпало.
func CreateAttendeeHandler(c *gin.Context) {
	var input AttendeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Имя участника обязательно"})
		return
	}

	attendee := models.Attendee{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Company: strings.TrimSpace(input.Company),
	}
	if attendee.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Имя участника обязательно"})
		return
	}

	var existing []models.Attendee
	if err := config.DB.Find(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось проверить дубликаты: " + err.Error()})
		return
	}

	if dup := models.FindDuplicate(attendee, existing); dup != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Такой участник уже зарегистрирован",
			"duplicate": dup,
		})
		return
	}

	attendee.BadgeCode = uuid.NewString()
	if err := config.DB.Create(&attendee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось добавить участника: " + err.Error()})
		return
	}

	GlobalHub.NotifyChange("attendees", "INSERT", attendee)
	c.JSON(http.StatusCreated, attendee)
}

// ToggleCheckInHandler переключает отметку прихода. CheckInTime живёт
// строго вместе с флагом: ставится при отметке, сбрасывается при отмене.
func ToggleCheckInHandler(c *gin.Context) {
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

	attendee.CheckedIn = !attendee.CheckedIn
	if attendee.CheckedIn {
		now := time.Now()
		attendee.CheckInTime = &now
	} else {
		attendee.CheckInTime = nil
	}

	updates := map[string]interface{}{
		"checked_in":    attendee.CheckedIn,
		"check_in_time": attendee.CheckInTime,
	}
	if err := config.DB.Model(&attendee).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить отметку: " + err.Error()})
		return
	}

	GlobalHub.NotifyChange("attendees", "UPDATE", attendee)
	c.JSON(http.StatusOK, attendee)
}

func DeleteAttendeeHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID участника"})
		return
	}

	if err := config.DB.Delete(&models.Attendee{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить участника: " + err.Error()})
		return
	}

	GlobalHub.NotifyChange("attendees", "DELETE", gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Участник удалён"})
}

func AttendeeStatsHandler(c *gin.Context) {
	var stats AttendeeStats
	if err := config.DB.Model(&models.Attendee{}).Count(&stats.Total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать участников"})
		return
	}
	if err := config.DB.Model(&models.Attendee{}).Where("checked_in = ?", true).Count(&stats.CheckedIn).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать отметившихся"})
		return
	}
	stats.NotCheckedIn = stats.Total - stats.CheckedIn
	c.JSON(http.StatusOK, stats)
}
