// eventflow/internal/handlers/settings_handler.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"eventflow/config"
	"eventflow/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const settingCacheTTL = 10 * time.Minute

func settingCacheKey(key string) string {
	return "setting:" + key
}

// getSettingValue читает настройку через Redis-кэш. Если Redis не
// подключён или ключа там нет, идём в базу и заполняем кэш. Отсутствие
// записи в базе - не ошибка, возвращается значение по умолчанию.
func getSettingValue(key, fallback string) string {
	ctx := context.Background()

	if config.RDB != nil {
		if cached, err := config.RDB.Get(ctx, settingCacheKey(key)).Result(); err == nil {
			return cached
		}
	}

	var setting models.Setting
	if err := config.DB.Where("key = ?", key).First(&setting).Error; err != nil {
		return fallback
	}

	if config.RDB != nil {
		config.RDB.Set(ctx, settingCacheKey(key), setting.Value, settingCacheTTL)
	}
	return setting.Value
}

// GetSettingHandler - публичное чтение настройки по ключу.
func GetSettingHandler(c *gin.Context) {
	key := c.Param("key")

	var setting models.Setting
	if err := config.DB.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if key == models.SettingForumName {
				c.JSON(http.StatusOK, gin.H{"key": key, "value": models.DefaultForumName})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "Настройка не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка чтения настройки: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": setting.Key, "value": setting.Value})
}

// UpdateSettingHandler - запись настройки (upsert по ключу). Сбрасывает
// кэш и оповещает подписчиков, чтобы экраны подхватили новый заголовок.
func UpdateSettingHandler(c *gin.Context) {
	key := c.Param("key")

	var input struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
		return
	}

	setting := models.Setting{Key: key, Value: input.Value}
	err := config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить настройку: " + err.Error()})
		return
	}

	if config.RDB != nil {
		config.RDB.Del(context.Background(), settingCacheKey(key))
	}

	GlobalHub.NotifyChange("settings", "UPDATE", gin.H{"key": key, "value": input.Value})
	c.JSON(http.StatusOK, gin.H{"key": key, "value": input.Value})
}
