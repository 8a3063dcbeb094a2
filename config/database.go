// eventflow/config/database.go
package config

import (
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB - общее подключение к Postgres. Инициализируется один раз при старте.
var DB *gorm.DB

// ConnectDB открывает подключение по строке из DB_URL. База обязательна:
// без неё сервису нечего отдавать, поэтому любая ошибка здесь фатальна.
func ConnectDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		slog.Error("Переменная окружения DB_URL не задана, запуск невозможен.")
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		slog.Error("Не удалось подключиться к Postgres", "error", err)
		os.Exit(1)
	}

	DB = db
	slog.Info("Подключение к Postgres установлено")
}
