// eventflow/main.go
package main

import (
	"log/slog"
	"os"

	"eventflow/config"
	"eventflow/internal/handlers"
	"eventflow/internal/routes"
	"eventflow/internal/scheduler"
	"eventflow/models"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// .env удобен в разработке; в продакшене переменные приходят из
	// окружения и отсутствие файла - норма.
	if err := godotenv.Load(); err == nil {
		slog.Info("Загружен файл .env")
	}

	config.LoadAuth()
	config.ConnectDB()
	config.ConnectRedis()

	if err := config.DB.AutoMigrate(&models.Attendee{}, &models.Event{}, &models.Setting{}); err != nil {
		slog.Error("Ошибка миграции базы данных", "error", err)
		os.Exit(1)
	}

	// Хаб live-обновлений для экранов и админки.
	go handlers.GlobalHub.Run()

	// Движок жизненного цикла: каждую секунду сверяет статусы событий с
	// часами, ротация экранов - каждые десять секунд.
	engine := scheduler.NewEngine(config.DB, handlers.GlobalHub)
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc("* * * * * *", engine.Tick); err != nil {
		slog.Error("Не удалось запланировать тик движка", "error", err)
		os.Exit(1)
	}
	if _, err := c.AddFunc("@every 10s", handlers.RotateDisplays); err != nil {
		slog.Error("Не удалось запланировать ротацию экранов", "error", err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	r := gin.Default()
	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("Сервер запускается", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Сервер остановился с ошибкой", "error", err)
		os.Exit(1)
	}
}
