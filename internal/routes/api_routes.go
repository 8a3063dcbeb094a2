// eventflow/internal/routes/api_routes.go
package routes

import (
	"eventflow/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterPublicAPIRoutes - маршруты без авторизации: экраны в залах,
// стойка регистрации и сканер QR-кодов работают без входа.
func RegisterPublicAPIRoutes(r *gin.Engine) {
	// Экран "сейчас идёт" по локациям.
	r.GET("/api/display", handlers.DisplayHandler)

	// Настройки: чтение публично (заголовок форума нужен экранам).
	r.GET("/api/settings/:key", handlers.GetSettingHandler)

	// Live-обновления для экранов и админки.
	r.GET("/api/ws", handlers.ChangesWSEndpoint)

	// Стойка регистрации.
	r.GET("/api/attendees", handlers.ListAttendeesHandler)
	r.POST("/api/attendees", handlers.CreateAttendeeHandler)
	r.GET("/api/attendees/stats", handlers.AttendeeStatsHandler)
	r.GET("/api/attendees/:id/badge.png", handlers.AttendeeBadgeHandler)
	r.PATCH("/api/attendees/:id/checkin", handlers.ToggleCheckInHandler)
	r.POST("/api/checkin", handlers.ScanCheckInHandler)
}

// RegisterAdminAPIRoutes - маршруты под админским токеном. Группа уже
// смонтирована на /api.
func RegisterAdminAPIRoutes(rg *gin.RouterGroup) {
	// --- События ---
	rg.GET("/events", handlers.ListEventsHandler)
	rg.POST("/events", handlers.CreateEventHandler)
	rg.PUT("/events/:id", handlers.UpdateEventHandler)
	rg.DELETE("/events/:id", handlers.DeleteEventHandler)
	rg.PUT("/events/:id/status", handlers.ChangeEventStatusHandler)
	rg.POST("/events/reorder", handlers.ReorderEventsHandler)
	rg.POST("/events/import", handlers.ImportEventsHandler)
	rg.GET("/events/export", handlers.ExportEventsCSVHandler)
	rg.GET("/events/template", handlers.EventTemplateHandler)

	// --- Участники (административные операции) ---
	rg.DELETE("/attendees/:id", handlers.DeleteAttendeeHandler)
	rg.POST("/attendees/import", handlers.ImportAttendeesHandler)
	rg.GET("/attendees/export", handlers.ExportAttendeesCSVHandler)
	rg.GET("/attendees/export.xlsx", handlers.ExportAttendeesXLSXHandler)
	rg.GET("/attendees/template", handlers.AttendeeTemplateHandler)

	// --- Настройки ---
	rg.PUT("/settings/:key", handlers.UpdateSettingHandler)
}
