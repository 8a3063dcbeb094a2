// eventflow/internal/routes/router.go
package routes

import (
	"eventflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes инициализирует все маршруты приложения.
func SetupRoutes(r *gin.Engine) {
	// --- Публичные маршруты ---
	// Вход администратора, публичные API экранов и стойки регистрации.
	RegisterAuthRoutes(r)
	RegisterPublicAPIRoutes(r)

	// --- Защищённая группа маршрутов ---
	// Всё, что меняет программу или списки участников, требует
	// админского токена.
	authRequired := r.Group("/api")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAdminAPIRoutes(authRequired)
	}
}
