// eventflow/internal/routes/auth_routes.go
package routes

import (
	"eventflow/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes регистрирует публичные маршруты для аутентификации.
func RegisterAuthRoutes(r *gin.Engine) {
	// Вход администратора и выход.
	r.POST("/login", handlers.LoginHandler)
	r.GET("/logout", handlers.LogoutHandler)
}
