// eventflow/internal/handlers/auth_handler.go
package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"eventflow/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const sessionDuration = 12 * time.Hour

// LoginHandler проверяет пароль администратора и выдаёт JWT в cookie.
// Токен дублируется в теле ответа для клиентов, работающих через
// Authorization-заголовок.
func LoginHandler(c *gin.Context) {
	var input struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Пароль не передан"})
		return
	}

	if !checkAdminPassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный пароль"})
		return
	}

	expiresAt := time.Now().Add(sessionDuration)
	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(config.JwtKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать токен"})
		return
	}

	c.SetCookie("auth_token", tokenString, int(sessionDuration.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "expiresAt": expiresAt})
}

func LogoutHandler(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Выход выполнен"})
}

func checkAdminPassword(password string) bool {
	if config.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(config.AdminPasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(config.AdminPassword), []byte(password)) == 1
}
