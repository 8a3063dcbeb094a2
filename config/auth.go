// eventflow/config/auth.go
package config

import (
	"log/slog"
	"os"
)

// JwtKey - ключ для подписи JWT-токенов админской сессии.
var JwtKey []byte

// AdminPassword и AdminPasswordHash - пароль администратора.
// Если задан ADMIN_PASSWORD_HASH (bcrypt), он имеет приоритет над
// открытым паролем. Это не настоящая граница безопасности, а простая
// заглушка доступа к админ-панели.
var (
	AdminPassword     string
	AdminPasswordHash string
)

const defaultAdminPassword = "admin123"

func LoadAuth() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Warn("Переменная окружения JWT_SECRET не установлена, используется ключ по умолчанию (только для разработки).")
		secret = "eventflow-dev-secret"
	}
	JwtKey = []byte(secret)

	AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	AdminPassword = os.Getenv("ADMIN_PASSWORD")
	if AdminPassword == "" && AdminPasswordHash == "" {
		slog.Warn("Пароль администратора не задан, используется пароль по умолчанию.")
		AdminPassword = defaultAdminPassword
	}
}
