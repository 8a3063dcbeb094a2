// eventflow/config/redis.go
package config

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RDB - клиент Redis для кэша настроек. Остаётся nil, если Redis не
// настроен или недоступен: кэш необязателен, чтение тогда идёт в базу.
var RDB *redis.Client

var Ctx = context.Background()

// ConnectRedis подключается по REDIS_ADDR (опционально REDIS_PASSWORD и
// REDIS_DB). Ошибка подключения не фатальна.
func ConnectRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		slog.Warn("REDIS_ADDR не задан, кэш настроек отключён")
		return
	}

	dbNum, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       dbNum,
	})

	if _, err := client.Ping(Ctx).Result(); err != nil {
		slog.Error("Redis недоступен, кэш настроек отключён", "addr", addr, "error", err)
		return
	}

	RDB = client
	slog.Info("Подключение к Redis установлено", "addr", addr)
}
