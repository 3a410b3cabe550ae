package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	MongoURI       string
	MongoDB        string
	JWTSecret      string
	AccessTTLHours int
	AmqpURL        string
	Env            string
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:           getenv("APP_PORT", "5000"),
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getenv("MONGO_DB", "elegant"),
		JWTSecret:      getenv("ACCESS_TOKEN", "default_secret_key"),
		AccessTTLHours: atoi(getenv("ACCESS_TTL_HOURS", "1")),
		AmqpURL:        getenv("AMQP_URL", ""),
		Env:            getenv("APP_ENV", "dev"),
	}
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
