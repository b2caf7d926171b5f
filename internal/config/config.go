// config.go
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	MongoDBName string
	// mongo | http
	PedidosBackend string
	PedidosURL     string
	PedidosToken   string
	AuthURL        string
	RabbitURL      string
	Port           string
	LogLevel       string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("no se pudo leer .env: %v", err)
	}

	return &Config{
		MongoURI:       getEnv("MONGO_URI", "mongodb://host.docker.internal:27017"),
		MongoDBName:    getEnv("MONGO_DB_NAME", "pedidos_db"),
		PedidosBackend: getEnv("PEDIDOS_BACKEND", "mongo"),
		PedidosURL:     getEnv("PEDIDOS_URL", "http://host.docker.internal:3004"),
		PedidosToken:   getEnv("PEDIDOS_TOKEN", ""),
		AuthURL:        getEnv("AUTH_URL", "http://host.docker.internal:3000"),
		RabbitURL:      getEnv("RABBIT_URL", "amqp://host.docker.internal"),
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
