package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Mongo   MongoConfig
	JSON    JSONStoreConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Observ  ObservabilityConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// StorageConfig selects the persistence backend: "mongo" or "json".
type StorageConfig struct {
	Backend string
}

type MongoConfig struct {
	URI      string
	Database string
}

type JSONStoreConfig struct {
	ProductsFile string
	OrdersFile   string
}

// RedisConfig configures the product-lock client. An empty Addr disables
// locking entirely.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig configures domain event publishing. An empty Brokers list
// disables it.
type KafkaConfig struct {
	Brokers     []string
	TopicEvents string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "json"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "shop"),
		},
		JSON: JSONStoreConfig{
			ProductsFile: getEnv("PRODUCTS_FILE", "db_files/products.json"),
			OrdersFile:   getEnv("ORDERS_FILE", "db_files/orders.json"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:     brokers,
			TopicEvents: getEnv("KAFKA_TOPIC_SHOP_EVENTS", "shop-events"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, backend=%s",
		cfg.Server.Env, cfg.Server.Port, cfg.Storage.Backend)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
