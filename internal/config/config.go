package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppPort        string
	TrustedProxies []string

	DbDriver   string
	DbHost     string
	DbPort     string
	DbUser     string
	DbPassword string
	DbName     string
	DbParams   string
	SQLitePath string

	JWTSecret string

	RelayListenAddr   string
	RelayControlAddr  string
	RelayControlURL   string
	RelayClientBuffer int

	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	PushTTL         int
	PushLanguage    string

	DispatchWorkers   int
	DispatchQueueSize int

	AutomationRulesFile string
	TranslationFolder   string
}

var defaults = map[string]any{
	"APP_PORT":              "8080",
	"DB_DRIVER":             DriverMySQL,
	"MYSQL_HOST":            "db",
	"MYSQL_PORT":            "3306",
	"MYSQL_USER":            "taskboard",
	"MYSQL_PASSWORD":        "taskboard",
	"MYSQL_DATABASE":        "taskboard",
	"MYSQL_PARAMS":          "parseTime=true&multiStatements=true",
	"POSTGRES_HOST":         "db",
	"POSTGRES_PORT":         "5432",
	"POSTGRES_USER":         "taskboard",
	"POSTGRES_PASSWORD":     "taskboard",
	"POSTGRES_DATABASE":     "taskboard",
	"POSTGRES_PARAMS":       "sslmode=disable",
	"SQLITE_PATH":           "data/taskboard.db",
	"JWT_SECRET":            "",
	"RELAY_LISTEN_ADDR":     "0.0.0.0:8081",
	"RELAY_CONTROL_ADDR":    "127.0.0.1:8082",
	"RELAY_CONTROL_URL":     "http://127.0.0.1:8082/broadcast",
	"RELAY_CLIENT_BUFFER":   16,
	"VAPID_PUBLIC_KEY":      "",
	"VAPID_PRIVATE_KEY":     "",
	"VAPID_SUBJECT":         "mailto:notifications@taskboard.local",
	"PUSH_TTL":              3600,
	"PUSH_LANGUAGE":         "en",
	"DISPATCH_WORKERS":      4,
	"DISPATCH_QUEUE_SIZE":   256,
	"AUTOMATION_RULES_FILE": "",
	"TRANSLATION_FOLDER":    "pkg/translator/translation",
}

// LoadConfig reads .env, the optional TASKBOARD_CONFIG file and the
// environment, in increasing order of precedence.
func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path := os.Getenv("TASKBOARD_CONFIG"); path != "" {
		v.SetConfigFile(path)
		// A missing or broken file falls back to env and defaults.
		_ = v.ReadInConfig()
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		AppPort:             v.GetString("APP_PORT"),
		TrustedProxies:      parseTrustedProxies(v.GetString("TRUSTED_PROXIES")),
		DbDriver:            strings.ToLower(v.GetString("DB_DRIVER")),
		SQLitePath:          v.GetString("SQLITE_PATH"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		RelayListenAddr:     v.GetString("RELAY_LISTEN_ADDR"),
		RelayControlAddr:    v.GetString("RELAY_CONTROL_ADDR"),
		RelayControlURL:     v.GetString("RELAY_CONTROL_URL"),
		RelayClientBuffer:   v.GetInt("RELAY_CLIENT_BUFFER"),
		VAPIDPublicKey:      v.GetString("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey:     v.GetString("VAPID_PRIVATE_KEY"),
		VAPIDSubject:        v.GetString("VAPID_SUBJECT"),
		PushTTL:             v.GetInt("PUSH_TTL"),
		PushLanguage:        v.GetString("PUSH_LANGUAGE"),
		DispatchWorkers:     v.GetInt("DISPATCH_WORKERS"),
		DispatchQueueSize:   v.GetInt("DISPATCH_QUEUE_SIZE"),
		AutomationRulesFile: v.GetString("AUTOMATION_RULES_FILE"),
		TranslationFolder:   v.GetString("TRANSLATION_FOLDER"),
	}

	prefix := "MYSQL_"
	if cfg.DbDriver == DriverPostgres {
		prefix = "POSTGRES_"
	}
	cfg.DbHost = v.GetString(prefix + "HOST")
	cfg.DbPort = v.GetString(prefix + "PORT")
	cfg.DbUser = v.GetString(prefix + "USER")
	cfg.DbPassword = v.GetString(prefix + "PASSWORD")
	cfg.DbName = v.GetString(prefix + "DATABASE")
	cfg.DbParams = v.GetString(prefix + "PARAMS")

	return cfg
}

func parseTrustedProxies(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		proxy := strings.TrimSpace(part)
		if proxy == "" {
			continue
		}
		proxies = append(proxies, proxy)
	}

	if len(proxies) == 0 {
		return nil
	}

	return proxies
}
