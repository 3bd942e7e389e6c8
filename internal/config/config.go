package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host           string
	Port           int
	AllowOrigins   []string
	LogLevel       string
	LogFile        string
	MaxUploadMB    int
	CatalogSource  string        // "" — встроенный каталог; путь к файлу или http(s):// URL
	CatalogTimeout time.Duration // единственный таймаут системы: загрузка каталога
	RulesFile      string        // YAML с переопределением правил сопоставления
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "32"))
	timeout, err := time.ParseDuration(getenv("CATALOG_TIMEOUT", "15s"))
	if err != nil || timeout <= 0 {
		timeout = 15 * time.Second
	}
	return Config{
		Host:           getenv("HOST", "127.0.0.1"),
		Port:           port,
		AllowOrigins:   strings.Split(getenv("ALLOW_ORIGINS", "*"), ","),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFile:        getenv("LOG_FILE", "logs/offer-match.log"),
		MaxUploadMB:    mb,
		CatalogSource:  os.Getenv("CATALOG_SOURCE"),
		CatalogTimeout: timeout,
		RulesFile:      os.Getenv("RULES_FILE"),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
