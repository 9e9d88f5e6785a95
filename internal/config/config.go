package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"promoadmin/internal/pg"
)

type Config struct {
	Port          string `json:"port"`
	MetaDir       string `json:"metaDir"`       // YAML с объявлениями коллекций
	OverridesFile string `json:"overridesFile"` // overrides по configurationKey
	DBURL         string `json:"dbUrl"`         // пусто = in-memory
	AutoMigrate   bool   `json:"autoMigrate"`
	UniqueLinks   bool   `json:"uniqueLinks"` // запрет дублей (offer, customer)
	LogLevel      string `json:"logLevel"`

	// пул соединений Postgres; длительности в формате time.ParseDuration
	DBMaxOpenConns    int    `json:"dbMaxOpenConns"`
	DBMaxIdleConns    int    `json:"dbMaxIdleConns"`
	DBConnMaxLifetime string `json:"dbConnMaxLifetime"`
	DBPingTimeout     string `json:"dbPingTimeout"`
}

const envPrefix = "PROMOADMIN_"

func def() Config {
	return Config{
		Port:          "8080",
		MetaDir:       "meta",
		OverridesFile: "meta/overrides.yaml",
		DBURL:         "",
		AutoMigrate:   false,
		UniqueLinks:   false,
		LogLevel:      "info",

		DBMaxOpenConns:    10,
		DBMaxIdleConns:    5,
		DBConnMaxLifetime: "30m",
		DBPingTimeout:     "5s",
	}
}

// Pool собирает настройки пула для pg.Open.
func (c Config) Pool() (pg.PoolConfig, error) {
	lifetime, err := time.ParseDuration(c.DBConnMaxLifetime)
	if err != nil {
		return pg.PoolConfig{}, fmt.Errorf("dbConnMaxLifetime: %w", err)
	}
	ping, err := time.ParseDuration(c.DBPingTimeout)
	if err != nil {
		return pg.PoolConfig{}, fmt.Errorf("dbPingTimeout: %w", err)
	}
	return pg.PoolConfig{
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: lifetime,
		PingTimeout:     ping,
	}, nil
}

func loadJSON(path string) (Config, error) {
	c := def()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func parseBool(v string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	}
	return false, false
}

func getenvInt(k string, fallback int) int {
	if v, ok := os.LookupEnv(envPrefix + k); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func getenvBool(k string, fallback bool) bool {
	if v, ok := os.LookupEnv(envPrefix + k); ok {
		if b, ok := parseBool(v); ok {
			return b
		}
	}
	return fallback
}

// fromFileAndEnv: defaults -> JSON (если файл есть) -> ENV.
func fromFileAndEnv(jsonPath string) Config {
	cfg := def()
	if st, err := os.Stat(jsonPath); err == nil && !st.IsDir() {
		if c2, err := loadJSON(jsonPath); err == nil {
			cfg = c2
		}
	}

	cfg.Port = getenv("PORT", cfg.Port)
	cfg.MetaDir = getenv("META_DIR", cfg.MetaDir)
	cfg.OverridesFile = getenv("OVERRIDES_FILE", cfg.OverridesFile)
	cfg.DBURL = getenv("DB_URL", cfg.DBURL)
	cfg.AutoMigrate = getenvBool("AUTO_MIGRATE", cfg.AutoMigrate)
	cfg.UniqueLinks = getenvBool("UNIQUE_LINKS", cfg.UniqueLinks)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.DBMaxOpenConns = getenvInt("DB_MAX_OPEN_CONNS", cfg.DBMaxOpenConns)
	cfg.DBMaxIdleConns = getenvInt("DB_MAX_IDLE_CONNS", cfg.DBMaxIdleConns)
	cfg.DBConnMaxLifetime = getenv("DB_CONN_MAX_LIFETIME", cfg.DBConnMaxLifetime)
	cfg.DBPingTimeout = getenv("DB_PING_TIMEOUT", cfg.DBPingTimeout)
	return cfg
}

// Load читает JSON по указанному пути, потом применяет ENV и флаги из args.
func Load(jsonPath string, args []string) (Config, error) {
	// первый проход: только путь к конфигу
	pre := flag.NewFlagSet("promoadmin-pre", flag.ContinueOnError)
	pre.SetOutput(io.Discard)
	prePath := pre.String("config", jsonPath, "")
	_ = pre.Parse(filterConfigFlag(args))

	cfg := fromFileAndEnv(*prePath)

	fs := flag.NewFlagSet("promoadmin", flag.ContinueOnError)
	_ = fs.String("config", *prePath, "Path to config JSON")
	port := fs.String("port", cfg.Port, "HTTP port")
	meta := fs.String("meta", cfg.MetaDir, "Directory with collection declarations (*.yaml)")
	overrides := fs.String("overrides", cfg.OverridesFile, "Overrides file keyed by configurationKey")
	db := fs.String("db", cfg.DBURL, "Postgres URL (empty = in-memory)")
	auto := fs.String("auto-migrate", strconv.FormatBool(cfg.AutoMigrate), "Create OFFER_CUSTOMER if missing (true/false)")
	unique := fs.String("unique-links", strconv.FormatBool(cfg.UniqueLinks), "Reject duplicate (offer, customer) links (true/false)")
	level := fs.String("log-level", cfg.LogLevel, "Log level (debug/info/warn/error)")
	maxOpen := fs.Int("db-max-open", cfg.DBMaxOpenConns, "Max open Postgres connections")
	maxIdle := fs.Int("db-max-idle", cfg.DBMaxIdleConns, "Max idle Postgres connections")
	lifetime := fs.String("db-conn-lifetime", cfg.DBConnMaxLifetime, "Max connection lifetime (e.g. 30m)")
	ping := fs.String("db-ping-timeout", cfg.DBPingTimeout, "Startup ping timeout (e.g. 5s)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.Port = strings.TrimSpace(*port)
	cfg.MetaDir = strings.TrimSpace(*meta)
	cfg.OverridesFile = strings.TrimSpace(*overrides)
	cfg.DBURL = strings.TrimSpace(*db)
	if b, ok := parseBool(*auto); ok {
		cfg.AutoMigrate = b
	}
	if b, ok := parseBool(*unique); ok {
		cfg.UniqueLinks = b
	}
	cfg.LogLevel = strings.TrimSpace(*level)
	cfg.DBMaxOpenConns = *maxOpen
	cfg.DBMaxIdleConns = *maxIdle
	cfg.DBConnMaxLifetime = strings.TrimSpace(*lifetime)
	cfg.DBPingTimeout = strings.TrimSpace(*ping)
	if _, err := cfg.Pool(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// filterConfigFlag оставляет из args только -config/--config.
func filterConfigFlag(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		name := strings.TrimLeft(a, "-")
		switch {
		case name == "config" && i+1 < len(args):
			out = append(out, a, args[i+1])
			i++
		case strings.HasPrefix(name, "config="):
			out = append(out, a)
		}
	}
	return out
}
