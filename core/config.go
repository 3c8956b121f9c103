package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration. Values come from defaults,
// an optional config/.env.<env> file and environment variables (prefixed
// with the current ENV), in increasing order of precedence.
type Config struct {
	Debug    bool
	TestMode bool
	Env      string
	AppName  string

	SecretKey              string
	SessionExpirationDelta time.Duration
	SessionFile            string

	SearchDebounceDelta time.Duration
	NotificationTTL     time.Duration

	RollbarToken string

	Database struct {
		Engine string // "inmem" or "sqlite"
		Name   string // sqlite file path; ignored for inmem
	}
}

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Darasa")
	v.SetDefault("secretKey", "k2#mx)9dz&uo7=wer(h!x)5qc2(#yg4h^$cegm2emy8-poq5")
	v.SetDefault("sessionExpirationDelta", 7*24*time.Hour)
	v.SetDefault("sessionFile", defaultSessionFile())
	v.SetDefault("searchDebounceDelta", 300*time.Millisecond)
	v.SetDefault("notificationTTL", 5*time.Second)
	v.SetDefault("rollbarToken", "")
	v.SetDefault("database.engine", "inmem")
	v.SetDefault("database.name", "darasa.db")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	testMode := false
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:                  v.GetBool("debug"),
		TestMode:               testMode,
		Env:                    env,
		AppName:                v.GetString("appName"),
		SecretKey:              v.GetString("secretKey"),
		SessionExpirationDelta: v.GetDuration("sessionExpirationDelta"),
		SessionFile:            v.GetString("sessionFile"),
		SearchDebounceDelta:    v.GetDuration("searchDebounceDelta"),
		NotificationTTL:        v.GetDuration("notificationTTL"),
		RollbarToken:           v.GetString("rollbarToken"),
	}
	conf.Database.Engine = v.GetString("database.engine")
	conf.Database.Name = v.GetString("database.name")
	return conf
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "darasa", "session")
}
