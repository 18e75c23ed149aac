package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env          string
	DataFile     string // flat-file JSON store path
	DatabaseURL  string // when set, use the database-backed store instead (sqlite path or postgres DSN)
	ReceiptsDir  string // receipts for active projects
	FinalizedDir string // receipts moved here on finalization
	Currency     string // initial display currency code
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}
	dataFile := viper.GetString("DATA_FILE")
	if dataFile == "" {
		dataFile = "projects.json"
	}
	receiptsDir := viper.GetString("RECEIPTS_DIR")
	if receiptsDir == "" {
		receiptsDir = "Projects"
	}
	finalizedDir := viper.GetString("FINALIZED_DIR")
	if finalizedDir == "" {
		finalizedDir = "FinalizedProjects"
	}
	cur := strings.ToUpper(viper.GetString("CURRENCY"))
	if cur == "" {
		cur = "COP"
	}

	return &Config{
		Env:          env,
		DataFile:     dataFile,
		DatabaseURL:  viper.GetString("DATABASE_URL"),
		ReceiptsDir:  receiptsDir,
		FinalizedDir: finalizedDir,
		Currency:     cur,
	}, nil
}
