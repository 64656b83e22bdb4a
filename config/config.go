package config

import (
	"fmt"
	"os"
	"strings"

	"gatekeeper-bot/model"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// guardFile is the shape of the guard configuration file.
type guardFile struct {
	Guilds map[string]model.GuardConfig `json:"guilds"`
}

// Load loads the configuration from environment variables and the guard
// config file.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info(".env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		logrus.Fatal("BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		logrus.Fatal("APP_ID environment variable not set")
	}

	dbPath := os.Getenv("GUARD_DB_PATH")
	if dbPath == "" {
		dbPath = "data/guard.db"
	}

	guardConfigPath := os.Getenv("GUARD_CONFIG_PATH")
	if guardConfigPath == "" {
		guardConfigPath = "data/guard_config.json"
	}

	var owners []string
	if raw := os.Getenv("OWNER_USER_IDS"); raw != "" {
		owners = strings.Split(raw, ",")
	}

	cfg := &model.Config{
		BotToken:        token,
		AppID:           appID,
		OwnerUserIDs:    owners,
		GuardConfigPath: guardConfigPath,
		DBPath:          dbPath,
		GuardConfigs:    make(map[string]model.GuardConfig),
	}

	if err := loadGuardConfigs(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadGuardConfigs reads the per-guild guard configuration through viper.
func loadGuardConfigs(cfg *model.Config) error {
	v := viper.New()
	v.SetConfigFile(cfg.GuardConfigPath)
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			logrus.WithField("path", cfg.GuardConfigPath).Warn("Guard config file not found, skipping")
			return nil
		}
		return fmt.Errorf("failed to read guard config: %w", err)
	}

	var file guardFile
	// The model structs carry json tags; point mapstructure at them.
	err := v.Unmarshal(&file, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "json"
	})
	if err != nil {
		return fmt.Errorf("failed to parse guard config: %w", err)
	}

	for guildID, guardCfg := range file.Guilds {
		if guardCfg.GuildID == "" {
			guardCfg.GuildID = guildID
		}
		cfg.GuardConfigs[guildID] = guardCfg
	}
	return nil
}

// Watch re-runs onChange whenever the guard config file changes on disk.
func Watch(path string, onChange func()) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		logrus.WithField("path", path).Warn("Guard config file not watchable")
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		logrus.WithField("file", e.Name).Info("Guard config changed, reloading")
		onChange()
	})
	v.WatchConfig()
}
