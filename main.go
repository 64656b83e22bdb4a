package main

import (
	"os"

	"gatekeeper-bot/bot"
	"gatekeeper-bot/config"
	"gatekeeper-bot/handlers"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Error loading configuration: %v", err)
	}
	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		logrus.Fatalf("Failed to create data directory: %v", err)
	}

	b, err := bot.New(cfg)
	if err != nil {
		logrus.Fatalf("Error creating bot: %v", err)
	}

	handlers.Register(b)

	config.Watch(cfg.GuardConfigPath, func() {
		if err := b.ReloadConfig(); err != nil {
			logrus.Errorf("Error reloading configuration: %v", err)
		}
	})

	b.Run()

	defer b.Close()
}
