package bot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

func (b *Bot) Run() {
	err := b.Session.Open()
	if err != nil {
		logrus.Fatalf("Error opening connection: %v", err)
	}

	logrus.Info("Registering commands for enabled guilds...")
	b.RegisteredCommands = nil
	for _, guardCfg := range b.GetConfig().GuardConfigs {
		if guardCfg.Enable {
			b.RefreshCommands(guardCfg.GuildID)
		}
	}

	// Start the scheduler
	b.scheduler.Start()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}
