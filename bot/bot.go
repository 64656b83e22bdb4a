package bot

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gatekeeper-bot/commands"
	"gatekeeper-bot/config"
	"gatekeeper-bot/model"
	"gatekeeper-bot/moderation"
	actions_db "gatekeeper-bot/utils/database/actions"
	bans_db "gatekeeper-bot/utils/database/bans"
	escalation_db "gatekeeper-bot/utils/database/escalation"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)

	ActionsDB    *sqlx.DB
	EscalationDB *sqlx.DB
	BansDB       *sqlx.DB

	ActionScheduler *moderation.ActionScheduler
	Executor        *moderation.Executor
	Escalations     *moderation.EscalationManager

	lockdowns  map[string]time.Time
	lockdownMu sync.Mutex

	scheduler *Scheduler
	done      chan struct{}
}

func New(cfg *model.Config) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentGuildModeration
	dg.StateEnabled = true

	actionsDB, err := actions_db.Init(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	escalationDB, err := escalation_db.Init(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	bansDB, err := bans_db.Init(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	scheduler := moderation.NewActionScheduler(actionsDB)
	executor := moderation.NewExecutor(moderation.NewDiscordPlatform(dg), scheduler)
	escalations := moderation.NewEscalationManager(escalationDB, executor)

	b := &Bot{
		Session:         dg,
		ActionsDB:       actionsDB,
		EscalationDB:    escalationDB,
		BansDB:          bansDB,
		ActionScheduler: scheduler,
		Executor:        executor,
		Escalations:     escalations,
		lockdowns:       make(map[string]time.Time),
		done:            make(chan struct{}),
	}
	b.config.Store(cfg)

	// Scheduled escalate actions route back through the escalation
	// manager; positive amounts execute the new rung's action, negative
	// amounts are bookkeeping only.
	executor.SetEscalateFunc(func(guildID, userID, reason string, amount int) error {
		ladder, ok := b.LadderFor(guildID)
		if !ok {
			return fmt.Errorf("no escalation ladder configured for guild %s", guildID)
		}
		req := moderation.EscalationRequest{
			GuildID:        guildID,
			UserID:         userID,
			AuthorizerID:   "system",
			AuthorizerName: "Automatic",
			Reason:         reason,
		}
		_, err := escalations.Apply(ladder, req, amount, amount > 0)
		return err
	})

	// Scripted command actions only validate and audit-log the dispatch;
	// commands run through the regular interaction path.
	executor.SetCommandFunc(func(a model.Action) error {
		if _, ok := b.CommandHandlers[a.Command]; !ok {
			return fmt.Errorf("unknown command %q", a.Command)
		}
		logrus.WithFields(logrus.Fields{
			"guild_id": a.GuildID,
			"user_id":  a.UserID,
			"command":  a.Command,
		}).Info("Dispatching scripted command")
		return nil
	})

	b.scheduler = NewScheduler(b)
	return b, nil
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func (b *Bot) GetScheduler() *Scheduler {
	return b.scheduler
}

// GuardConfigFor returns the guard config for a guild, if one is enabled.
func (b *Bot) GuardConfigFor(guildID string) (model.GuardConfig, bool) {
	guardCfg, ok := b.GetConfig().GuardConfigs[guildID]
	if !ok || !guardCfg.Enable {
		return model.GuardConfig{}, false
	}
	return guardCfg, true
}

// LadderFor returns the escalation ladder configured for a guild.
func (b *Bot) LadderFor(guildID string) (model.EscalationLadder, bool) {
	guardCfg, ok := b.GuardConfigFor(guildID)
	if !ok || len(guardCfg.Ladder.Rungs) == 0 {
		return model.EscalationLadder{}, false
	}
	return guardCfg.Ladder, true
}

// LockdownUntil returns the end of the guild's lockdown window, or the
// zero time when the guild is not locked down.
func (b *Bot) LockdownUntil(guildID string) time.Time {
	b.lockdownMu.Lock()
	defer b.lockdownMu.Unlock()
	return b.lockdowns[guildID]
}

// SetLockdown declares or clears a guild's lockdown window.
func (b *Bot) SetLockdown(guildID string, until time.Time) {
	b.lockdownMu.Lock()
	defer b.lockdownMu.Unlock()
	if until.IsZero() {
		delete(b.lockdowns, guildID)
		return
	}
	b.lockdowns[guildID] = until
}

func (b *Bot) Close() {
	logrus.Info("Gracefully shutting down")
	close(b.done) // Signal all goroutines to stop

	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	b.Session.Close()
	b.ActionsDB.Close()
	b.EscalationDB.Close()
	b.BansDB.Close()
}

func (b *Bot) RefreshCommands(guildID string) {
	guardCfg, ok := b.GetConfig().GuardConfigs[guildID]
	if !ok {
		logrus.WithField("guild_id", guildID).Warn("Could not find guard config for guild")
		return
	}
	logrus.WithField("guild_id", guardCfg.GuildID).Info("Updating commands for guild")

	cmds := commands.GenerateCommands(&guardCfg)
	registeredCmds, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, guardCfg.GuildID, cmds)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"guild_id": guardCfg.GuildID,
			"error":    err,
		}).Error("Cannot update commands for guild")
		return
	}
	b.RegisteredCommands = append(b.RegisteredCommands, registeredCmds...)
}

func (b *Bot) ReloadConfig() error {
	logrus.Info("Reloading configuration...")
	newCfg, err := config.Load()
	if err != nil {
		logrus.WithField("error", err).Error("Error reloading config")
		return err
	}

	b.config.Store(newCfg)
	logrus.Info("Configuration reloaded successfully")

	for _, guardCfg := range newCfg.GuardConfigs {
		if guardCfg.Enable {
			go b.RefreshCommands(guardCfg.GuildID)
		}
	}
	return nil
}
