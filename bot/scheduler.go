package bot

import (
	"sync"
	"time"

	"gatekeeper-bot/model"
	"gatekeeper-bot/scanner"

	"github.com/sirupsen/logrus"
)

// Poller intervals. Pending actions carry second-level deadlines (temp
// mutes, unbans), so they poll much more often than level decay, which is
// measured in days.
const (
	pendingActionInterval = 30 * time.Second
	deescalationInterval  = 5 * time.Minute
)

// Scheduler drives the background pollers.
type Scheduler struct {
	bot                *Bot
	done               chan struct{}
	wg                 sync.WaitGroup
	actionTicker       *time.Ticker
	deescalationTicker *time.Ticker
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot *Bot) *Scheduler {
	return &Scheduler{
		bot:  bot,
		done: make(chan struct{}),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.startScheduledTasks()
}

// Stop terminates all scheduled tasks gracefully.
func (s *Scheduler) Stop() {
	logrus.Info("Stopping scheduler...")
	close(s.done)
	s.wg.Wait()
	logrus.Info("Scheduler stopped")
}

func (s *Scheduler) startScheduledTasks() {
	defer s.wg.Done()
	s.actionTicker = time.NewTicker(pendingActionInterval)
	s.deescalationTicker = time.NewTicker(deescalationInterval)

	defer s.actionTicker.Stop()
	defer s.deescalationTicker.Stop()

	// Drain any backlog that accumulated while the process was down.
	s.runActionPoll()
	s.runDeescalationPoll()

	for {
		select {
		case <-s.actionTicker.C:
			s.runActionPoll()
		case <-s.deescalationTicker.C:
			s.runDeescalationPoll()
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) runActionPoll() {
	scanner.ProcessPendingActions(s.bot.ActionScheduler, s.bot.Executor)
}

func (s *Scheduler) runDeescalationPoll() {
	scanner.ProcessDeescalations(s.bot.EscalationDB, s.bot.Escalations, func(guildID string) (model.EscalationLadder, bool) {
		return s.bot.LadderFor(guildID)
	})
}
