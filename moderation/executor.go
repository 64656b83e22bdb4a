package moderation

import (
	"fmt"
	"sync"
	"time"

	"gatekeeper-bot/model"

	"github.com/sirupsen/logrus"
)

// UndoReasonPrefix marks reasons on auto-generated revert actions.
const UndoReasonPrefix = "Undo: "

// Platform abstracts the chat platform calls the executor performs, so the
// executor can be unit tested without a live session. State-changing calls
// use absolute semantics ("set muted", not "flip muted"): re-running one
// after a crash of the pending-action poller is harmless.
type Platform interface {
	KickMember(guildID, userID, reason string) error
	BanMember(guildID, userID, reason string) error
	UnbanMember(guildID, userID string) error
	BanExists(guildID, userID string) (bool, error)
	SetMute(guildID, userID string, muted bool) error
	MemberMuted(guildID, userID string) (bool, error)
	SetDeafen(guildID, userID string, deafened bool) error
	MemberDeafened(guildID, userID string) (bool, error)
	AddRole(guildID, userID, roleID string) error
	RemoveRole(guildID, userID, roleID string) error
	MemberHasRole(guildID, userID, roleID string) (bool, error)
	SendDirectMessage(userID, text string) error
}

// Scheduler persists actions for later execution.
type Scheduler interface {
	Schedule(at time.Time, actions ...model.Action) error
}

// EscalateFunc applies an escalation level change on behalf of an
// escalate action.
type EscalateFunc func(guildID, userID, reason string, amount int) error

// CommandFunc dispatches a run_command action.
type CommandFunc func(a model.Action) error

// Executor applies actions against live guild state. Platform failures are
// logged and swallowed: a moderation action on a vanished or unreachable
// target is "attempted", not an error, and the executor never retries.
type Executor struct {
	platform   Platform
	scheduler  Scheduler
	escalate   EscalateFunc
	runCommand CommandFunc
	log        *logrus.Entry
	now        func() time.Time
}

// NewExecutor creates an executor bound to a platform and a scheduler.
func NewExecutor(platform Platform, scheduler Scheduler) *Executor {
	return &Executor{
		platform:  platform,
		scheduler: scheduler,
		log:       logrus.WithField("component", "executor"),
		now:       time.Now,
	}
}

// SetEscalateFunc wires the handler for escalate actions. Set after
// construction because the escalation manager itself executes actions.
func (e *Executor) SetEscalateFunc(fn EscalateFunc) {
	e.escalate = fn
}

// SetCommandFunc wires the dispatcher for run_command actions.
func (e *Executor) SetCommandFunc(fn CommandFunc) {
	e.runCommand = fn
}

// Execute applies a single action. After a successful apply of a revertible
// action with a duration, the inverse action is scheduled with the duration
// cleared and the reason prefixed.
func (e *Executor) Execute(a model.Action) {
	log := e.log.WithFields(logrus.Fields{
		"kind":     a.Kind,
		"guild_id": a.GuildID,
		"user_id":  a.UserID,
	})

	var err error
	switch a.Kind {
	case model.ActionKick:
		err = e.platform.KickMember(a.GuildID, a.UserID, a.Reason)
	case model.ActionBan:
		err = e.applyBan(a)
	case model.ActionMute:
		err = e.applyMute(a)
	case model.ActionDeafen:
		err = e.applyDeafen(a)
	case model.ActionChangeRole:
		err = e.applyChangeRole(a)
	case model.ActionEscalate:
		err = e.applyEscalate(a)
	case model.ActionDirectMessage:
		err = e.platform.SendDirectMessage(a.UserID, a.Text)
	case model.ActionRunCommand:
		err = e.applyRunCommand(a)
	default:
		log.Error("Refusing to execute action of unknown kind")
		return
	}

	if err != nil {
		switch {
		case IsNotFound(err):
			log.WithField("error", err).Warn("Action target not found; treating as attempted")
		case IsForbidden(err):
			log.WithField("error", err).Warn("Missing permission for action; treating as attempted")
		default:
			log.WithField("error", err).Error("Action failed")
		}
		return
	}

	if a.Duration > 0 && Revertible(a.Kind) {
		e.scheduleRevert(a, log)
	}
}

// ExecuteAll runs member actions concurrently and does not short-circuit
// on individual failures.
func (e *Executor) ExecuteAll(actions []model.Action) {
	var wg sync.WaitGroup
	workerLimit := 5 // Limit to 5 concurrent workers
	guard := make(chan struct{}, workerLimit)

	for _, a := range actions {
		wg.Add(1)
		guard <- struct{}{} // Acquire a worker slot

		go func(a model.Action) {
			defer func() {
				<-guard // Release the worker slot
				wg.Done()
			}()
			e.Execute(a)
		}(a)
	}

	wg.Wait()
}

func (e *Executor) scheduleRevert(a model.Action, log *logrus.Entry) {
	inv, err := Invert(a)
	if err != nil {
		log.WithField("error", err).Warn("Cannot schedule revert for action")
		return
	}
	inv.Reason = UndoReasonPrefix + a.Reason

	at := e.now().Add(time.Duration(a.Duration) * time.Second)
	if err := e.scheduler.Schedule(at, inv); err != nil {
		log.WithField("error", err).Error("Failed to schedule revert action")
	}
}

func (e *Executor) applyBan(a model.Action) error {
	switch a.Status {
	case model.StatusApply:
		return e.platform.BanMember(a.GuildID, a.UserID, a.Reason)
	case model.StatusUnapply:
		return e.platform.UnbanMember(a.GuildID, a.UserID)
	case model.StatusToggle:
		banned, err := e.platform.BanExists(a.GuildID, a.UserID)
		if err != nil {
			return err
		}
		if banned {
			return e.platform.UnbanMember(a.GuildID, a.UserID)
		}
		return e.platform.BanMember(a.GuildID, a.UserID, a.Reason)
	}
	return fmt.Errorf("ban action has unknown status %q", a.Status)
}

func (e *Executor) applyMute(a model.Action) error {
	switch a.Status {
	case model.StatusApply:
		return e.platform.SetMute(a.GuildID, a.UserID, true)
	case model.StatusUnapply:
		return e.platform.SetMute(a.GuildID, a.UserID, false)
	case model.StatusToggle:
		muted, err := e.platform.MemberMuted(a.GuildID, a.UserID)
		if err != nil {
			return err
		}
		return e.platform.SetMute(a.GuildID, a.UserID, !muted)
	}
	return fmt.Errorf("mute action has unknown status %q", a.Status)
}

func (e *Executor) applyDeafen(a model.Action) error {
	switch a.Status {
	case model.StatusApply:
		return e.platform.SetDeafen(a.GuildID, a.UserID, true)
	case model.StatusUnapply:
		return e.platform.SetDeafen(a.GuildID, a.UserID, false)
	case model.StatusToggle:
		deafened, err := e.platform.MemberDeafened(a.GuildID, a.UserID)
		if err != nil {
			return err
		}
		return e.platform.SetDeafen(a.GuildID, a.UserID, !deafened)
	}
	return fmt.Errorf("deafen action has unknown status %q", a.Status)
}

func (e *Executor) applyChangeRole(a model.Action) error {
	for _, roleID := range a.RoleIDs {
		var err error
		switch a.Status {
		case model.StatusApply:
			err = e.platform.AddRole(a.GuildID, a.UserID, roleID)
		case model.StatusUnapply:
			err = e.platform.RemoveRole(a.GuildID, a.UserID, roleID)
		case model.StatusToggle:
			var held bool
			held, err = e.platform.MemberHasRole(a.GuildID, a.UserID, roleID)
			if err == nil {
				if held {
					err = e.platform.RemoveRole(a.GuildID, a.UserID, roleID)
				} else {
					err = e.platform.AddRole(a.GuildID, a.UserID, roleID)
				}
			}
		default:
			return fmt.Errorf("change_role action has unknown status %q", a.Status)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) applyEscalate(a model.Action) error {
	if e.escalate == nil {
		return fmt.Errorf("no escalation handler wired for escalate action")
	}
	return e.escalate(a.GuildID, a.UserID, a.Reason, a.Amount)
}

func (e *Executor) applyRunCommand(a model.Action) error {
	if e.runCommand == nil {
		return fmt.Errorf("no command dispatcher wired for run_command action")
	}
	return e.runCommand(a)
}
