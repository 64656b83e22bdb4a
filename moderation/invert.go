package moderation

import (
	"errors"
	"fmt"

	"gatekeeper-bot/model"
)

// ErrUnrevertible is returned when an inverse is requested for an action
// kind that has no defined inverse.
var ErrUnrevertible = errors.New("action kind cannot be reverted")

// Invert returns the action that undoes the given one: ban becomes unban,
// mute/deafen/change_role apply becomes unapply (and vice versa), and an
// escalate amount is negated. Toggle sub-types stay toggle since applying
// a toggle twice restores the original state. The duration is always
// cleared so the inverse never schedules a further revert.
//
// Invert does not touch the reason text; prefixing auto-generated reasons
// is the executor's responsibility.
func Invert(a model.Action) (model.Action, error) {
	inv := a
	inv.Duration = 0
	inv.RoleIDs = append([]string(nil), a.RoleIDs...)

	switch a.Kind {
	case model.ActionBan, model.ActionMute, model.ActionDeafen, model.ActionChangeRole:
		switch a.Status {
		case model.StatusApply:
			inv.Status = model.StatusUnapply
		case model.StatusUnapply:
			inv.Status = model.StatusApply
		case model.StatusToggle:
			// A toggle is its own inverse.
		default:
			return model.Action{}, fmt.Errorf("action has unknown status %q", a.Status)
		}
		return inv, nil
	case model.ActionEscalate:
		inv.Amount = -a.Amount
		return inv, nil
	case model.ActionKick, model.ActionDirectMessage, model.ActionRunCommand:
		return model.Action{}, fmt.Errorf("%w: %s", ErrUnrevertible, a.Kind)
	default:
		return model.Action{}, fmt.Errorf("%w: unknown kind %s", ErrUnrevertible, a.Kind)
	}
}

// Revertible reports whether an action kind has a defined inverse.
func Revertible(kind model.ActionKind) bool {
	switch kind {
	case model.ActionBan, model.ActionMute, model.ActionDeafen, model.ActionChangeRole, model.ActionEscalate:
		return true
	}
	return false
}
