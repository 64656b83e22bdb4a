package model

import "encoding/json"

// ActionKind identifies the kind of moderation effect an Action describes.
type ActionKind string

const (
	ActionKick          ActionKind = "kick"
	ActionBan           ActionKind = "ban"
	ActionMute          ActionKind = "mute"
	ActionDeafen        ActionKind = "deafen"
	ActionChangeRole    ActionKind = "change_role"
	ActionEscalate      ActionKind = "escalate"
	ActionDirectMessage ActionKind = "direct_message"
	ActionRunCommand    ActionKind = "run_command"
)

// StatusKind is the sub-type carried by ban, mute, deafen and change_role
// actions. Apply and Unapply are absolute; Toggle flips the current state.
type StatusKind string

const (
	StatusApply   StatusKind = "apply"
	StatusUnapply StatusKind = "unapply"
	StatusToggle  StatusKind = "toggle"
)

// Action describes one moderation effect. It is immutable once built and
// serializes to JSON for the pending_actions table.
type Action struct {
	Kind      ActionKind `json:"kind"`
	GuildID   string     `json:"guild_id"`
	UserID    string     `json:"user_id,omitempty"`
	ChannelID string     `json:"channel_id,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	// Duration in seconds. A value > 0 on a revertible kind means the
	// executor schedules the inverse action Duration seconds after apply.
	Duration int64 `json:"duration,omitempty"`

	// Status applies to ban, mute, deafen and change_role.
	Status StatusKind `json:"status,omitempty"`
	// RoleIDs applies to change_role.
	RoleIDs []string `json:"role_ids,omitempty"`
	// Amount applies to escalate; negative values de-escalate.
	Amount int `json:"amount,omitempty"`
	// Text applies to direct_message.
	Text string `json:"text,omitempty"`
	// Command applies to run_command.
	Command string `json:"command,omitempty"`
}

// Encode serializes the action for storage.
func (a Action) Encode() (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeAction deserializes an action previously stored with Encode.
func DecodeAction(payload string) (Action, error) {
	var a Action
	err := json.Unmarshal([]byte(payload), &a)
	return a, err
}
