package model

// ValidationConfig holds the per-guild parameters consumed by the
// validator chain.
type ValidationConfig struct {
	// MinAccountAge uses the extended duration syntax, e.g. "30d".
	MinAccountAge      string   `json:"min_account_age"`
	UsernameBlocklist  []string `json:"username_blocklist"`
	SpacedNamePatterns []string `json:"spaced_name_patterns"`
	// MinTokenLength is the shortest name token considered by the
	// moderator name-similarity check.
	MinTokenLength int `json:"min_token_length"`
	// MinGuildSize is the smallest guild whose bans count in the
	// cross-guild ban lookup.
	MinGuildSize int `json:"min_guild_size"`
}

// GuardConfig 定义了每个服务器的守卫配置
type GuardConfig struct {
	Name            string           `json:"name"`
	GuildID         string           `json:"guilds_id"`
	Enable          bool             `json:"enable"`
	ModLogChannelID string           `json:"mod_log_channel_id"`
	ValidatedRoleID string           `json:"validated_role_id"`
	AdminRoleIDs    []string         `json:"admin_role_ids"`
	Ladder          EscalationLadder `json:"escalation_ladder"`
	Validation      ValidationConfig `json:"validation"`
}

// Config 存储应用程序的配置
type Config struct {
	BotToken        string
	AppID           string
	OwnerUserIDs    []string
	GuardConfigPath string
	DBPath          string
	GuardConfigs    map[string]GuardConfig
}
