package moderation

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// restStatus extracts the HTTP status code from a discordgo REST error,
// or 0 when the error did not come from the platform API.
func restStatus(err error) int {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode
	}
	return 0
}

// IsNotFound reports whether a platform call failed because the target
// guild, member, channel or role no longer exists.
func IsNotFound(err error) bool {
	return restStatus(err) == http.StatusNotFound
}

// IsForbidden reports whether a platform call failed due to insufficient
// permission.
func IsForbidden(err error) bool {
	return restStatus(err) == http.StatusForbidden
}
