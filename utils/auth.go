package utils

// Permission levels
const (
	OwnerPermission = "owner"
	AdminPermission = "admin"
	GuestPermission = "guest"
)

// contains checks if a slice of strings contains an element.
func contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// CheckPermission returns the highest permission level for a member given
// their role IDs and the guild's configured admin roles.
func CheckPermission(userRoleIDs []string, userID string, adminRoleIDs, ownerUserIDs []string) string {
	if contains(ownerUserIDs, userID) {
		return OwnerPermission
	}

	for _, roleID := range userRoleIDs {
		if contains(adminRoleIDs, roleID) {
			return AdminPermission
		}
	}

	return GuestPermission
}
