package models

// Retention bounds in hours accepted by the admin settings surface.
const (
	MinRetentionHours = 1
	MaxRetentionHours = 8760
)

// AdminConfig is the singleton created on first admin setup. The admin
// password is stored as a bcrypt hash, never plaintext.
type AdminConfig struct {
	AdminPasswordHash            string `json:"admin_password_hash"`
	DefaultMessageRetentionHours int    `json:"default_message_retention_hours"`
	AllowUserRoomCreation        bool   `json:"allow_user_room_creation"`
	MaxRoomsPerUser              int    `json:"max_rooms_per_user"`
	WelcomeMessage               string `json:"welcome_message"`
}

// DefaultAdminConfig returns the settings applied at first admin setup,
// before the password hash is filled in.
func DefaultAdminConfig() AdminConfig {
	return AdminConfig{
		DefaultMessageRetentionHours: 24,
		AllowUserRoomCreation:        true,
		MaxRoomsPerUser:              5,
		WelcomeMessage:               "Welcome to SecureChat! 🎉",
	}
}
