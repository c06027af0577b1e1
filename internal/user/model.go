package user

import (
	"gymdesk/internal/auth"
	"gymdesk/internal/civil"
)

const (
	RoleAdmin = auth.RoleAdmin
	RoleStaff = auth.RoleStaff
)

type User struct {
	ID           int64           `db:"id" json:"id"`
	Username     string          `db:"username" json:"username"`
	PasswordHash string          `db:"password_hash" json:"-"`
	FullName     string          `db:"full_name" json:"full_name"`
	Role         auth.Role       `db:"role" json:"role"`
	CreatedAt    civil.Timestamp `db:"created_at" json:"created_at"`
}

// Identity is what the user's tokens carry. Tokens are re-issued from the
// stored row, so a role change applies from the next refresh.
func (u User) Identity() auth.Identity {
	return auth.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}

type Preferences struct {
	UserID   int64  `db:"user_id" json:"-"`
	Language string `db:"language" json:"language"`
	Theme    string `db:"theme" json:"theme"`
}

func DefaultPreferences(userID int64) Preferences {
	return Preferences{UserID: userID, Language: "en", Theme: "light"}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type PreferencesRequest struct {
	Language string `json:"language" binding:"required,oneof=en fr ar"`
	Theme    string `json:"theme" binding:"required,oneof=light dark"`
}
