package models

import (
	"net/mail"
	"slices"
	"strings"
	"time"
)

// Role names. Every user has RoleUser; Admin and Premium are granted by an admin.
const (
	RoleUser    = "User"
	RoleAdmin   = "Admin"
	RolePremium = "Premium"
)

var knownRoles = []string{RoleUser, RoleAdmin, RolePremium}

const (
	DefaultCalorieGoal = 2000
	DefaultWaterGoalML = 2000
	maxDisplayName     = 100
)

type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	DisplayName       string     `json:"display_name"`
	Roles             []string   `json:"roles"`
	EmailConfirmed    bool       `json:"email_confirmed"`
	ConfirmationToken string     `json:"-"`
	ResetToken        string     `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	Blocked           bool       `json:"blocked"`
	DailyCalorieGoal  int        `json:"daily_calorie_goal"`
	DailyWaterGoalML  int        `json:"daily_water_goal_ml"`
	CreatedAt         time.Time  `json:"created_at"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail accepts a bare address such as "a@b.c"; display names are rejected.
func ValidateEmail(email string) error {
	a, err := mail.ParseAddress(email)
	if err != nil || a.Address != email || !strings.Contains(email, "@") {
		return invalid("invalid email address")
	}
	return nil
}

// NormalizeRoles drops unknown and duplicate roles, always includes RoleUser
// and returns the roles in canonical order.
func NormalizeRoles(roles []string) ([]string, error) {
	out := []string{RoleUser}
	for _, r := range roles {
		if !slices.Contains(knownRoles, r) {
			return nil, invalid("unknown role %q", r)
		}
	}
	for _, k := range knownRoles[1:] {
		if slices.Contains(roles, k) {
			out = append(out, k)
		}
	}
	return out, nil
}

// JoinRoles encodes roles for the users.roles column.
func JoinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

// SplitRoles decodes the users.roles column.
func SplitRoles(s string) []string {
	if s == "" {
		return []string{RoleUser}
	}
	return strings.Split(s, ",")
}

// ProfileUpdate carries the user-editable profile fields.
type ProfileUpdate struct {
	DisplayName      string
	DailyCalorieGoal int
	DailyWaterGoalML int
}

func (p ProfileUpdate) Validate() error {
	if len(p.DisplayName) > maxDisplayName {
		return invalid("display name is longer than %d characters", maxDisplayName)
	}
	if p.DailyCalorieGoal < 0 || p.DailyCalorieGoal > 20000 {
		return invalid("daily calorie goal out of range")
	}
	if p.DailyWaterGoalML < 0 || p.DailyWaterGoalML > 20000 {
		return invalid("daily water goal out of range")
	}
	return nil
}
