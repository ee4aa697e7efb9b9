package domain

import "strings"

type UserID string

// UserSummary is the public projection of a user embedded in messages,
// participants and item owners.
type UserSummary struct {
	ID           UserID `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

func (u UserSummary) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return string(u.ID)
	}
	return name
}

// User is the authenticated account as persisted on the device.
type User struct {
	ID           UserID   `json:"id"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone,omitempty"`
	ProfileImage string   `json:"profileImage,omitempty"`
	Favorites    []ItemID `json:"favorites,omitempty"`
	IsDarkMode   bool     `json:"isDarkMode"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: u.ProfileImage,
	}
}
