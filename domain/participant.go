// Package domain contains core concepts of the rental marketplace client.
// This file defines Participant join-records.
// Participants are display data only, never used for access control.
package domain

type Participant struct {
	ID         string      `json:"id"`
	UserID     UserID      `json:"userId"`
	ChatRoomID RoomID      `json:"chatRoomId"`
	User       UserSummary `json:"user"`
}
