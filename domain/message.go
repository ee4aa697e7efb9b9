// Package domain contains core concepts of the rental marketplace client.
// This file defines Message records and their media attachments.
// Messages are immutable once the server has created them.
package domain

import (
	"time"
)

type MessageID string

// Message represents an immutable chat record.
type Message struct {
	ID         MessageID        `json:"id"`
	Content    string           `json:"content"`
	SenderID   UserID           `json:"senderId"`
	ChatRoomID RoomID           `json:"chatRoomId"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
	Media      []Media          `json:"media,omitempty"`
	Metadata   *MessageMetadata `json:"metadata,omitempty"`
	Sender     *UserSummary     `json:"sender,omitempty"`
}

// Media is a reference to an uploaded asset.
// Before upload URI holds a local path, afterwards the persisted location.
type Media struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
	Type string `json:"type"`
}

const MetadataTypeItem = "item"

// MessageMetadata is the optional link payload carried by a message,
// currently only a back-reference to a listed item.
type MessageMetadata struct {
	Type        string  `json:"type"`
	ItemID      ItemID  `json:"itemId,omitempty"`
	Title       string  `json:"title,omitempty"`
	Image       string  `json:"image,omitempty"`
	PricePerDay float64 `json:"pricePerDay,omitempty"`
}
