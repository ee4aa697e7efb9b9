package domain

import "time"

type RoomID string

// Room is a chat session scoped to a fixed set of participants.
type Room struct {
	ID           RoomID        `json:"id"`
	Participants []Participant `json:"participants"`
	Messages     []Message     `json:"messages,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// HasParticipant tells if userID is one of the room members.
func (r Room) HasParticipant(userID UserID) bool {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// Counterpart returns the first participant that is not userID.
func (r Room) Counterpart(userID UserID) (Participant, bool) {
	for _, p := range r.Participants {
		if p.UserID != userID {
			return p, true
		}
	}
	return Participant{}, false
}

// LastMessage returns the most recent message embedded in the room listing.
func (r Room) LastMessage() (Message, bool) {
	if len(r.Messages) == 0 {
		return Message{}, false
	}
	last := r.Messages[0]
	for _, m := range r.Messages[1:] {
		if m.CreatedAt.After(last.CreatedAt) {
			last = m
		}
	}
	return last, true
}
