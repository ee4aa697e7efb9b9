package domain

import "time"

type ItemID string

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// Item is a listing offered for rent.
type Item struct {
	ID          ItemID      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	PricePerDay float64     `json:"pricePerDay"`
	Images      []string    `json:"images,omitempty"`
	Location    *Location   `json:"location,omitempty"`
	Available   bool        `json:"available"`
	OwnerID     UserID      `json:"ownerId"`
	Owner       UserSummary `json:"owner"`
	IsFavorite  bool        `json:"isFavorite"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (i Item) Cover() string {
	if len(i.Images) == 0 {
		return ""
	}
	return i.Images[0]
}

// Reference builds the metadata back-reference sent along a message
// discussing this item.
func (i Item) Reference() *MessageMetadata {
	return &MessageMetadata{
		Type:        MetadataTypeItem,
		ItemID:      i.ID,
		Title:       i.Title,
		Image:       i.Cover(),
		PricePerDay: i.PricePerDay,
	}
}

// ItemDraft is the payload to list or edit an item.
type ItemDraft struct {
	Title       string    `json:"title" validate:"required,min=3,max=120"`
	Description string    `json:"description" validate:"max=2000"`
	Category    string    `json:"category" validate:"required"`
	PricePerDay float64   `json:"pricePerDay" validate:"gt=0"`
	Images      []string  `json:"images,omitempty" validate:"dive,required"`
	Location    *Location `json:"location,omitempty"`
	Available   bool      `json:"available"`
}

// NearbyQuery searches items around a point, radius in kilometers.
type NearbyQuery struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
	Radius    float64 `validate:"gt=0"`
}
