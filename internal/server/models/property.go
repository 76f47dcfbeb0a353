package models

import "time"

// Property is a listing owned by one user. OwnerID never leaves the server.
type Property struct {
	ID        string    `json:"id" bson:"_id"`
	OwnerID   string    `json:"-" bson:"owner_id"`
	Title     string    `json:"title" bson:"title"`
	Type      string    `json:"type" bson:"type"`
	Address   string    `json:"address" bson:"address"`
	City      string    `json:"city" bson:"city"`
	Lat       *float64  `json:"lat" bson:"lat,omitempty"`
	Lng       *float64  `json:"lng" bson:"lng,omitempty"`
	Notes     string    `json:"notes" bson:"notes"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
