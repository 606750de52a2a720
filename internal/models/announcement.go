package models

import "time"

// Announcement is a dated notice with an optional image and link.
type Announcement struct {
	BaseModel
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
	Image       string     `json:"image"`
	Link        string     `json:"link"`
}
