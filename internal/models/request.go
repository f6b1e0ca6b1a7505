package models

import "time"

// Category enum
type Category string

const (
	Water      Category = "Water"
	Food       Category = "Food"
	Medical    Category = "Medical"
	Shelter    Category = "Shelter"
	Evacuation Category = "Evacuation"
)

// Categories lists every valid request category.
var Categories = []Category{Water, Food, Medical, Shelter, Evacuation}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Status enum
type Status string

const (
	Pending    Status = "Pending"
	Accepted   Status = "Accepted"
	InProgress Status = "InProgress"
	Complete   Status = "Complete"
)

// Statuses lists every status in lifecycle order: a request only ever
// moves forward through this sequence.
var Statuses = []Status{Pending, Accepted, InProgress, Complete}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Next returns the status that follows s in the lifecycle, or "" when s
// is terminal or unknown. Pending is excluded: leaving Pending requires
// accepting, which binds a volunteer.
func (s Status) Next() Status {
	switch s {
	case Accepted:
		return InProgress
	case InProgress:
		return Complete
	}
	return ""
}

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinates) InRange() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Request represents a single help request submitted by a victim.
// Requests are never deleted; completed requests stay in the store for
// analytics and export.
type Request struct {
	ID          string       `json:"id"`
	Category    Category     `json:"category"`
	Name        string       `json:"name"`
	Phone       string       `json:"phone"`
	Address     string       `json:"address"`
	Notes       string       `json:"notes,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Status      Status       `json:"status"`
	Responder   string       `json:"responder,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
