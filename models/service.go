package models

// ServiceOption is a bookable service from the shop catalog.
type ServiceOption struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"` // minutes
	Description string  `json:"description,omitempty"`
}
