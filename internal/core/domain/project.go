package domain

import "time"

// ProjectStatus is the delivery state of a project.
type ProjectStatus string

// Project statuses offered by the append form. Loaded data may carry others.
const (
	ProjectStatusOnTrack    ProjectStatus = "On track"
	ProjectStatusDelayed    ProjectStatus = "Delayed"
	ProjectStatusShipped    ProjectStatus = "Shipped"
	ProjectStatusInProgress ProjectStatus = "In progress"
	ProjectStatusClosed     ProjectStatus = "Closed"
)

// AllProjectStatuses returns the statuses offered when adding a project.
func AllProjectStatuses() []ProjectStatus {
	return []ProjectStatus{
		ProjectStatusOnTrack,
		ProjectStatusDelayed,
		ProjectStatusShipped,
		ProjectStatusInProgress,
		ProjectStatusClosed,
	}
}

// IsValid returns true if the status is one of the form statuses.
func (s ProjectStatus) IsValid() bool {
	for _, v := range AllProjectStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// ProductFamilies are the product groups counted on the project dashboard.
var ProductFamilies = []string{"Control Panel", "Heater", "Vessel"}

// ProjectRecord is one row of the project table.
type ProjectRecord struct {
	Project  string
	Customer string
	Engineer string
	Year     *int

	// OrderKey is the normalised order number.
	OrderKey string

	Product        string
	Qty            *float64
	Value          *float64
	Balance        *float64
	Status         string
	Progress       *float64
	Phrase         string
	ManufacturedBy string

	PODate        *time.Time
	EstimatedShip *time.Time
	ActualShip    *time.Time
	CreatedAt     *time.Time
}
