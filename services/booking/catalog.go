package booking

import "trimly/models"

// serviceCatalog is the shop's fixed service list.
var serviceCatalog = []models.ServiceOption{
	{ID: 1, Name: "Haircut", Price: 30, Duration: 30, Description: "Precision cuts tailored to your style"},
	{ID: 2, Name: "Beard Trim", Price: 20, Duration: 20, Description: "Sharp and clean beard shaping"},
	{ID: 3, Name: "Shave", Price: 25, Duration: 25, Description: "Classic straight razor shave"},
}

// availableTimes are the bookable time-of-day slot labels. 13:00 is the
// lunch break.
var availableTimes = []string{
	"09:00", "10:00", "11:00", "12:00",
	"14:00", "15:00", "16:00", "17:00", "18:00",
}

// Catalog returns the bookable services.
func (s *DefaultBookingService) Catalog() []models.ServiceOption {
	out := make([]models.ServiceOption, len(serviceCatalog))
	copy(out, serviceCatalog)
	return out
}

// AvailableTimes returns the bookable slot labels.
func (s *DefaultBookingService) AvailableTimes() []string {
	out := make([]string, len(availableTimes))
	copy(out, availableTimes)
	return out
}

func serviceByID(id int) (models.ServiceOption, bool) {
	for _, svc := range serviceCatalog {
		if svc.ID == id {
			return svc, true
		}
	}
	return models.ServiceOption{}, false
}

func isAvailableTime(label string) bool {
	for _, t := range availableTimes {
		if t == label {
			return true
		}
	}
	return false
}
