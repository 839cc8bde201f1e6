package constants

// Category is a free-form entry category. These are the values the UI offers;
// anything else is stored as given.
type Category string

const (
	General     Category = "General"
	Maintenance Category = "Maintenance"
	Repairs     Category = "Repairs"
	Utilities   Category = "Utilities"
	Supplies    Category = "Supplies"
	Equipment   Category = "Equipment"
	Services    Category = "Services"
)
