package vehicles

type Vehicle struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
	Year  int    `json:"year"`
}

// Payload is the body of POST /vehicles and PUT /vehicles/{id}.
type Payload struct {
	Name  string `json:"name" validate:"notblank"`
	Brand string `json:"brand" validate:"notblank"`
	Year  int    `json:"year" validate:"gte=1950"`
}

// Filter selects a page of vehicles. Page <= 0 means every matching row.
// Name and Brand are case-insensitive substring matches.
type Filter struct {
	Page  int
	Name  string
	Brand string
}
