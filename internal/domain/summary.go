package domain

// Count is one ranked entry of a summary view.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DayCount is the number of postings published on one calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary holds the derived views over a session's postings
type Summary struct {
	Total          int        `json:"total_jobs"`
	TopEmployers   []Count    `json:"top_companies"`
	TopLocations   []Count    `json:"locations_distribution"`
	Skills         []Count    `json:"common_skills"`
	PostingsPerDay []DayCount `json:"posting_trends"`
}
