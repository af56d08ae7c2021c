package feed

// SentinelNA is the canonical placeholder used instead of null/empty for
// display-oriented fields. Downstream consumers treat it as plain text.
const SentinelNA = "N/A"

// Source is the constant tag identifying the origin feed.
const Source = "freework"

// Skill is a flattened skill entry persisted with each posting.
type Skill struct {
	Slug         string   `json:"slug"`
	Descriptions []string `json:"descriptions"`
}

// JobPosting is the canonical persisted record, keyed by ID.
type JobPosting struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Location         string   `json:"location"`
	City             *string  `json:"city"`
	Department       *string  `json:"department"`
	Company          string   `json:"company"`
	Description      string   `json:"description"`
	CandidateProfile string   `json:"candidate_profile"`
	Skills           []Skill  `json:"skills"`
	ExperienceLevel  string   `json:"experience_level"`
	Duration         string   `json:"duration"`
	RemoteMode       string   `json:"remote_mode"`
	DailySalary      string   `json:"daily_salary"`
	StartsAt         string   `json:"starts_at"`
	ExpiredAt        string   `json:"expired_at"`
	PublishedAt      string   `json:"published_at"`
	Contracts        []string `json:"contracts"`
	Source           string   `json:"source"`
	Date             string   `json:"date"`
	URL              string   `json:"url"`
	Scraping         bool     `json:"scraping"`
}
