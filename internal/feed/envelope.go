package feed

// Envelope is the top-level hydra response wrapping one page of listings plus
// pagination metadata.
type Envelope struct {
	Members []RawListing `json:"hydra:member"`
	View    *View        `json:"hydra:view"`
}

// View carries the hydra pagination hyperlinks.
type View struct {
	Next string `json:"hydra:next"`
}

// RawListing mirrors a single job posting object as served by the API.
// Every field is optional; the normalizer supplies defaults.
type RawListing struct {
	IRI              string     `json:"@id"`
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Location         *Label     `json:"location"`
	Company          *NamedRef  `json:"company"`
	Description      string     `json:"description"`
	CandidateProfile string     `json:"candidateProfile"`
	Skills           []RawSkill `json:"skills"`
	ExperienceLevel  string     `json:"experienceLevel"`
	DurationValue    *int       `json:"durationValue"`
	DurationPeriod   string     `json:"durationPeriod"`
	RemoteMode       string     `json:"remoteMode"`
	DailySalary      *string    `json:"dailySalary"`
	MinDailySalary   *int       `json:"minDailySalary"`
	MaxDailySalary   *int       `json:"maxDailySalary"`
	StartsAt         string     `json:"startsAt"`
	ExpiredAt        string     `json:"expiredAt"`
	PublishedAt      string     `json:"publishedAt"`
	Contracts        []string   `json:"contracts"`
	Job              *JobRef    `json:"job"`
}

// Label is a nested object exposing a display label (e.g. location).
type Label struct {
	Label string `json:"label"`
}

// NamedRef is a nested object exposing a name (e.g. company).
type NamedRef struct {
	Name string `json:"name"`
}

// JobRef carries the job family metadata used to build the public URL.
type JobRef struct {
	NameForUserSlug string `json:"nameForUserSlug"`
}

// RawSkill is one skill entry with its nested job-specific descriptions.
type RawSkill struct {
	Slug      string        `json:"slug"`
	SkillJobs []RawSkillJob `json:"skillJobs"`
}

// RawSkillJob holds a per-job skill description.
type RawSkillJob struct {
	Description string `json:"description"`
}
