package feed

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// publicSite is the base for constructed job URLs; the API serves from the
// same host but the public pages live under /fr/tech-it/.
const publicSite = "https://www.free-work.com/fr/tech-it/"

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Normalize maps one raw listing to a canonical JobPosting. It never fails: a
// malformed listing degrades to "N/A" sentinels rather than aborting the page.
// City and department are left unset; the caller classifies the raw location.
func Normalize(raw RawListing, ingestionDate string) JobPosting {
	return JobPosting{
		ID:               raw.ID,
		Title:            valueOrNA(raw.Title),
		Location:         locationLabel(raw),
		Company:          companyName(raw),
		Description:      CleanHTML(raw.Description),
		CandidateProfile: CleanHTML(raw.CandidateProfile),
		Skills:           flattenSkills(raw.Skills),
		ExperienceLevel:  valueOrNA(raw.ExperienceLevel),
		Duration:         duration(raw),
		RemoteMode:       valueOrNA(raw.RemoteMode),
		DailySalary:      dailySalary(raw),
		StartsAt:         valueOrNA(raw.StartsAt),
		ExpiredAt:        valueOrNA(raw.ExpiredAt),
		PublishedAt:      valueOrNA(raw.PublishedAt),
		Contracts:        raw.Contracts,
		Source:           Source,
		Date:             ingestionDate,
		URL:              postingURL(raw),
		Scraping:         detectScrapingTopic(raw.Description, raw.CandidateProfile),
	}
}

// CleanHTML strips markup (including script/style content), collapses
// whitespace runs to single spaces and trims. An empty result maps to the
// "N/A" sentinel, never an empty string.
func CleanHTML(htmlText string) string {
	if strings.TrimSpace(htmlText) == "" {
		return SentinelNA
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return collapseOrNA(htmlText)
	}
	doc.Find("script, style").Remove()

	var b strings.Builder
	for _, node := range doc.Nodes {
		appendText(node, &b)
	}
	return collapseOrNA(b.String())
}

// appendText walks the node tree collecting text content with a separating
// space between nodes, mirroring how element boundaries read as breaks.
func appendText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendText(c, b)
	}
}

func collapseOrNA(s string) string {
	cleaned := strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
	if cleaned == "" {
		return SentinelNA
	}
	return cleaned
}

// dailySalary derives the salary string with the precedence
// explicit > min+max range > single bound > N/A.
func dailySalary(raw RawListing) string {
	if raw.DailySalary != nil && strings.TrimSpace(*raw.DailySalary) != "" {
		return *raw.DailySalary
	}
	minSet := raw.MinDailySalary != nil && *raw.MinDailySalary != 0
	maxSet := raw.MaxDailySalary != nil && *raw.MaxDailySalary != 0
	switch {
	case minSet && maxSet:
		return fmt.Sprintf("%d-%d €", *raw.MinDailySalary, *raw.MaxDailySalary)
	case minSet:
		return fmt.Sprintf("%d €", *raw.MinDailySalary)
	case maxSet:
		return fmt.Sprintf("%d €", *raw.MaxDailySalary)
	default:
		return SentinelNA
	}
}

// flattenSkills flattens each skill's nested descriptions into an ordered
// list. A skill without descriptions still yields one "N/A" placeholder entry
// so the skill itself is never dropped.
func flattenSkills(skills []RawSkill) []Skill {
	out := make([]Skill, 0, len(skills))
	for _, s := range skills {
		entry := Skill{Slug: valueOrNA(s.Slug)}
		if len(s.SkillJobs) == 0 {
			entry.Descriptions = []string{SentinelNA}
		} else {
			entry.Descriptions = make([]string, 0, len(s.SkillJobs))
			for _, sj := range s.SkillJobs {
				entry.Descriptions = append(entry.Descriptions, valueOrNA(sj.Description))
			}
		}
		out = append(out, entry)
	}
	return out
}

// postingURL builds the public listing URL. The API identifier path
// /job_postings/ is rewritten to the public /job-mission/ segment; if either
// the slug or the identifier is missing, the URL is the sentinel.
func postingURL(raw RawListing) string {
	slug := ""
	if raw.Job != nil {
		slug = raw.Job.NameForUserSlug
	}
	id := raw.IRI
	if strings.HasPrefix(id, "/job_postings/") {
		id = strings.Replace(id, "/job_postings/", "/job-mission/", 1)
	}
	if slug == "" || id == "" {
		return SentinelNA
	}
	return publicSite + slug + id
}

func duration(raw RawListing) string {
	if raw.DurationValue == nil || *raw.DurationValue == 0 {
		return SentinelNA
	}
	period := raw.DurationPeriod
	if period == "" {
		period = SentinelNA
	}
	return fmt.Sprintf("%d %s", *raw.DurationValue, period)
}

// detectScrapingTopic reports whether the listing text mentions web scraping,
// matched case-insensitively across description and candidate profile.
func detectScrapingTopic(description, candidateProfile string) bool {
	const phrase = "web scraping"
	return strings.Contains(strings.ToLower(description), phrase) ||
		strings.Contains(strings.ToLower(candidateProfile), phrase)
}

func locationLabel(raw RawListing) string {
	if raw.Location == nil {
		return SentinelNA
	}
	return valueOrNA(raw.Location.Label)
}

func companyName(raw RawListing) string {
	if raw.Company == nil {
		return SentinelNA
	}
	return valueOrNA(raw.Company.Name)
}

func valueOrNA(s string) string {
	if s == "" {
		return SentinelNA
	}
	return s
}
