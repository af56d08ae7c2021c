package location

// InternationalKeywords lists country and foreign-city markers, in canonical
// matching form. Segments are matched by substring, not exact token, so short
// entries like "uk" intentionally catch noisy legacy values such as
// "London, UK area".
var InternationalKeywords = []string{
	"international",
	"belgique",
	"belgium",
	"bruxelles",
	"brussels",
	"luxembourg",
	"suisse",
	"switzerland",
	"geneve",
	"zurich",
	"lausanne",
	"uk",
	"united kingdom",
	"royaume uni",
	"angleterre",
	"england",
	"londres",
	"london",
	"irlande",
	"ireland",
	"dublin",
	"espagne",
	"spain",
	"madrid",
	"barcelone",
	"barcelona",
	"portugal",
	"lisbonne",
	"allemagne",
	"germany",
	"berlin",
	"munich",
	"francfort",
	"pays bas",
	"netherlands",
	"nederland",
	"amsterdam",
	"italie",
	"italy",
	"milan",
	"rome",
	"canada",
	"montreal",
	"quebec",
	"toronto",
	"usa",
	"etats unis",
	"united states",
	"maroc",
	"morocco",
	"casablanca",
	"tunisie",
	"tunis",
	"algerie",
	"alger",
	"senegal",
	"dakar",
	"pologne",
	"poland",
	"varsovie",
	"roumanie",
	"romania",
	"bucarest",
}

// MatchesInternational reports whether a raw value contains an international
// keyword after canonicalization. The migration uses it to spot stored
// city/department values that are really country names.
func MatchesInternational(value string) bool {
	return matchesInternational(canonicalKey(value))
}

func matchesInternational(canonical string) bool {
	if canonical == "" {
		return false
	}
	for _, kw := range InternationalKeywords {
		if containsSubstring(canonical, kw) {
			return true
		}
	}
	return false
}
