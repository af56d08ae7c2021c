package location

// frenchDepartments is the closed set of French department names, stored in
// canonical matching form (lowercase, accents folded, hyphens and apostrophes
// replaced by spaces). Includes the five overseas departments.
var frenchDepartments = map[string]struct{}{
	"ain":                     {},
	"aisne":                   {},
	"allier":                  {},
	"alpes de haute provence": {},
	"hautes alpes":            {},
	"alpes maritimes":         {},
	"ardeche":                 {},
	"ardennes":                {},
	"ariege":                  {},
	"aube":                    {},
	"aude":                    {},
	"aveyron":                 {},
	"bouches du rhone":        {},
	"calvados":                {},
	"cantal":                  {},
	"charente":                {},
	"charente maritime":       {},
	"cher":                    {},
	"correze":                 {},
	"corse du sud":            {},
	"haute corse":             {},
	"cote d or":               {},
	"cotes d armor":           {},
	"creuse":                  {},
	"dordogne":                {},
	"doubs":                   {},
	"drome":                   {},
	"eure":                    {},
	"eure et loir":            {},
	"finistere":               {},
	"gard":                    {},
	"haute garonne":           {},
	"gers":                    {},
	"gironde":                 {},
	"herault":                 {},
	"ille et vilaine":         {},
	"indre":                   {},
	"indre et loire":          {},
	"isere":                   {},
	"jura":                    {},
	"landes":                  {},
	"loir et cher":            {},
	"loire":                   {},
	"haute loire":             {},
	"loire atlantique":        {},
	"loiret":                  {},
	"lot":                     {},
	"lot et garonne":          {},
	"lozere":                  {},
	"maine et loire":          {},
	"manche":                  {},
	"marne":                   {},
	"haute marne":             {},
	"mayenne":                 {},
	"meurthe et moselle":      {},
	"meuse":                   {},
	"morbihan":                {},
	"moselle":                 {},
	"nievre":                  {},
	"nord":                    {},
	"oise":                    {},
	"orne":                    {},
	"pas de calais":           {},
	"puy de dome":             {},
	"pyrenees atlantiques":    {},
	"hautes pyrenees":         {},
	"pyrenees orientales":     {},
	"bas rhin":                {},
	"haut rhin":               {},
	"rhone":                   {},
	"haute saone":             {},
	"saone et loire":          {},
	"sarthe":                  {},
	"savoie":                  {},
	"haute savoie":            {},
	"paris":                   {},
	"seine maritime":          {},
	"seine et marne":          {},
	"yvelines":                {},
	"deux sevres":             {},
	"somme":                   {},
	"tarn":                    {},
	"tarn et garonne":         {},
	"var":                     {},
	"vaucluse":                {},
	"vendee":                  {},
	"vienne":                  {},
	"haute vienne":            {},
	"vosges":                  {},
	"yonne":                   {},
	"territoire de belfort":   {},
	"essonne":                 {},
	"hauts de seine":          {},
	"seine saint denis":       {},
	"val de marne":            {},
	"val d oise":              {},
	"guadeloupe":              {},
	"martinique":              {},
	"guyane":                  {},
	"la reunion":              {},
	"mayotte":                 {},
}

// IsFrenchDepartment reports whether name, once canonicalized, is a member of
// the closed French department set.
func IsFrenchDepartment(name string) bool {
	_, ok := frenchDepartments[canonicalKey(name)]
	return ok
}
