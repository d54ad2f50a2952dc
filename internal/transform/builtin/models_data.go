package builtin

// brandOrder fixes the iteration order over modelsByBrand wherever the
// whole catalog is scanned.
var brandOrder = []string{
	"audi", "bmw", "ford", "hyundai", "mercedes", "skoda", "opel", "vw", "toyota",
}

// modelsByBrand is the known model catalog used to repair truncated model
// names and to backfill a missing brand from an exact model match.
var modelsByBrand = map[string][]string{
	"audi": {
		"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8",
		"q2", "q3", "q5", "q7", "q8",
		"r8", "rs3", "rs4", "rs5", "rs6", "rs7",
		"s3", "s4", "s5", "s8", "sq5", "sq7", "tt",
	},
	"bmw": {
		"1 series", "2 series", "3 series", "4 series", "5 series",
		"6 series", "7 series", "8 series",
		"i3", "i8",
		"m2", "m3", "m4", "m5", "m6",
		"x1", "x2", "x3", "x4", "x5", "x6", "x7",
		"z3", "z4",
	},
	"ford": {
		"b-max", "c-max", "ecosport", "edge", "escort", "fiesta", "focus",
		"fusion", "galaxy", "grand c-max", "grand tourneo connect",
		"ka", "ka+", "kuga", "mondeo", "mustang", "puma", "ranger",
		"s-max", "streetka", "tourneo connect", "tourneo custom",
		"transit tourneo",
	},
	"hyundai": {
		"accent", "amica", "getz", "i10", "i20", "i30", "i40", "i800",
		"ioniq", "ix20", "ix35", "kona", "santa fe", "terracan", "tucson",
		"veloster",
	},
	"mercedes": {
		"180", "200", "220", "230",
		"a class", "b class", "c class", "cl class", "cla class",
		"clc class", "clk", "cls class", "e class", "g class", "gl class",
		"gla class", "glb class", "glc class", "gle class", "gls class",
		"m class", "r class", "s class", "sl class", "slk", "v class",
		"x-class",
	},
	"skoda": {
		"citigo", "fabia", "kamiq", "karoq", "kodiaq", "octavia", "rapid",
		"roomster", "scala", "superb", "yeti", "yeti outdoor",
	},
	"opel": {
		"adam", "agila", "ampera", "antara", "astra", "cascada",
		"combo life", "corsa", "crossland x", "grandland x", "gtc",
		"insignia", "kadjar", "meriva", "mokka", "mokka x", "tigra",
		"vectra", "viva", "vivaro", "zafira", "zafira tourer",
	},
	"vw": {
		"amarok", "arteon", "beetle", "caddy", "caddy life", "caddy maxi",
		"caddy maxi life", "california", "caravelle", "cc", "eos", "fox",
		"golf", "golf sv", "jetta", "passat", "polo", "scirocco", "sharan",
		"shuttle", "t-cross", "t-roc", "tiguan", "tiguan allspace",
		"touareg", "touran", "up",
	},
	"toyota": {
		"auris", "avensis", "aygo", "c-hr", "camry", "corolla", "gt86",
		"hilux", "iq", "land cruiser", "prius", "proace verso", "rav4",
		"supra", "urban cruiser", "verso", "verso-s", "yaris",
	},
}

// ambiguousKeepers are model names that prefix-match several catalog
// entries but are real models themselves, so they resolve to themselves
// instead of being flagged ambiguous.
var ambiguousKeepers = map[string]struct{}{
	"viva":  {},
	"mokka": {},
	"verso": {},
	"golf":  {},
	"ka":    {},
	"i3":    {},
	"i8":    {},
}

// brandOfModel returns the brand owning an exact catalog model name. A name
// listed under more than one brand identifies no brand; backfilling must
// not guess.
func brandOfModel(model string) (string, bool) {
	found := ""
	for _, brand := range brandOrder {
		for _, m := range modelsByBrand[brand] {
			if m != model {
				continue
			}
			if found != "" && found != brand {
				return "", false
			}
			found = brand
		}
	}
	return found, found != ""
}
