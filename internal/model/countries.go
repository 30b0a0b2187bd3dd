package model

// Countries is the fixed roster the map covers, in data-source order:
// Europe plus its immediate neighborhood, keyed by ISO 3166-1 alpha-2.
var Countries = []string{
	"GL", "IS", "MA", "TN", "DZ", "BY", "JO", "KZ", "NO", "UA",
	"IL", "SA", "IQ", "AZ", "IR", "GE", "SY", "TR", "AM", "CY",
	"CH", "MD", "AL", "LB", "AD", "MC", "LI", "BA", "MK", "HR",
	"PT", "ES", "BE", "IT", "PL", "GR", "FI", "DE", "SE", "IE",
	"GB", "AT", "CZ", "SK", "HU", "LT", "LV", "RO", "BG", "EE",
	"SM", "LU", "FR", "NL", "SI", "DK", "RU", "MT", "ME", "RS",
}

var countryNames = map[string]string{
	"GL": "Greenland",
	"IS": "Iceland",
	"MA": "Morocco",
	"TN": "Tunisia",
	"DZ": "Algeria",
	"BY": "Belarus",
	"JO": "Jordan",
	"KZ": "Kazakhstan",
	"NO": "Norway",
	"UA": "Ukraine",
	"IL": "Israel",
	"SA": "Saudi Arabia",
	"IQ": "Iraq",
	"AZ": "Azerbaijan",
	"IR": "Iran",
	"GE": "Georgia",
	"SY": "Syria",
	"TR": "Türkiye",
	"AM": "Armenia",
	"CY": "Cyprus",
	"CH": "Switzerland",
	"MD": "Moldova",
	"AL": "Albania",
	"LB": "Lebanon",
	"AD": "Andorra",
	"MC": "Monaco",
	"LI": "Liechtenstein",
	"BA": "Bosnia and Herzegovina",
	"MK": "North Macedonia",
	"HR": "Croatia",
	"PT": "Portugal",
	"ES": "Spain",
	"BE": "Belgium",
	"IT": "Italy",
	"PL": "Poland",
	"GR": "Greece",
	"FI": "Finland",
	"DE": "Germany",
	"SE": "Sweden",
	"IE": "Ireland",
	"GB": "United Kingdom",
	"AT": "Austria",
	"CZ": "Czechia",
	"SK": "Slovakia",
	"HU": "Hungary",
	"LT": "Lithuania",
	"LV": "Latvia",
	"RO": "Romania",
	"BG": "Bulgaria",
	"EE": "Estonia",
	"SM": "San Marino",
	"LU": "Luxembourg",
	"FR": "France",
	"NL": "Netherlands",
	"SI": "Slovenia",
	"DK": "Denmark",
	"RU": "Russia",
	"MT": "Malta",
	"ME": "Montenegro",
	"RS": "Serbia",
}

// DisplayName returns the English display name for a country code,
// falling back to the code itself for unknown entries.
func DisplayName(id string) string {
	if name, ok := countryNames[id]; ok {
		return name
	}
	return id
}
