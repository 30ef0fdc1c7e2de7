package validation

import "github.com/samber/lo"

// States lists the state codes offered by the venue and artist forms.
var States = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL", "GA", "HI", "ID", "IL",
	"IN", "IA", "KS", "KY", "LA", "ME", "MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC",
	"ND", "OH", "OK", "OR", "MD", "MA", "MI", "MN", "MS", "MO", "PA", "RI", "SC", "SD",
	"TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

// Genres lists the genre tags offered by the venue and artist forms.
var Genres = []string{
	"Alternative", "Blues", "Classical", "Country", "Electronic", "Folk", "Funk",
	"Hip-Hop", "Heavy Metal", "Instrumental", "Jazz", "Musical Theatre", "Pop", "Punk",
	"R&B", "Reggae", "Rock n Roll", "Soul", "Swing", "Other",
}

var (
	stateSet = toSet(States)
	genreSet = toSet(Genres)
)

func toSet(values []string) map[string]struct{} {
	return lo.Associate(values, func(v string) (string, struct{}) { return v, struct{}{} })
}
