package score

import "strings"

// Location names a place being scored. Area is a town or district name,
// Postcode the full or partial postcode when known. Either may be empty.
type Location struct {
	Area     string
	Postcode string
}

// outwardCode returns the outward half of a UK postcode ("SW1A 1AA" -> "SW1A").
func outwardCode(postcode string) string {
	pc := strings.ToUpper(strings.TrimSpace(postcode))
	if i := strings.IndexByte(pc, ' '); i > 0 {
		return pc[:i]
	}
	// Full postcodes without a space end in digit-letter-letter.
	if len(pc) > 3 {
		return pc[:len(pc)-3]
	}
	return pc
}

// matchesArea reports whether a dataset location field refers to loc, by
// case-insensitive substring in either direction on the area name, or by
// outward-code prefix on the postcode.
func (loc Location) matchesArea(field string) bool {
	f := strings.ToLower(strings.TrimSpace(field))
	if f == "" {
		return false
	}
	if a := strings.ToLower(strings.TrimSpace(loc.Area)); a != "" {
		if strings.Contains(f, a) || strings.Contains(a, f) {
			return true
		}
	}
	return loc.matchesPostcode(field)
}

// matchesPostcode reports whether a dataset postcode field shares loc's
// outward code.
func (loc Location) matchesPostcode(field string) bool {
	if strings.TrimSpace(loc.Postcode) == "" {
		return false
	}
	out := outwardCode(loc.Postcode)
	return out != "" && strings.HasPrefix(strings.ToUpper(strings.TrimSpace(field)), out)
}
