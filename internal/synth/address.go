package synth

import (
	"net/url"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/record"
	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
)

// Address formats a postal address. A string raw value is used verbatim, a
// mapping is read component by component, and anything else falls back to the
// address fields of rec itself.
func (s *Synthesizer) Address(raw any, rec record.Record) string {
	switch v := raw.(type) {
	case string:
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	case map[string]any:
		return joinAddress(
			resolve.FirstOf(v, "streetAddress", "address1", "addressLine1"),
			resolve.FirstOf(v, "address2", "addressLine2", "suite"),
			resolve.FirstOf(v, "addressLocality", "city"),
			resolve.FirstOf(v, "addressRegion", "state"),
			resolve.FirstOf(v, "postalCode", "zip", "zipCode"),
		)
	}

	return joinAddress(
		s.r.String(rec, resolve.AddressStreet),
		resolve.FirstOf(rec, "address2", "address_line_2", "suite"),
		s.r.String(rec, resolve.AddressCity),
		s.r.String(rec, resolve.AddressState),
		s.r.String(rec, resolve.AddressPostalCode),
	)
}

func joinAddress(line1, line2, city, state, postal string) string {
	var locality string
	switch {
	case city != "" && state != "":
		locality = city + ", " + state
	default:
		locality = city + state
	}

	parts := make([]string, 0, 4)
	for _, p := range []string{line1, line2, locality, postal} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// MapLink picks one map URL for a location: coordinates first, then an
// explicit embed URL, then an external maps URL, then an address query.
func (s *Synthesizer) MapLink(rec record.Record, address string) string {
	lat, latOK := s.r.Resolve(rec, resolve.Latitude).Get()
	lng, lngOK := s.r.Resolve(rec, resolve.Longitude).Get()
	if latOK && lngOK {
		latStr, isLat := resolve.FormatNumber(lat)
		lngStr, isLng := resolve.FormatNumber(lng)
		if isLat && isLng {
			return "https://www.google.com/maps?q=" + latStr + "," + lngStr + "&z=15&output=embed"
		}
	}

	if embed := s.r.String(rec, resolve.MapEmbedURL); embed != "" {
		return embed
	}
	if external := s.r.String(rec, resolve.GoogleMapsURL); external != "" {
		return external
	}
	if address != "" {
		return "https://www.google.com/maps?q=" + url.QueryEscape(address) + "&output=embed"
	}
	return ""
}
