package synth

import (
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/record"
	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
)

const missingTime = "—"

// Hours renders opening hours. A direct hours field wins; otherwise a list of
// opening-hours specifications is rendered as "<day>: <opens> – <closes>"
// entries joined with "; ".
func (s *Synthesizer) Hours(rec record.Record) string {
	if hours := s.r.String(rec, resolve.Hours); hours != "" {
		return hours
	}

	specs, ok := resolve.FirstPresent(rec, "openingHoursSpecification", "opening_hours_specification").([]any)
	if !ok {
		return ""
	}

	rows := make([]string, 0, len(specs))
	for _, item := range specs {
		spec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		day := dayName(resolve.FirstPresent(spec, "dayOfWeek", "day", "weekday"))
		opens := resolve.FirstOf(spec, "opens", "openingTime")
		closes := resolve.FirstOf(spec, "closes", "closingTime")
		if day == "" || (opens == "" && closes == "") {
			continue
		}
		rows = append(rows, day+": "+orDash(opens)+" – "+orDash(closes))
	}
	return strings.Join(rows, "; ")
}

// dayName takes the first element of a list and the last segment of a
// slash-delimited token, so "https://schema.org/Monday" becomes "Monday".
func dayName(v any) string {
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		v = list[0]
	}
	day := resolve.FirstNonEmpty(v)
	if i := strings.LastIndex(day, "/"); i >= 0 {
		day = day[i+1:]
	}
	return day
}

func orDash(s string) string {
	if s == "" {
		return missingTime
	}
	return s
}
