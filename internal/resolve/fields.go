// Package resolve maps loosely named record keys onto canonical fields.
//
// An AliasTable lists, for every canonical field, the source keys that may
// carry it, in precedence order. A Resolver walks that list for one record and
// returns the first present value. Tables are immutable once built.
package resolve

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Field is a canonical field name.
type Field string

const (
	EntityName        Field = "entity_name"
	ContactPerson     Field = "contact_person"
	Email             Field = "email"
	Phone             Field = "phone"
	AddressStreet     Field = "address_street"
	AddressCity       Field = "address_city"
	AddressState      Field = "address_state"
	AddressPostalCode Field = "address_postal_code"
	Hours             Field = "hours"
	MapEmbedURL       Field = "map_embed_url"
	GoogleMapsURL     Field = "google_maps_url"
	Latitude          Field = "latitude"
	Longitude         Field = "longitude"
	Website           Field = "website"
	SameAs            Field = "sameAs"
)

// CanonicalFields lists the built-in fields in display order.
var CanonicalFields = []Field{
	EntityName, ContactPerson, Email, Phone,
	AddressStreet, AddressCity, AddressState, AddressPostalCode,
	Hours, MapEmbedURL, GoogleMapsURL, Latitude, Longitude, Website, SameAs,
}

// Nested describes a fallback lookup inside a nested mapping: each container
// key is tried in order, and inside it each key in order.
type Nested struct {
	Containers []string `yaml:"containers" json:"containers"`
	Keys       []string `yaml:"keys" json:"keys"`
}

// Rule is the lookup recipe for one canonical field.
type Rule struct {
	Aliases []string `yaml:"aliases" json:"aliases"`
	Nested  *Nested  `yaml:"nested,omitempty" json:"nested,omitempty"`
}

func (r Rule) clone() Rule {
	out := Rule{Aliases: slices.Clone(r.Aliases)}
	if r.Nested != nil {
		out.Nested = &Nested{
			Containers: slices.Clone(r.Nested.Containers),
			Keys:       slices.Clone(r.Nested.Keys),
		}
	}
	return out
}

// AliasTable is an immutable mapping from canonical field to lookup rule.
type AliasTable struct {
	rules map[Field]Rule
	order []Field
}

var contactPoint = []string{"contactPoint", "contact_point"}

// DefaultAliasTable returns the built-in alias table.
func DefaultAliasTable() *AliasTable {
	return NewAliasTable(map[Field]Rule{
		EntityName:    {Aliases: []string{"entity_name", "organization", "org_name", "company", "name"}},
		ContactPerson: {Aliases: []string{"contact_person", "contact", "contact_name", "primary_contact", "attention"}},
		Email: {
			Aliases: []string{"email", "contact_email", "email_address", "mail"},
			Nested:  &Nested{Containers: contactPoint, Keys: []string{"email"}},
		},
		Phone: {
			Aliases: []string{"phone", "telephone", "tel", "phone_number", "contact_number"},
			Nested:  &Nested{Containers: contactPoint, Keys: []string{"telephone", "phone"}},
		},
		AddressStreet:     {Aliases: []string{"address_street", "streetAddress", "street", "address1", "address_line_1", "address_line"}},
		AddressCity:       {Aliases: []string{"address_city", "city", "addressLocality"}},
		AddressState:      {Aliases: []string{"address_state", "state", "addressRegion", "province"}},
		AddressPostalCode: {Aliases: []string{"address_postal_code", "postalCode", "zip", "zipCode", "postcode"}},
		Hours:             {Aliases: []string{"hours", "openingHours", "opening_hours", "business_hours"}},
		MapEmbedURL:       {Aliases: []string{"map_embed_url", "map", "map_iframe"}},
		GoogleMapsURL:     {Aliases: []string{"google_maps_url", "maps_url", "map_url"}},
		Latitude: {
			Aliases: []string{"geo_latitude", "latitude", "lat"},
			Nested:  &Nested{Containers: []string{"geo"}, Keys: []string{"latitude"}},
		},
		Longitude: {
			Aliases: []string{"geo_longitude", "longitude", "lng", "lon"},
			Nested:  &Nested{Containers: []string{"geo"}, Keys: []string{"longitude"}},
		},
		Website: {Aliases: []string{"website", "url", "homepage"}},
		SameAs:  {Aliases: []string{"sameAs", "same_as", "social", "social_links"}},
	})
}

// NewAliasTable builds a table from rules. The rules are copied.
func NewAliasTable(rules map[Field]Rule) *AliasTable {
	t := &AliasTable{rules: make(map[Field]Rule, len(rules))}
	for f, r := range rules {
		t.rules[f] = r.clone()
	}
	t.order = orderFields(t.rules)
	return t
}

// orderFields puts built-in fields first in canonical order, then any others sorted.
func orderFields(rules map[Field]Rule) []Field {
	order := make([]Field, 0, len(rules))
	for _, f := range CanonicalFields {
		if _, ok := rules[f]; ok {
			order = append(order, f)
		}
	}
	var extra []Field
	for f := range rules {
		if !slices.Contains(CanonicalFields, f) {
			extra = append(extra, f)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(order, extra...)
}

// Rule returns a copy of the rule for f.
func (t *AliasTable) Rule(f Field) (Rule, bool) {
	r, ok := t.rules[f]
	if !ok {
		return Rule{}, false
	}
	return r.clone(), true
}

// Fields returns the fields the table knows, built-in fields first.
func (t *AliasTable) Fields() []Field {
	return slices.Clone(t.order)
}

// Extend returns a new table with extra aliases appended after the existing
// ones. Aliases already listed are ignored, so defaults keep precedence.
// Unknown fields are added as new entries.
func (t *AliasTable) Extend(extra map[Field][]string) (*AliasTable, error) {
	rules := make(map[Field]Rule, len(t.rules)+len(extra))
	for f, r := range t.rules {
		rules[f] = r.clone()
	}

	for f, aliases := range extra {
		if strings.TrimSpace(string(f)) == "" {
			return nil, fmt.Errorf("alias table: empty field name")
		}
		r := rules[f]
		for _, a := range aliases {
			a = strings.TrimSpace(a)
			if a == "" {
				return nil, fmt.Errorf("alias table: empty alias for field %q", f)
			}
			if a == string(f) || slices.Contains(r.Aliases, a) {
				continue
			}
			r.Aliases = append(r.Aliases, a)
		}
		rules[f] = r
	}
	return &AliasTable{rules: rules, order: orderFields(rules)}, nil
}
