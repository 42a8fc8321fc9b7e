package pages

import "encoding/json"

const schemaContext = "https://schema.org"

type organizationLD struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Logo        string   `json:"logo,omitempty"`
	Telephone   string   `json:"telephone,omitempty"`
	Email       string   `json:"email,omitempty"`
	SameAs      []string `json:"sameAs,omitempty"`
	KnowsAbout  []string `json:"knowsAbout,omitempty"`
}

type faqPageLD struct {
	Context    string       `json:"@context"`
	Type       string       `json:"@type"`
	MainEntity []questionLD `json:"mainEntity"`
}

type questionLD struct {
	Type           string   `json:"@type"`
	Name           string   `json:"name"`
	AcceptedAnswer answerLD `json:"acceptedAnswer"`
}

type answerLD struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type localBusinessLD struct {
	Context      string   `json:"@context"`
	Type         string   `json:"@type"`
	Name         string   `json:"name"`
	Address      string   `json:"address,omitempty"`
	Telephone    string   `json:"telephone,omitempty"`
	Email        string   `json:"email,omitempty"`
	URL          string   `json:"url,omitempty"`
	OpeningHours string   `json:"openingHours,omitempty"`
	HasMap       string   `json:"hasMap,omitempty"`
	SameAs       []string `json:"sameAs,omitempty"`
}

// structuredData marshals a JSON-LD document. encoding/json escapes <, > and
// & so the result is safe inside a script element.
func structuredData(v any) ([]byte, error) {
	return json.Marshal(v)
}
