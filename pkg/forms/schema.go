// pkg/forms/schema.go
package forms

// StepRegistry describes the onboarding wizard's steps and fields. It
// is what the presentation layer renders from and what the schema
// endpoint serves.
type StepRegistry struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
	Steps       []Step `json:"steps"`
}

type Step struct {
	Number int     `json:"number"`
	Label  string  `json:"label"`
	Fields []Field `json:"fields"`
}

type Field struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	HelpText    string   `json:"helpText,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
