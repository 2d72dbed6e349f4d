// pkg/forms/registry.go
package forms

import (
	"encoding/json"
	"os"
)

// LoadRegistry reads a step registry from a JSON file, used when a
// deployment overrides the built-in form layout.
func LoadRegistry(path string) (*StepRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg StepRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// BusinessStageOptions are the selectable stages with display labels.
func BusinessStageOptions() []Option {
	return []Option{
		{Value: "idea", Label: "Idea"},
		{Value: "mvp", Label: "MVP"},
		{Value: "early_stage", Label: "Early Stage"},
		{Value: "growth", Label: "Growth"},
		{Value: "scaling", Label: "Scaling"},
		{Value: "mature", Label: "Mature"},
	}
}

// BusinessTypeOptions are the selectable business models with display
// labels.
func BusinessTypeOptions() []Option {
	return []Option{
		{Value: "b2b", Label: "B2B"},
		{Value: "b2c", Label: "B2C"},
		{Value: "b2b2c", Label: "B2B2C"},
		{Value: "marketplace", Label: "Marketplace"},
		{Value: "saas", Label: "SaaS"},
		{Value: "ecommerce", Label: "E-commerce"},
		{Value: "fintech", Label: "Fintech"},
		{Value: "healthtech", Label: "Healthtech"},
		{Value: "edtech", Label: "Edtech"},
		{Value: "other", Label: "Other"},
	}
}

// DefaultRegistry is the built-in three-step onboarding layout.
func DefaultRegistry() *StepRegistry {
	return &StepRegistry{
		Version: "1.0",
		Steps: []Step{
			{
				Number: 1,
				Label:  "Basic Information",
				Fields: []Field{
					{Name: "name", Label: "Startup Name", Type: "text", Required: true},
					{Name: "date_of_incorporation", Label: "Date of Incorporation", Type: "date"},
					{Name: "registration_id", Label: "Registration ID", Type: "text"},
					{Name: "gst_no", Label: "GST Number", Type: "text", HelpText: "15-character GST identification number"},
					{Name: "business_pan_number", Label: "Business PAN", Type: "text", HelpText: "10-character PAN"},
					{Name: "industry", Label: "Industry", Type: "text", Required: true},
					{Name: "business_type", Label: "Business Type", Type: "select", Required: true, Options: BusinessTypeOptions()},
					{Name: "description", Label: "Description", Type: "textarea", Required: true, HelpText: "At least 50 characters"},
				},
			},
			{
				Number: 2,
				Label:  "Business Details",
				Fields: []Field{
					{Name: "revenue", Label: "Revenue (₹)", Type: "number"},
					{Name: "stage", Label: "Business Stage", Type: "select", Required: true, Options: BusinessStageOptions()},
					{Name: "product_is_live", Label: "Product is Live", Type: "checkbox"},
					{Name: "investment_raised", Label: "Investment Raised (₹)", Type: "number"},
					{Name: "current_valuation", Label: "Current Valuation (₹)", Type: "number"},
					{Name: "ask_value", Label: "Ask Value (₹)", Type: "number"},
				},
			},
			{
				Number: 3,
				Label:  "Founders",
				Fields: []Field{
					{Name: "name", Label: "Founder Name", Type: "text", Required: true},
					{Name: "email", Label: "Email", Type: "email", Required: true},
					{Name: "linkedin", Label: "LinkedIn Profile", Type: "url"},
					{Name: "years_of_experience", Label: "Years of Experience", Type: "number"},
					{Name: "field_of_expertise", Label: "Field of Expertise", Type: "text", Required: true},
				},
			},
		},
	}
}
