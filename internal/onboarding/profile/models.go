package profile

import (
	"strings"
	"time"

	"startup-onboarding/internal/onboarding/form"
)

// StoredFounder is a founder as persisted inside a startup record.
type StoredFounder struct {
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	LinkedIn          *string `json:"linkedin"`
	YearsOfExperience int     `json:"years_of_experience"`
	FieldOfExpertise  string  `json:"field_of_expertise"`
}

// StoredProfile is the persisted startup record. Optional fields are
// pointers so "not provided" survives the round-trip to the database
// as NULL instead of a zero value.
type StoredProfile struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	Name                string          `json:"name"`
	DateOfIncorporation *string         `json:"date_of_incorporation"`
	RegistrationID      *string         `json:"registration_id"`
	GSTNo               *string         `json:"gst_no"`
	BusinessPANNumber   *string         `json:"business_pan_number"`
	Industry            string          `json:"industry"`
	BusinessType        string          `json:"business_type"`
	Description         string          `json:"description"`
	Revenue             *float64        `json:"revenue"`
	Stage               string          `json:"stage"`
	ProductIsLive       bool            `json:"product_is_live"`
	InvestmentRaised    *float64        `json:"investment_raised"`
	CurrentValuation    *float64        `json:"current_valuation"`
	AskValue            *float64        `json:"ask_value"`
	Founders            []StoredFounder `json:"founders"`
	CreatedAt           time.Time       `json:"created_at"`
}

// Summary is the reduced shape returned by the public directory
// listing.
type Summary struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Industry         string    `json:"industry"`
	BusinessType     string    `json:"business_type"`
	Stage            string    `json:"stage"`
	Description      string    `json:"description"`
	ProductIsLive    bool      `json:"product_is_live"`
	CurrentValuation *float64  `json:"current_valuation"`
	AskValue         *float64  `json:"ask_value"`
	CreatedAt        time.Time `json:"created_at"`
}

// FromDraft normalizes a validated draft into a record ready for
// insertion: text is trimmed, GST and PAN are uppercased, founder
// emails are lowercased, empty optional fields become NULL, and
// financial text is parsed to numbers.
func FromDraft(userID string, d *form.StartupFormData) *StoredProfile {
	p := &StoredProfile{
		UserID:              userID,
		Name:                strings.TrimSpace(d.Name),
		DateOfIncorporation: optionalText(d.DateOfIncorporation),
		RegistrationID:      optionalText(d.RegistrationID),
		GSTNo:               optionalText(strings.ToUpper(strings.TrimSpace(d.GSTNo))),
		BusinessPANNumber:   optionalText(strings.ToUpper(strings.TrimSpace(d.BusinessPANNumber))),
		Industry:            strings.TrimSpace(d.Industry),
		BusinessType:        string(d.BusinessType),
		Description:         strings.TrimSpace(d.Description),
		Revenue:             optionalAmount(d.Revenue),
		Stage:               string(d.Stage),
		ProductIsLive:       d.ProductIsLive,
		InvestmentRaised:    optionalAmount(d.InvestmentRaised),
		CurrentValuation:    optionalAmount(d.CurrentValuation),
		AskValue:            optionalAmount(d.AskValue),
	}

	p.Founders = make([]StoredFounder, len(d.Founders))
	for i, f := range d.Founders {
		p.Founders[i] = StoredFounder{
			Name:              strings.TrimSpace(f.Name),
			Email:             strings.ToLower(strings.TrimSpace(f.Email)),
			LinkedIn:          optionalText(f.LinkedIn),
			YearsOfExperience: f.YearsOfExperience,
			FieldOfExpertise:  strings.TrimSpace(f.FieldOfExpertise),
		}
	}

	return p
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalAmount(s string) *float64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, ok := form.ParseAmount(s)
	if !ok {
		return nil
	}
	return &v
}
