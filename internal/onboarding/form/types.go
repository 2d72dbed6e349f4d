package form

// BusinessStage is the lifecycle stage of a startup.
type BusinessStage string

const (
	StageIdea       BusinessStage = "idea"
	StageMVP        BusinessStage = "mvp"
	StageEarlyStage BusinessStage = "early_stage"
	StageGrowth     BusinessStage = "growth"
	StageScaling    BusinessStage = "scaling"
	StageMature     BusinessStage = "mature"
)

// BusinessType classifies a startup's business model.
type BusinessType string

const (
	TypeB2B         BusinessType = "b2b"
	TypeB2C         BusinessType = "b2c"
	TypeB2B2C       BusinessType = "b2b2c"
	TypeMarketplace BusinessType = "marketplace"
	TypeSaaS        BusinessType = "saas"
	TypeEcommerce   BusinessType = "ecommerce"
	TypeFintech     BusinessType = "fintech"
	TypeHealthtech  BusinessType = "healthtech"
	TypeEdtech      BusinessType = "edtech"
	TypeOther       BusinessType = "other"
)

var businessStages = map[BusinessStage]bool{
	StageIdea:       true,
	StageMVP:        true,
	StageEarlyStage: true,
	StageGrowth:     true,
	StageScaling:    true,
	StageMature:     true,
}

var businessTypes = map[BusinessType]bool{
	TypeB2B:         true,
	TypeB2C:         true,
	TypeB2B2C:       true,
	TypeMarketplace: true,
	TypeSaaS:        true,
	TypeEcommerce:   true,
	TypeFintech:     true,
	TypeHealthtech:  true,
	TypeEdtech:      true,
	TypeOther:       true,
}

// IsValidBusinessStage reports whether s is a known stage value.
func IsValidBusinessStage(s BusinessStage) bool {
	return businessStages[s]
}

// IsValidBusinessType reports whether t is a known business type value.
func IsValidBusinessType(t BusinessType) bool {
	return businessTypes[t]
}

// Founder is one member of the founding team. Founders have no stable
// identity of their own; their position in the draft's list is the
// display and identity order.
type Founder struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	LinkedIn          string `json:"linkedin"`
	YearsOfExperience int    `json:"years_of_experience"`
	FieldOfExpertise  string `json:"field_of_expertise"`
}

// StartupFormData is the in-progress onboarding draft. Financial
// fields are kept as text while editing and only parsed to numbers at
// validation and submission time.
type StartupFormData struct {
	// Step 1: basic information
	Name                string       `json:"name"`
	DateOfIncorporation string       `json:"date_of_incorporation"`
	RegistrationID      string       `json:"registration_id"`
	GSTNo               string       `json:"gst_no"`
	BusinessPANNumber   string       `json:"business_pan_number"`
	Industry            string       `json:"industry"`
	BusinessType        BusinessType `json:"business_type"`
	Description         string       `json:"description"`

	// Step 2: business details
	Revenue          string        `json:"revenue"`
	Stage            BusinessStage `json:"stage"`
	ProductIsLive    bool          `json:"product_is_live"`
	InvestmentRaised string        `json:"investment_raised"`
	CurrentValuation string        `json:"current_valuation"`
	AskValue         string        `json:"ask_value"`

	// Step 3: founders
	Founders []Founder `json:"founders"`
}

// StartupFormErrors maps a field name (plus the synthetic keys
// "founders" and "submit") to a human-readable message. Each
// validation pass builds a fresh map.
type StartupFormErrors map[string]string

// FounderErrors maps a founder's zero-based position in the draft to
// that founder's validation messages.
type FounderErrors map[int][]string

// NewStartupFormData returns an empty draft pre-populated with one
// blank founder.
func NewStartupFormData() *StartupFormData {
	return &StartupFormData{
		Founders: []Founder{{}},
	}
}

// AddFounder appends a blank founder to the end of the list.
func (d *StartupFormData) AddFounder() {
	d.Founders = append(d.Founders, Founder{})
}

// RemoveFounder deletes the founder at index. The list never drops
// below one founder while editing, so removal from a single-element
// list is a no-op, as is an out-of-range index.
func (d *StartupFormData) RemoveFounder(index int) {
	if len(d.Founders) <= 1 || index < 0 || index >= len(d.Founders) {
		return
	}
	d.Founders = append(d.Founders[:index], d.Founders[index+1:]...)
}

// UpdateFounder replaces the founder at index in place. Out-of-range
// indexes are ignored.
func (d *StartupFormData) UpdateFounder(index int, f Founder) {
	if index < 0 || index >= len(d.Founders) {
		return
	}
	d.Founders[index] = f
}

// Clone returns a deep copy of the draft.
func (d *StartupFormData) Clone() *StartupFormData {
	c := *d
	c.Founders = make([]Founder, len(d.Founders))
	copy(c.Founders, d.Founders)
	return &c
}
