package form

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *StartupFormData {
	return &StartupFormData{
		Name:                "Acme Robotics",
		DateOfIncorporation: "2021-04-12",
		RegistrationID:      "REG-00123",
		GSTNo:               "22AAAAA0000A1Z5",
		BusinessPANNumber:   "ABCDE1234F",
		Industry:            "Robotics",
		BusinessType:        TypeB2B,
		Description:         strings.Repeat("Industrial robotics platform. ", 3),
		Revenue:             "120000",
		Stage:               StageGrowth,
		ProductIsLive:       true,
		InvestmentRaised:    "500000",
		CurrentValuation:    "2500000",
		AskValue:            "1000000",
		Founders: []Founder{
			{
				Name:              "Priya Sharma",
				Email:             "priya@acme.io",
				LinkedIn:          "https://www.linkedin.com/in/priya-sharma",
				YearsOfExperience: 8,
				FieldOfExpertise:  "Mechanical Engineering",
			},
		},
	}
}

func TestValidateGST(t *testing.T) {
	tests := []struct {
		name string
		gst  string
		want bool
	}{
		{"canonical valid", "22AAAAA0000A1Z5", true},
		{"lowercase normalized", "22aaaaa0000a1z5", true},
		{"empty is valid", "", true},
		{"too short", "22AAAAA0000A1Z", false},
		{"missing literal Z", "22AAAAA0000A1X5", false},
		{"entity zero not allowed", "22AAAAA0000A0Z5", false},
		{"letters where digits expected", "AAAAAAA0000A1Z5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateGST(tt.gst))
		})
	}
}

func TestValidatePAN(t *testing.T) {
	tests := []struct {
		name string
		pan  string
		want bool
	}{
		{"canonical valid", "ABCDE1234F", true},
		{"lowercase normalized", "abcde1234f", true},
		{"empty is valid", "", true},
		{"wrong length", "ABCDE123", false},
		{"digits in letter block", "AB1DE1234F", false},
		{"trailing digit", "ABCDE12345", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePAN(tt.pan))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"simple address", "founder@startup.io", true},
		{"subdomain", "a@mail.example.com", true},
		{"missing at", "founder.startup.io", false},
		{"missing tld dot", "founder@startup", false},
		{"contains space", "foun der@startup.io", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.email))
		})
	}
}

func TestValidateLinkedIn(t *testing.T) {
	tests := []struct {
		name     string
		linkedin string
		want     bool
	}{
		{"full https url", "https://www.linkedin.com/in/jane-doe", true},
		{"no scheme", "linkedin.com/in/jane-doe", true},
		{"trailing slash", "https://linkedin.com/in/jane-doe/", true},
		{"empty is valid", "", true},
		{"company page", "https://www.linkedin.com/company/acme", false},
		{"other host", "https://twitter.com/in/jane-doe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateLinkedIn(tt.linkedin))
		})
	}
}

func TestValidateFounder(t *testing.T) {
	tests := []struct {
		name       string
		founder    Founder
		wantValid  bool
		wantErrors []string
	}{
		{
			name: "fully valid",
			founder: Founder{
				Name:             "Ravi Kumar",
				Email:            "ravi@startup.io",
				FieldOfExpertise: "Sales",
			},
			wantValid: true,
		},
		{
			name:      "all required missing",
			founder:   Founder{},
			wantValid: false,
			wantErrors: []string{
				"Founder name is required",
				"Founder email is required",
				"Field of expertise is required",
			},
		},
		{
			name: "invalid email format",
			founder: Founder{
				Name:             "Ravi Kumar",
				Email:            "not-an-email",
				FieldOfExpertise: "Sales",
			},
			wantValid:  false,
			wantErrors: []string{"Founder email is invalid"},
		},
		{
			name: "invalid linkedin",
			founder: Founder{
				Name:             "Ravi Kumar",
				Email:            "ravi@startup.io",
				LinkedIn:         "https://facebook.com/ravi",
				FieldOfExpertise: "Sales",
			},
			wantValid:  false,
			wantErrors: []string{"LinkedIn URL is invalid"},
		},
		{
			name: "negative experience",
			founder: Founder{
				Name:              "Ravi Kumar",
				Email:             "ravi@startup.io",
				YearsOfExperience: -1,
				FieldOfExpertise:  "Sales",
			},
			wantValid:  false,
			wantErrors: []string{"Years of experience cannot be negative"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateFounder(tt.founder)
			assert.Equal(t, tt.wantValid, result.IsValid)
			assert.Equal(t, tt.wantErrors, result.Errors)
		})
	}
}

func TestValidateStep1(t *testing.T) {
	t.Run("valid draft has no errors", func(t *testing.T) {
		assert.Empty(t, ValidateStep1(validDraft()))
	})

	t.Run("whitespace-only name is rejected", func(t *testing.T) {
		draft := validDraft()
		draft.Name = "   "
		errs := ValidateStep1(draft)
		assert.Equal(t, "Startup name is required", errs["name"])
	})

	t.Run("description of 49 characters is rejected", func(t *testing.T) {
		draft := validDraft()
		draft.Description = strings.Repeat("x", 49)
		errs := ValidateStep1(draft)
		assert.Equal(t, "Description must be at least 50 characters", errs["description"])

		draft.Description = strings.Repeat("x", 50)
		assert.NotContains(t, ValidateStep1(draft), "description")
	})

	t.Run("incorporation tomorrow is rejected, today is not", func(t *testing.T) {
		draft := validDraft()
		draft.DateOfIncorporation = time.Now().AddDate(0, 0, 1).Format("2006-01-02")
		errs := ValidateStep1(draft)
		assert.Equal(t, "Date of incorporation cannot be in the future", errs["date_of_incorporation"])

		draft.DateOfIncorporation = time.Now().Format("2006-01-02")
		assert.NotContains(t, ValidateStep1(draft), "date_of_incorporation")
	})

	t.Run("bad identifiers flagged per field", func(t *testing.T) {
		draft := validDraft()
		draft.GSTNo = "not-a-gst"
		draft.BusinessPANNumber = "nope"
		errs := ValidateStep1(draft)
		assert.Equal(t, "Invalid GST number format", errs["gst_no"])
		assert.Equal(t, "Invalid PAN number format", errs["business_pan_number"])
	})

	t.Run("missing classification fields", func(t *testing.T) {
		draft := validDraft()
		draft.Industry = ""
		draft.BusinessType = ""
		errs := ValidateStep1(draft)
		assert.Equal(t, "Industry is required", errs["industry"])
		assert.Equal(t, "Business type is required", errs["business_type"])
	})

	t.Run("idempotent on unchanged draft", func(t *testing.T) {
		draft := validDraft()
		draft.Name = ""
		draft.GSTNo = "bad"
		first := ValidateStep1(draft)
		second := ValidateStep1(draft)
		assert.Equal(t, first, second)
	})
}

func TestValidateStep2(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*StartupFormData)
		wantField string
		wantMsg   string
	}{
		{
			name:   "valid draft",
			mutate: func(d *StartupFormData) {},
		},
		{
			name:   "empty financials are valid",
			mutate: func(d *StartupFormData) { d.Revenue, d.InvestmentRaised, d.CurrentValuation, d.AskValue = "", "", "", "" },
		},
		{
			name:      "missing stage",
			mutate:    func(d *StartupFormData) { d.Stage = "" },
			wantField: "stage",
			wantMsg:   "Business stage is required",
		},
		{
			name:      "non-numeric revenue",
			mutate:    func(d *StartupFormData) { d.Revenue = "a lot" },
			wantField: "revenue",
			wantMsg:   "Revenue must be a valid positive number",
		},
		{
			name:      "negative investment",
			mutate:    func(d *StartupFormData) { d.InvestmentRaised = "-5" },
			wantField: "investment_raised",
			wantMsg:   "Investment raised must be a valid positive number",
		},
		{
			name:      "negative valuation",
			mutate:    func(d *StartupFormData) { d.CurrentValuation = "-0.01" },
			wantField: "current_valuation",
			wantMsg:   "Current valuation must be a valid positive number",
		},
		{
			name:      "non-numeric ask",
			mutate:    func(d *StartupFormData) { d.AskValue = "10cr" },
			wantField: "ask_value",
			wantMsg:   "Ask value must be a valid positive number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(draft)
			errs := ValidateStep2(draft)
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.wantMsg, errs[tt.wantField])
		})
	}
}

func TestValidateStep3(t *testing.T) {
	t.Run("empty founder list short-circuits", func(t *testing.T) {
		draft := validDraft()
		draft.Founders = nil
		errs := ValidateStep3(draft)
		assert.Equal(t, StartupFormErrors{"founders": "At least one founder is required"}, errs)
	})

	t.Run("second founder missing email", func(t *testing.T) {
		draft := validDraft()
		draft.Founders = append(draft.Founders, Founder{
			Name:             "Arjun Mehta",
			FieldOfExpertise: "Finance",
		})
		errs := ValidateStep3(draft)
		assert.Equal(t, "Founder 2: Founder email is required", errs["founders"])
	})

	t.Run("multiple failing founders joined in order", func(t *testing.T) {
		draft := validDraft()
		draft.Founders = []Founder{
			{},
			draft.Founders[0],
			{Name: "Arjun Mehta", Email: "bad", FieldOfExpertise: "Finance"},
		}
		errs := ValidateStep3(draft)
		assert.Equal(t,
			"Founder 1: Founder name is required, Founder email is required, Field of expertise is required; "+
				"Founder 3: Founder email is invalid",
			errs["founders"])
	})

	t.Run("all valid founders produce no errors", func(t *testing.T) {
		assert.Empty(t, ValidateStep3(validDraft()))
	})
}

func TestValidateFounders(t *testing.T) {
	founders := []Founder{
		{Name: "A", Email: "a@b.co", FieldOfExpertise: "Tech"},
		{Name: "B", FieldOfExpertise: "Ops"},
	}
	byIndex := ValidateFounders(founders)
	require.Len(t, byIndex, 1)
	assert.Equal(t, []string{"Founder email is required"}, byIndex[1])
}

func TestValidateForm(t *testing.T) {
	t.Run("merges errors across steps", func(t *testing.T) {
		draft := validDraft()
		draft.Name = ""
		draft.Revenue = "bad"
		draft.Founders = nil
		errs := ValidateForm(draft)
		assert.Equal(t, "Startup name is required", errs["name"])
		assert.Equal(t, "Revenue must be a valid positive number", errs["revenue"])
		assert.Equal(t, "At least one founder is required", errs["founders"])
	})

	t.Run("valid draft passes", func(t *testing.T) {
		assert.Empty(t, ValidateForm(validDraft()))
	})
}

func TestValidateStepDispatch(t *testing.T) {
	draft := validDraft()
	draft.Name = ""
	draft.Stage = ""
	draft.Founders = nil

	assert.Contains(t, ValidateStep(1, draft), "name")
	assert.Contains(t, ValidateStep(2, draft), "stage")
	assert.Contains(t, ValidateStep(3, draft), "founders")
	assert.Empty(t, ValidateStep(7, draft))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"empty", "", 0, true},
		{"integer", "1200", 1200, true},
		{"decimal", "0.5", 0.5, true},
		{"zero", "0", 0, true},
		{"negative", "-1", 0, false},
		{"not a number", "ten", 0, false},
		{"infinity", "Inf", 0, false},
		{"nan", "NaN", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
