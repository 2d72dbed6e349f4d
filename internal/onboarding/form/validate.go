package form

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	gstRegex      = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	panRegex      = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	linkedinRegex = regexp.MustCompile(`^(https?://)?(www\.)?linkedin\.com/in/[\w-]+/?$`)
)

// ValidateGST checks the 15-character GST identifier format. Empty
// input is valid; required-ness is the caller's concern. Input is
// uppercased before the match.
func ValidateGST(gst string) bool {
	if gst == "" {
		return true
	}
	return gstRegex.MatchString(strings.ToUpper(gst))
}

// ValidatePAN checks the 10-character PAN identifier format. Empty
// input is valid. Input is uppercased before the match.
func ValidatePAN(pan string) bool {
	if pan == "" {
		return true
	}
	return panRegex.MatchString(strings.ToUpper(pan))
}

// ValidateEmail checks a local@domain.tld shape.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateLinkedIn checks a LinkedIn profile URL. Empty input is valid.
func ValidateLinkedIn(linkedin string) bool {
	if linkedin == "" {
		return true
	}
	return linkedinRegex.MatchString(linkedin)
}

// FounderValidation is the result of checking one founder.
type FounderValidation struct {
	IsValid bool
	Errors  []string
}

// ValidateFounder checks a single founder record.
func ValidateFounder(f Founder) FounderValidation {
	var errs []string

	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, "Founder name is required")
	}

	if strings.TrimSpace(f.Email) == "" {
		errs = append(errs, "Founder email is required")
	} else if !ValidateEmail(f.Email) {
		errs = append(errs, "Founder email is invalid")
	}

	if f.LinkedIn != "" && !ValidateLinkedIn(f.LinkedIn) {
		errs = append(errs, "LinkedIn URL is invalid")
	}

	if f.YearsOfExperience < 0 {
		errs = append(errs, "Years of experience cannot be negative")
	}

	if strings.TrimSpace(f.FieldOfExpertise) == "" {
		errs = append(errs, "Field of expertise is required")
	}

	return FounderValidation{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// ValidateStep1 checks the basic-information fields.
func ValidateStep1(data *StartupFormData) StartupFormErrors {
	errs := StartupFormErrors{}

	if strings.TrimSpace(data.Name) == "" {
		errs["name"] = "Startup name is required"
	}

	if data.DateOfIncorporation != "" {
		if isFutureDate(data.DateOfIncorporation) {
			errs["date_of_incorporation"] = "Date of incorporation cannot be in the future"
		}
	}

	if data.GSTNo != "" && !ValidateGST(data.GSTNo) {
		errs["gst_no"] = "Invalid GST number format"
	}

	if data.BusinessPANNumber != "" && !ValidatePAN(data.BusinessPANNumber) {
		errs["business_pan_number"] = "Invalid PAN number format"
	}

	if strings.TrimSpace(data.Industry) == "" {
		errs["industry"] = "Industry is required"
	}

	if data.BusinessType == "" {
		errs["business_type"] = "Business type is required"
	} else if !IsValidBusinessType(data.BusinessType) {
		errs["business_type"] = "Invalid business type"
	}

	if desc := strings.TrimSpace(data.Description); desc == "" {
		errs["description"] = "Description is required"
	} else if len([]rune(desc)) < 50 {
		errs["description"] = "Description must be at least 50 characters"
	}

	return errs
}

// ValidateStep2 checks the business-details fields. Financial fields
// are optional but must parse to a non-negative number when present.
func ValidateStep2(data *StartupFormData) StartupFormErrors {
	errs := StartupFormErrors{}

	if data.Stage == "" {
		errs["stage"] = "Business stage is required"
	} else if !IsValidBusinessStage(data.Stage) {
		errs["stage"] = "Invalid business stage"
	}

	checkAmount(errs, "revenue", data.Revenue, "Revenue must be a valid positive number")
	checkAmount(errs, "investment_raised", data.InvestmentRaised, "Investment raised must be a valid positive number")
	checkAmount(errs, "current_valuation", data.CurrentValuation, "Current valuation must be a valid positive number")
	checkAmount(errs, "ask_value", data.AskValue, "Ask value must be a valid positive number")

	return errs
}

// ValidateFounders checks every founder independently and returns the
// messages keyed by the founder's position in the list. An empty map
// means all founders are valid.
func ValidateFounders(founders []Founder) FounderErrors {
	out := FounderErrors{}
	for i, f := range founders {
		if v := ValidateFounder(f); !v.IsValid {
			out[i] = v.Errors
		}
	}
	return out
}

// ValidateStep3 checks the founders list. An empty list short-circuits
// with a single "founders" error. Per-founder failures are folded into
// one composite "founders" message, one "Founder N: ..." entry per
// failing founder, joined by "; ".
func ValidateStep3(data *StartupFormData) StartupFormErrors {
	errs := StartupFormErrors{}

	if len(data.Founders) == 0 {
		errs["founders"] = "At least one founder is required"
		return errs
	}

	byIndex := ValidateFounders(data.Founders)
	if len(byIndex) == 0 {
		return errs
	}

	indexes := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	parts := make([]string, 0, len(indexes))
	for _, i := range indexes {
		parts = append(parts, fmt.Sprintf("Founder %d: %s", i+1, strings.Join(byIndex[i], ", ")))
	}
	errs["founders"] = strings.Join(parts, "; ")

	return errs
}

// ValidateStep dispatches to the validator for the given step number.
// Unknown steps produce no errors.
func ValidateStep(step int, data *StartupFormData) StartupFormErrors {
	switch step {
	case 1:
		return ValidateStep1(data)
	case 2:
		return ValidateStep2(data)
	case 3:
		return ValidateStep3(data)
	default:
		return StartupFormErrors{}
	}
}

// ValidateForm runs all three step validators and merges the results.
// Used as a final check before submission, not for step gating.
func ValidateForm(data *StartupFormData) StartupFormErrors {
	merged := StartupFormErrors{}
	for step := 1; step <= 3; step++ {
		for field, msg := range ValidateStep(step, data) {
			merged[field] = msg
		}
	}
	return merged
}

// ParseAmount parses an optional financial text field. Empty text
// yields (0, true); otherwise the text must be a finite number >= 0.
func ParseAmount(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

func checkAmount(errs StartupFormErrors, field, value, message string) {
	if value == "" {
		return
	}
	if _, ok := ParseAmount(value); !ok {
		errs[field] = message
	}
}

// isFutureDate compares calendar dates, not instants, so a date equal
// to today is never flagged regardless of the local timezone offset.
func isFutureDate(s string) bool {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return false
	}
	return d.Format("2006-01-02") > time.Now().Format("2006-01-02")
}
