// Package crm mirrors founding-team contacts into Zoho CRM so the
// investor-relations team sees new startups without manual entry.
package crm

import (
	"context"
	"strings"

	"startup-onboarding/internal/common/errors"
	"startup-onboarding/internal/common/logger"
	"startup-onboarding/internal/common/zoho"
	"startup-onboarding/internal/onboarding/profile"
)

// ContactCreator abstracts the Zoho client for testing.
type ContactCreator interface {
	CreateContact(ctx context.Context, contact *zoho.Contact) (string, error)
}

// Syncer pushes every founder of a new startup as a CRM contact.
type Syncer struct {
	crm    ContactCreator
	logger logger.Logger
}

func NewSyncer(crm ContactCreator, log logger.Logger) *Syncer {
	return &Syncer{crm: crm, logger: log}
}

func (s *Syncer) Name() string { return "crm-sync" }

func (s *Syncer) AfterCreate(ctx context.Context, p *profile.StoredProfile) error {
	if s.crm == nil {
		return nil
	}

	for _, f := range p.Founders {
		first, last := splitName(f.Name)
		id, err := s.crm.CreateContact(ctx, &zoho.Contact{
			Email:     f.Email,
			FirstName: first,
			LastName:  last,
			Account:   p.Name,
			Source:    "Startup Onboarding",
		})
		if err != nil {
			return errors.NewCRMSyncFailedError(err)
		}

		s.logger.WithFields(map[string]interface{}{
			"startupId": p.ID,
			"contactId": id,
			"email":     f.Email,
		}).Debug("Founder synced to CRM", nil)
	}
	return nil
}

// splitName maps a display name onto Zoho's first/last fields. Zoho
// requires a last name, so single-word names land there.
func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", "Unknown"
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}
