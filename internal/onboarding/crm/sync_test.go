package crm

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup-onboarding/internal/common/errors"
	"startup-onboarding/internal/common/logger"
	"startup-onboarding/internal/common/zoho"
	"startup-onboarding/internal/onboarding/profile"
)

type fakeCRM struct {
	contacts []*zoho.Contact
	err      error
}

func (f *fakeCRM) CreateContact(_ context.Context, contact *zoho.Contact) (string, error) {
	f.contacts = append(f.contacts, contact)
	return fmt.Sprintf("contact-%d", len(f.contacts)), f.err
}

func testProfile() *profile.StoredProfile {
	return &profile.StoredProfile{
		ID:   "startup-1",
		Name: "Acme Robotics",
		Founders: []profile.StoredFounder{
			{Name: "Priya Sharma", Email: "priya@acme.io"},
			{Name: "Madonna", Email: "m@acme.io"},
		},
	}
}

func TestAfterCreateSyncsAllFounders(t *testing.T) {
	crm := &fakeCRM{}
	s := NewSyncer(crm, logger.NewTestLogger(t))

	require.NoError(t, s.AfterCreate(context.Background(), testProfile()))
	require.Len(t, crm.contacts, 2)

	assert.Equal(t, "Priya", crm.contacts[0].FirstName)
	assert.Equal(t, "Sharma", crm.contacts[0].LastName)
	assert.Equal(t, "Acme Robotics", crm.contacts[0].Account)
	assert.Equal(t, "Startup Onboarding", crm.contacts[0].Source)

	// Single-word names land in the required last-name field.
	assert.Equal(t, "", crm.contacts[1].FirstName)
	assert.Equal(t, "Madonna", crm.contacts[1].LastName)
}

func TestAfterCreateSurfacesSyncFailure(t *testing.T) {
	crm := &fakeCRM{err: fmt.Errorf("zoho rate limited")}
	s := NewSyncer(crm, logger.NewTestLogger(t))

	err := s.AfterCreate(context.Background(), testProfile())
	require.Error(t, err)

	code, ok := errors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeCRMSyncFailed, code)
}

func TestAfterCreateWithoutClientIsNoOp(t *testing.T) {
	s := NewSyncer(nil, logger.NewTestLogger(t))
	assert.NoError(t, s.AfterCreate(context.Background(), testProfile()))
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in    string
		first string
		last  string
	}{
		{"Priya Sharma", "Priya", "Sharma"},
		{"Jean Claude Van Damme", "Jean Claude Van", "Damme"},
		{"Madonna", "", "Madonna"},
		{"", "", "Unknown"},
	}
	for _, tt := range tests {
		first, last := splitName(tt.in)
		assert.Equal(t, tt.first, first)
		assert.Equal(t, tt.last, last)
	}
}
