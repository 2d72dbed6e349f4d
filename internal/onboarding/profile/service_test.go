package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup-onboarding/internal/common/auth"
	"startup-onboarding/internal/common/errors"
	"startup-onboarding/internal/common/logger"
	"startup-onboarding/internal/onboarding/form"
)

func newMockService(t *testing.T, hooks ...AfterCreateHook) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewService(db, logger.NewTestLogger(t), hooks...), mock
}

func submittableDraft() *form.StartupFormData {
	return &form.StartupFormData{
		Name:                "  Acme Robotics  ",
		DateOfIncorporation: "2021-04-12",
		GSTNo:               "22aaaaa0000a1z5",
		BusinessPANNumber:   "abcde1234f",
		Industry:            "Robotics",
		BusinessType:        form.TypeB2B,
		Description:         "Industrial robotics platform for mid-size factories and plants.",
		Revenue:             "120000",
		Stage:               form.StageGrowth,
		ProductIsLive:       true,
		Founders: []form.Founder{
			{
				Name:              "Priya Sharma",
				Email:             "Priya@Acme.IO",
				LinkedIn:          "https://linkedin.com/in/priya-sharma",
				YearsOfExperience: 8,
				FieldOfExpertise:  "Engineering",
			},
		},
	}
}

func TestCreateRequiresAuthenticatedUser(t *testing.T) {
	svc, mock := newMockService(t)

	_, err := svc.CreateStartupProfile(context.Background(), nil, submittableDraft())
	require.Error(t, err)
	assert.Equal(t, "You must be logged in to create a startup profile", errors.UserMessage(err))

	code, ok := errors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnauthenticated, code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsInvalidDraftBeforeTouchingDatabase(t *testing.T) {
	svc, mock := newMockService(t)

	draft := submittableDraft()
	draft.Name = ""
	draft.Founders = nil

	_, err := svc.CreateStartupProfile(context.Background(), &auth.User{ID: "user-1"}, draft)
	require.Error(t, err)

	code, ok := errors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidationFailed, code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsDuplicateProfile(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM startups WHERE user_id = $1)`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.CreateStartupProfile(context.Background(), &auth.User{ID: "user-1"}, submittableDraft())
	require.Error(t, err)
	assert.Equal(t, "You already have a startup profile. Please update it instead.", errors.UserMessage(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInsertsNormalizedProfile(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM startups WHERE user_id = $1)`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO startups`)).
		WithArgs(
			sqlmock.AnyArg(),  // id
			"user-1",          // user_id
			"Acme Robotics",   // name, trimmed
			"2021-04-12",      // date_of_incorporation
			nil,               // registration_id
			"22AAAAA0000A1Z5", // gst_no, uppercased
			"ABCDE1234F",      // business_pan_number, uppercased
			"Robotics",
			"b2b",
			"Industrial robotics platform for mid-size factories and plants.",
			120000.0,
			"growth",
			true,
			nil, // investment_raised
			nil, // current_valuation
			nil, // ask_value
			sqlmock.AnyArg(), // founders
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	stored, err := svc.CreateStartupProfile(context.Background(), &auth.User{ID: "user-1"}, submittableDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "user-1", stored.UserID)
	assert.Equal(t, "Acme Robotics", stored.Name)
	require.NotNil(t, stored.GSTNo)
	assert.Equal(t, "22AAAAA0000A1Z5", *stored.GSTNo)
	require.NotNil(t, stored.Revenue)
	assert.Equal(t, 120000.0, *stored.Revenue)
	assert.Nil(t, stored.RegistrationID)
	require.Len(t, stored.Founders, 1)
	assert.Equal(t, "priya@acme.io", stored.Founders[0].Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSurfacesInsertFailure(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO startups`)).
		WillReturnError(fmt.Errorf("relation \"startups\" does not exist"))

	_, err := svc.CreateStartupProfile(context.Background(), &auth.User{ID: "user-1"}, submittableDraft())
	require.Error(t, err)
	assert.Equal(t,
		`Failed to create startup profile: relation "startups" does not exist`,
		errors.UserMessage(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

type recordingHook struct {
	name   string
	err    error
	called int
	lastID string
}

func (h *recordingHook) Name() string { return h.name }

func (h *recordingHook) AfterCreate(_ context.Context, p *StoredProfile) error {
	h.called++
	h.lastID = p.ID
	return h.err
}

func TestCreateHookFailureDoesNotFailSubmission(t *testing.T) {
	failing := &recordingHook{name: "search-index", err: fmt.Errorf("index unavailable")}
	healthy := &recordingHook{name: "notify"}
	svc, mock := newMockService(t, failing, healthy)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO startups`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	stored, err := svc.CreateStartupProfile(context.Background(), &auth.User{ID: "user-1"}, submittableDraft())
	require.NoError(t, err)

	assert.Equal(t, 1, failing.called)
	assert.Equal(t, 1, healthy.called)
	assert.Equal(t, stored.ID, healthy.lastID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func profileRow(t *testing.T, id, userID string) *sqlmock.Rows {
	t.Helper()

	founders, err := json.Marshal([]StoredFounder{
		{Name: "Priya Sharma", Email: "priya@acme.io", YearsOfExperience: 8, FieldOfExpertise: "Engineering"},
	})
	require.NoError(t, err)

	return sqlmock.NewRows([]string{
		"id", "user_id", "name", "date_of_incorporation", "registration_id", "gst_no",
		"business_pan_number", "industry", "business_type", "description", "revenue", "stage",
		"product_is_live", "investment_raised", "current_valuation", "ask_value", "founders", "created_at",
	}).AddRow(
		id, userID, "Acme Robotics", "2021-04-12", nil, "22AAAAA0000A1Z5",
		"ABCDE1234F", "Robotics", "b2b", "Industrial robotics platform.", 120000.0, "growth",
		true, nil, nil, nil, founders, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	)
}

func TestGetByUser(t *testing.T) {
	t.Run("returns stored profile", func(t *testing.T) {
		svc, mock := newMockService(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM startups WHERE user_id = $1`)).
			WithArgs("user-1").
			WillReturnRows(profileRow(t, "startup-1", "user-1"))

		p, err := svc.GetByUser(context.Background(), "user-1")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "startup-1", p.ID)
		require.Len(t, p.Founders, 1)
		assert.Equal(t, "priya@acme.io", p.Founders[0].Email)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no profile yields nil without error", func(t *testing.T) {
		svc, mock := newMockService(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM startups WHERE user_id = $1`)).
			WithArgs("user-2").
			WillReturnError(sql.ErrNoRows)

		p, err := svc.GetByUser(context.Background(), "user-2")
		require.NoError(t, err)
		assert.Nil(t, p)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty user id is rejected", func(t *testing.T) {
		svc, _ := newMockService(t)

		_, err := svc.GetByUser(context.Background(), "")
		require.Error(t, err)
		assert.Equal(t, "You must be logged in to view your startup profile", errors.UserMessage(err))
	})
}

func TestGetByID(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM startups WHERE id = $1`)).
		WithArgs("startup-1").
		WillReturnRows(profileRow(t, "startup-1", "user-1"))

	p, err := svc.GetByID(context.Background(), "startup-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Acme Robotics", p.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	svc, mock := newMockService(t)

	rows := sqlmock.NewRows([]string{
		"id", "name", "industry", "business_type", "stage", "description",
		"product_is_live", "current_valuation", "ask_value", "created_at",
	}).
		AddRow("startup-2", "Beta Health", "Healthcare", "b2c", "mvp", "Remote diagnostics.",
			false, nil, nil, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)).
		AddRow("startup-1", "Acme Robotics", "Robotics", "b2b", "growth", "Industrial robotics platform.",
			true, 2500000.0, 1000000.0, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC`)).
		WillReturnRows(rows)

	summaries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Beta Health", summaries[0].Name)
	assert.Equal(t, "Acme Robotics", summaries[1].Name)
	require.NotNil(t, summaries[1].CurrentValuation)
	assert.Equal(t, 2500000.0, *summaries[1].CurrentValuation)

	assert.NoError(t, mock.ExpectationsWereMet())
}
