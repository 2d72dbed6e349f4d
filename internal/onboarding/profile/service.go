package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"startup-onboarding/internal/common/auth"
	"startup-onboarding/internal/common/errors"
	"startup-onboarding/internal/common/logger"
	"startup-onboarding/internal/onboarding/form"
)

// AfterCreateHook runs after a profile row is committed. Hook failures
// are logged and never fail the submission.
type AfterCreateHook interface {
	Name() string
	AfterCreate(ctx context.Context, p *StoredProfile) error
}

// Service owns the startup table: creation with the one-profile-per-user
// rule, and the read paths used by the public directory.
type Service struct {
	db     *sql.DB
	logger logger.Logger
	hooks  []AfterCreateHook
}

func NewService(db *sql.DB, log logger.Logger, hooks ...AfterCreateHook) *Service {
	return &Service{
		db:     db,
		logger: log,
		hooks:  hooks,
	}
}

const profileColumns = `id, user_id, name, date_of_incorporation, registration_id, gst_no,
		business_pan_number, industry, business_type, description, revenue, stage,
		product_is_live, investment_raised, current_valuation, ask_value, founders, created_at`

// CreateStartupProfile persists a new startup profile for the given user. It fails
// when the caller is unauthenticated, when a profile already exists
// for the user, or when the insert itself fails. The returned error's
// message is what the wizard shows the user.
func (s *Service) CreateStartupProfile(ctx context.Context, user *auth.User, data *form.StartupFormData) (*StoredProfile, error) {
	if user == nil || user.ID == "" {
		return nil, errors.NewUnauthenticatedError("You must be logged in to create a startup profile")
	}

	log := s.logger.WithFields(map[string]interface{}{
		"userId":      user.ID,
		"startupName": data.Name,
	})
	log.Info("Creating startup profile", nil)

	// The wizard gates each step already; this is the last line of
	// defense before the row is written.
	if errs := form.ValidateForm(data); len(errs) > 0 {
		log.WithFields(map[string]interface{}{"fieldErrors": errs}).Warn("Submission rejected by validation", nil)
		return nil, errors.NewValidationFailedError(flattenErrors(errs))
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM startups WHERE user_id = $1)`, user.ID).Scan(&exists)
	if err != nil {
		log.WithError(err).Error("Failed to check for existing profile", nil)
		return nil, errors.NewQueryExecutionFailedError("check existing profile", err)
	}
	if exists {
		log.Warn("User already has a startup profile", nil)
		return nil, errors.NewProfileExistsError(user.ID)
	}

	p := FromDraft(user.ID, data)
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now().UTC()

	foundersJSON, err := json.Marshal(p.Founders)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO startups (`+profileColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		p.ID, p.UserID, p.Name, p.DateOfIncorporation, p.RegistrationID, p.GSTNo,
		p.BusinessPANNumber, p.Industry, p.BusinessType, p.Description, p.Revenue, p.Stage,
		p.ProductIsLive, p.InvestmentRaised, p.CurrentValuation, p.AskValue, foundersJSON, p.CreatedAt,
	)
	if err != nil {
		log.WithError(err).Error("Failed to insert startup profile", nil)
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	log.WithFields(map[string]interface{}{"startupId": p.ID}).Info("Startup profile created", nil)

	s.runHooks(ctx, p)

	return p, nil
}

// GetByUser fetches the profile owned by userID, or nil when the user
// has not submitted one.
func (s *Service) GetByUser(ctx context.Context, userID string) (*StoredProfile, error) {
	if userID == "" {
		return nil, errors.NewUnauthenticatedError("You must be logged in to view your startup profile")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM startups WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch startup profile by user", nil)
		return nil, errors.NewQueryExecutionFailedError("fetch startup profile", err)
	}
	return p, nil
}

// GetByID fetches a single profile, or nil when no row matches.
func (s *Service) GetByID(ctx context.Context, id string) (*StoredProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM startups WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch startup by id", nil)
		return nil, errors.NewQueryExecutionFailedError("fetch startup", err)
	}
	return p, nil
}

// List returns the public directory view, newest first.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, industry, business_type, stage, description,
		        product_is_live, current_valuation, ask_value, created_at
		 FROM startups
		 ORDER BY created_at DESC`)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list startups", nil)
		return nil, errors.NewQueryExecutionFailedError("fetch startups", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.ID, &sm.Name, &sm.Industry, &sm.BusinessType, &sm.Stage,
			&sm.Description, &sm.ProductIsLive, &sm.CurrentValuation, &sm.AskValue, &sm.CreatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan startup row", err)
		}
		summaries = append(summaries, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("fetch startups", err)
	}

	return summaries, nil
}

func (s *Service) runHooks(ctx context.Context, p *StoredProfile) {
	for _, hook := range s.hooks {
		if err := hook.AfterCreate(ctx, p); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"hook":      hook.Name(),
				"startupId": p.ID,
			}).WithError(err).Warn("After-create hook failed, continuing", nil)
		}
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*StoredProfile, error) {
	var p StoredProfile
	var foundersJSON []byte

	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.DateOfIncorporation, &p.RegistrationID,
		&p.GSTNo, &p.BusinessPANNumber, &p.Industry, &p.BusinessType, &p.Description,
		&p.Revenue, &p.Stage, &p.ProductIsLive, &p.InvestmentRaised, &p.CurrentValuation,
		&p.AskValue, &foundersJSON, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	if len(foundersJSON) > 0 {
		if err := json.Unmarshal(foundersJSON, &p.Founders); err != nil {
			return nil, fmt.Errorf("failed to decode founders: %w", err)
		}
	}

	return &p, nil
}

func flattenErrors(errs form.StartupFormErrors) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, errs[field]))
	}
	return strings.Join(parts, "; ")
}
