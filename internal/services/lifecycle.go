package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"relief-bknd/internal/models"
	"relief-bknd/internal/store"
)

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (models.Coordinates, error)
}

// Lifecycle owns the request state machine: creation, acceptance,
// progress, completion. All persistence goes through the store.
type Lifecycle struct {
	store    store.Store
	geocoder Geocoder
	validate *validator.Validate
}

func NewLifecycle(st store.Store, g Geocoder) *Lifecycle {
	v := validator.New()
	// Registration only fails for an empty tag name.
	_ = v.RegisterValidation("phone", validPhone)
	return &Lifecycle{store: st, geocoder: g, validate: v}
}

// CreateInput is a victim submission. Either Address or both Lat and
// Lon must be provided.
type CreateInput struct {
	Name     string          `json:"name" validate:"required,max=200"`
	Phone    string          `json:"phone" validate:"required,phone"`
	Category models.Category `json:"category" validate:"required"`
	Address  string          `json:"address"`
	Notes    string          `json:"notes" validate:"max=1000"`
	Lat      *float64        `json:"lat"`
	Lon      *float64        `json:"lon"`
}

var phoneStrip = regexp.MustCompile(`[^\d+]`)

// validPhone accepts at least ten characters of digits after stripping
// separators, with an optional leading +.
func validPhone(fl validator.FieldLevel) bool {
	cleaned := phoneStrip.ReplaceAllString(fl.Field().String(), "")
	if len(cleaned) < 10 {
		return false
	}
	if strings.HasPrefix(cleaned, "+") {
		return !strings.Contains(cleaned[1:], "+")
	}
	return !strings.Contains(cleaned, "+")
}

// Create validates the submission, resolves its location, and persists
// a new Pending request with a fresh id. On validation failure nothing
// is persisted and the returned *models.ValidationError names every
// offending field.
func (l *Lifecycle) Create(ctx context.Context, in CreateInput) (*models.Request, error) {
	verr := &models.ValidationError{}

	if err := l.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				verr.Add(strings.ToLower(fe.Field()), validationMessage(fe))
			}
		} else {
			return nil, err
		}
	}
	if in.Category != "" && !in.Category.Valid() {
		verr.Add("category", fmt.Sprintf("category must be one of %v", models.Categories))
	}

	var coords *models.Coordinates
	address := strings.TrimSpace(in.Address)

	switch {
	case in.Lat != nil && in.Lon != nil:
		c := models.Coordinates{Lat: *in.Lat, Lon: *in.Lon}
		if !c.InRange() {
			verr.Add("coordinates", "latitude must be -90..90 and longitude -180..180")
		} else {
			coords = &c
			if address == "" {
				address = fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lon)
			}
		}
	case address != "":
		c, err := l.geocoder.Resolve(ctx, address)
		if err != nil {
			verr.Add("address", "address could not be located, please enter coordinates manually")
		} else {
			coords = &c
		}
	default:
		verr.Add("location", "an address or explicit coordinates are required")
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	now := time.Now().UTC()
	req := &models.Request{
		ID:          uuid.NewString(),
		Category:    in.Category,
		Name:        strings.TrimSpace(in.Name),
		Phone:       strings.TrimSpace(in.Phone),
		Address:     address,
		Notes:       strings.TrimSpace(in.Notes),
		Coordinates: coords,
		Status:      models.Pending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := l.store.Append(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Accept assigns a volunteer to a Pending request and moves it to
// Accepted. No locking: when two volunteers race, the last accept to
// land wins and the loser sees ErrInvalidTransition on the next read.
func (l *Lifecycle) Accept(ctx context.Context, id, volunteer string) error {
	volunteer = strings.TrimSpace(volunteer)
	if volunteer == "" {
		verr := &models.ValidationError{}
		verr.Add("volunteer", "volunteer contact is required")
		return verr
	}

	req, err := l.Get(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != models.Pending {
		return fmt.Errorf("%w: request is already %s", models.ErrInvalidTransition, req.Status)
	}

	now := time.Now().UTC()
	status := models.Accepted
	return l.store.Update(ctx, id, store.Patch{
		Status:    &status,
		Responder: &volunteer,
		UpdatedAt: &now,
	})
}

// Advance moves Accepted → InProgress or InProgress → Complete.
func (l *Lifecycle) Advance(ctx context.Context, id string) error {
	req, err := l.Get(ctx, id)
	if err != nil {
		return err
	}

	next := req.Status.Next()
	if next == "" {
		return fmt.Errorf("%w: cannot advance from %s", models.ErrInvalidTransition, req.Status)
	}

	now := time.Now().UTC()
	return l.store.Update(ctx, id, store.Patch{Status: &next, UpdatedAt: &now})
}

// Get returns a single request by id.
func (l *Lifecycle) Get(ctx context.Context, id string) (*models.Request, error) {
	all, err := l.store.List(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
}

// List returns a snapshot in insertion order, optionally filtered.
func (l *Lifecycle) List(ctx context.Context, filter store.Filter) ([]models.Request, error) {
	return l.store.List(ctx, filter)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
	case "phone":
		return "please enter a valid phone number"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", strings.ToLower(fe.Field()), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
}
