// Package contact accepts messages from the public contact form and files
// them in a Store.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no message has the requested id.
var ErrNotFound = errors.New("contact message not found")

// Message is what a visitor submits.
type Message struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=320"`
	Subject string `json:"subject" validate:"required,max=300"`
	Message string `json:"message" validate:"required,max=10000"`
}

// Record is a Message as filed.
type Record struct {
	ID string `json:"id"`
	Message
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

// Result reports the outcome of Submit. MessageID is empty when Success is
// false.
type Result struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
}

// ValidationError lists the fields of a rejected Message.
type ValidationError struct {
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid contact message: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Store persists contact records.
type Store interface {
	Save(ctx context.Context, r Record) error
	Get(ctx context.Context, id string) (Record, error)
}

type Service struct {
	store    Store
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		validate: validator.New(),
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   logger.Named("contact"),
	}
}

// Submit validates and files msg. Only validation failures are returned as
// errors; a store failure yields Result{Success: false}.
func (s *Service) Submit(ctx context.Context, msg Message) (Result, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)

	if err := s.validate.Struct(msg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
			return Result{}, &ValidationError{Fields: fields, Err: err}
		}
		return Result{}, err
	}

	rec := Record{
		ID:        s.newID(),
		Message:   msg,
		CreatedAt: s.now().UTC(),
		Read:      false,
	}
	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.Error("failed to save contact message", zap.Error(err))
		return Result{Success: false}, nil
	}

	s.logger.Info("contact message saved", zap.String("id", rec.ID))
	return Result{Success: true, MessageID: rec.ID}, nil
}
