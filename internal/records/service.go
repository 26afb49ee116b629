package records

import (
	"context"
	"errors"
	"math"
	"strconv"

	"call-tracker/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// EventSink receives record lifecycle notifications.
// Delivery is best-effort: a failing sink never fails the request.
type EventSink interface {
	LogRecordCreated(ctx context.Context, recordID int64) error
	LogRecordDeleted(ctx context.Context, recordID int64) error
}

// Service is the record store API used by the HTTP layer.
// Every operation performs exactly one repository call.
type Service struct {
	repo     Repository
	events   EventSink
	validate *validator.Validate
}

func NewService(repo Repository, events EventSink) *Service {
	return &Service{repo: repo, events: events, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, f Filter) ([]CallRecord, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, storageErr("list", err)
	}
	return out, nil
}

// Create validates in and stores it, returning the new record id.
// Invalid input yields *ValidationError and nothing is persisted.
func (s *Service) Create(ctx context.Context, in NewRecord) (int64, error) {
	if s.repo == nil {
		return 0, ErrRepositoryNotConfigured
	}
	if err := s.validateNew(in); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, in)
	if err != nil {
		return 0, storageErr("create", err)
	}
	if s.events != nil {
		if err := s.events.LogRecordCreated(ctx, id); err != nil {
			logger.From(ctx).Warn("record event publish failed", "event", "created", "record_id", id, "err", err)
		}
	}
	return id, nil
}

// Delete removes the record with id and reports how many rows went away.
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	if s.repo == nil {
		return 0, ErrRepositoryNotConfigured
	}
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, storageErr("delete", err)
	}
	if n > 0 && s.events != nil {
		if err := s.events.LogRecordDeleted(ctx, id); err != nil {
			logger.From(ctx).Warn("record event publish failed", "event", "deleted", "record_id", id, "err", err)
		}
	}
	return n, nil
}

func (s *Service) Stats(ctx context.Context, f Filter) (Stats, error) {
	if s.repo == nil {
		return Stats{}, ErrRepositoryNotConfigured
	}
	t, err := s.repo.Aggregate(ctx, f)
	if err != nil {
		return Stats{}, storageErr("aggregate", err)
	}
	var minutes int64
	if t.TotalMinutes != nil {
		minutes = *t.TotalMinutes
	}
	return Stats{Totals: t, TotalHours: FormatHours(minutes)}, nil
}

func (s *Service) Clients(ctx context.Context) ([]string, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	out, err := s.repo.DistinctClients(ctx)
	if err != nil {
		return nil, storageErr("distinct clients", err)
	}
	return out, nil
}

func (s *Service) Developers(ctx context.Context) ([]string, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	out, err := s.repo.DistinctDevelopers(ctx)
	if err != nil {
		return nil, storageErr("distinct developers", err)
	}
	return out, nil
}

func (s *Service) Ping(ctx context.Context) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	return s.repo.Ping(ctx)
}

func (s *Service) validateNew(in NewRecord) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, jsonFieldNames[fe.StructField()])
	}
	return &ValidationError{Fields: fields}
}

var jsonFieldNames = map[string]string{
	"DeveloperName":   "developer_name",
	"ClientName":      "client_name",
	"CallDate":        "call_date",
	"DurationMinutes": "duration_minutes",
	"TopicDiscussed":  "topic_discussed",
}

// FormatHours renders minutes as hours rounded half away from zero to one decimal ("75" -> "1.3").
func FormatHours(minutes int64) string {
	h := math.Round(float64(minutes)/60*10) / 10
	return strconv.FormatFloat(h, 'f', 1, 64)
}
