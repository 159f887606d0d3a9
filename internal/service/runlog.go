package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"heatkeeper/internal/models"
	"heatkeeper/internal/repository"
)

type RunLogService struct {
	events repository.RunEventRepo
}

func NewRunLogService(events repository.RunEventRepo) *RunLogService {
	return &RunLogService{events: events}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	outcome := strings.TrimSpace(strings.ToUpper(f.Outcome))
	return from, to, outcome, nil
}

func (s *RunLogService) List(ctx context.Context, f LogFilter) ([]models.RunEvent, error) {
	from, to, outcome, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.events.List(ctx, from, to, outcome)
}
