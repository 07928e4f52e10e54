package booking

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/domain/schedule"
	"squash-courts/backend/internal/utils"
)

func (s *Service) RecurringOverview() []RecurringOverview {
	return s.detector.RecurringWithConflicts(s.source.Current())
}

func (s *Service) AddRecurring(ctx context.Context, in CreateRecurringInput) (*RecurringBooking, error) {
	in.Trim()
	rb, err := s.buildRecurring(in)
	if err != nil {
		return nil, err
	}

	if s.detector.HasRecurringConflict(rb, s.source.Current(), "") {
		return nil, &ConflictError{Kind: ErrRecurringConflict}
	}

	id, err := s.store.CreateRecurring(ctx, rb)
	if err != nil {
		return nil, wrapStore(err, "create recurring booking")
	}
	rb.ID = id

	log.Info().Str("recurringId", id).Str("dayOfWeek", string(rb.DayOfWeek)).Int("court", int(rb.Court)).Msg("recurring booking created")
	return &rb, nil
}

func (s *Service) buildRecurring(in CreateRecurringInput) (RecurringBooking, error) {
	if in.FullName == "" || in.PhoneNumber == "" {
		return RecurringBooking{}, fmt.Errorf("%w: fullName and phoneNumber are required", ErrBadRequest)
	}
	court, err := schedule.ParseCourt(in.Court)
	if err != nil {
		return RecurringBooking{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	day, err := schedule.ParseWeekday(in.DayOfWeek)
	if err != nil {
		return RecurringBooking{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if _, err := s.detector.grid.Span(in.StartTime, in.Duration); err != nil {
		return RecurringBooking{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	st := RecurringActive
	if in.Status == string(RecurringHeld) {
		st = RecurringHeld
	}

	return RecurringBooking{
		Court:       court,
		DayOfWeek:   day,
		StartTime:   in.StartTime,
		Duration:    in.Duration,
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		Status:      st,
	}, nil
}

// UpdateRecurring merges a partial update. Moving the standing reservation
// to another court, day or time is re-checked against everything else.
func (s *Service) UpdateRecurring(ctx context.Context, id string, in UpdateRecurringInput) error {
	if id == "" {
		return fmt.Errorf("%w: recurring booking id is required", ErrBadRequest)
	}

	snap := s.source.Current()
	var current *RecurringBooking
	for i := range snap.Recurring {
		if snap.Recurring[i].ID == id {
			rb := snap.Recurring[i]
			current = &rb
			break
		}
	}
	if current == nil {
		return fmt.Errorf("%w: recurring booking %s", ErrNotFound, id)
	}

	updates := map[string]any{}
	merged := *current

	if in.Court != nil {
		c, err := schedule.ParseCourt(*in.Court)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		merged.Court = c
		updates["court"] = int(c)
	}
	if in.DayOfWeek != nil {
		d, err := schedule.ParseWeekday(*in.DayOfWeek)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		merged.DayOfWeek = d
		updates["dayOfWeek"] = string(d)
	}
	if in.StartTime != nil {
		merged.StartTime = *in.StartTime
		updates["startTime"] = *in.StartTime
	}
	if in.Duration != nil {
		merged.Duration = *in.Duration
		updates["duration"] = *in.Duration
	}
	if in.FullName != nil {
		name := utils.NormalizeName(*in.FullName)
		if name == "" {
			return fmt.Errorf("%w: fullName cannot be empty", ErrBadRequest)
		}
		updates["fullName"] = name
	}
	if in.PhoneNumber != nil {
		phone := utils.NormalizePhone(*in.PhoneNumber)
		if phone == "" {
			return fmt.Errorf("%w: phoneNumber cannot be empty", ErrBadRequest)
		}
		updates["phoneNumber"] = phone
	}
	if in.Status != nil {
		switch RecurringStatus(*in.Status) {
		case RecurringActive, RecurringHeld:
			merged.Status = RecurringStatus(*in.Status)
			updates["status"] = *in.Status
		default:
			return fmt.Errorf("%w: unknown status %q", ErrBadRequest, *in.Status)
		}
	}
	if len(updates) == 0 {
		return fmt.Errorf("%w: update request cannot be empty", ErrBadRequest)
	}

	if in.reschedules() {
		if _, err := s.detector.grid.Span(merged.StartTime, merged.Duration); err != nil {
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		if !merged.Held() && s.detector.HasRecurringConflict(merged, snap, id) {
			return &ConflictError{Kind: ErrRecurringConflict}
		}
	}

	if err := s.store.UpdateRecurring(ctx, id, updates); err != nil {
		return wrapStore(err, "update recurring booking")
	}
	return nil
}

func (s *Service) DeleteRecurring(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: recurring booking id is required", ErrBadRequest)
	}
	if err := s.store.DeleteRecurring(ctx, id); err != nil {
		return wrapStore(err, "delete recurring booking")
	}
	log.Info().Str("recurringId", id).Msg("recurring booking deleted")
	return nil
}
