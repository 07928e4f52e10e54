package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"squash-courts/backend/internal/domain/schedule"
)

// bookingFromData reads a stored booking document. Records written by the
// web client carry createdAt as an ISO-8601 string instead of a timestamp,
// and numbers may come back as integers or doubles.
func bookingFromData(id string, data map[string]any) (Booking, error) {
	court, err := intField(data, "court")
	if err != nil {
		return Booking{}, err
	}
	price, err := intField(data, "price")
	if err != nil {
		return Booking{}, err
	}

	return Booking{
		ID:              id,
		FullName:        stringField(data, "fullName"),
		PhoneNumber:     stringField(data, "phoneNumber"),
		Court:           schedule.Court(court),
		Date:            stringField(data, "date"),
		StartTime:       stringField(data, "startTime"),
		EndTime:         stringField(data, "endTime"),
		ReservationType: schedule.ReservationType(stringField(data, "reservationType")),
		Status:          Status(stringField(data, "status")),
		Price:           price,
		CreatedAt:       timeField(data, "createdAt"),
		UserID:          stringField(data, "userId"),
		UserPhone:       stringField(data, "userPhone"),
	}, nil
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

func intField(data map[string]any, key string) (int, error) {
	switch v := data[key].(type) {
	case nil:
		return 0, nil
	case int64:
		return int(v), nil
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("field %s: %q is not a number", key, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("field %s: unsupported type %T", key, v)
	}
}

// timeField accepts a Firestore timestamp or an RFC 3339 string. Anything
// else reads as the zero time.
func timeField(data map[string]any, key string) time.Time {
	switch v := data[key].(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v))
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}
