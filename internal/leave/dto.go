package leave

import (
	"time"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// CreateLeaveDTO is the request payload for submitting a leave request.
type CreateLeaveDTO struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Reason    string `json:"reason,omitempty"`
}

// ParseDates validates and parses both dates. Missing or unparsable values
// surface as ErrInvalidDate so callers treat them like any other bad date.
func (dto CreateLeaveDTO) ParseDates() (start, end time.Time, err error) {
	if dto.StartDate == "" || dto.EndDate == "" {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}

	start, err = parseDate(dto.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end, err = parseDate(dto.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return start, end, nil
}

// RejectLeaveDTO carries the manager's rejection reason. The reason is logged
// and forwarded to notifications, not stored on the request.
type RejectLeaveDTO struct {
	Reason string `json:"reason,omitempty"`
}
