package fintrack

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

var (
	innWeights10 = []int{2, 4, 10, 3, 5, 9, 4, 6, 8}
	innWeights11 = []int{7, 2, 4, 10, 3, 5, 9, 4, 6, 8}
	innWeights12 = []int{3, 7, 2, 4, 10, 3, 5, 9, 4, 6, 8}
)

// ValidateINN checks a Russian taxpayer id: all digits, length 10
// (organizations, one checksum) or 12 (individuals, two checksums), each
// checksum a weighted sum mod 11 mod 10 against the trailing digits.
func ValidateINN(value string) error {
	if value == "" {
		return NewValidationError("INN must not be empty")
	}

	digits := make([]int, 0, len(value))
	for _, r := range value {
		if r < '0' || r > '9' {
			return NewValidationError("INN must contain only digits")
		}
		digits = append(digits, int(r-'0'))
	}

	switch len(digits) {
	case 10:
		if innChecksum(innWeights10, digits) != digits[9] {
			return NewValidationError("incorrect INN")
		}
	case 12:
		if innChecksum(innWeights11, digits) != digits[10] ||
			innChecksum(innWeights12, digits) != digits[11] {
			return NewValidationError("incorrect INN")
		}
	default:
		return NewValidationError("INN must contain 10 or 12 digits")
	}

	return nil
}

func innChecksum(weights []int, digits []int) int {
	sum := 0
	for i, w := range weights {
		sum += w * digits[i]
	}
	return sum % 11 % 10
}

// INNRule adapts ValidateINN to an ozzo validation rule. Values arrive as
// plain strings on full records and as *string on patches, so the rule
// dereferences before checking.
func INNRule() validation.Rule {
	return validation.By(func(value interface{}) error {
		v, isNil := validation.Indirect(value)
		if isNil {
			return nil
		}
		s, _ := v.(string)
		if s == "" {
			// Required is a separate rule
			return nil
		}
		return ValidateINN(s)
	})
}

// defaultPhoneRegion is the region used to parse national-format numbers
const defaultPhoneRegion = "RU"

// PhoneRule validates a recipient phone number
func PhoneRule() validation.Rule {
	return validation.By(func(value interface{}) error {
		v, isNil := validation.Indirect(value)
		if isNil {
			return nil
		}
		s, _ := v.(string)
		if s == "" {
			return nil
		}
		num, err := phonenumbers.Parse(s, defaultPhoneRegion)
		if err != nil {
			return NewValidationError("phone number is malformed")
		}
		if !phonenumbers.IsValidNumber(num) {
			return NewValidationError("phone number is not valid")
		}
		return nil
	})
}

// Analytics periods are clamped to a sane window so a typo'd year cannot
// make the aggregate queries scan forever.
var (
	minAnalyticsDate = time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)
)

func maxAnalyticsDate(now time.Time) time.Time {
	return time.Date(now.Year()+5, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// StartEnd is a validated analytics date range
type StartEnd struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate will run validation rules
func (p StartEnd) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return NewValidationError("start and end are required")
	}
	if p.Start.Before(minAnalyticsDate) {
		return NewValidationError("start must not be earlier than 2010-01-01")
	}
	if p.End.After(maxAnalyticsDate(time.Now())) {
		return NewValidationError("end is too far in the future")
	}
	if p.End.Before(p.Start) {
		return NewValidationError("end time must not be earlier than start time")
	}
	return nil
}

// translateOzzoError converts an ozzo validation failure into the domain
// validation error so handlers respond with a stable 400 shape.
func translateOzzoError(err error) error {
	if err == nil {
		return nil
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr
	}
	return NewValidationError(err.Error())
}
