package records

import (
	"strconv"
	"time"

	"github.com/ecommerce/backend/internal/domain/shared"
)

// DateTime encodes as "dd-MM-yyyy__HH:mm:ss:SSSSSS"
type DateTime struct {
	time.Time
}

// NewDateTime wraps t
func NewDateTime(t time.Time) *DateTime {
	if t.IsZero() {
		return nil
	}
	return &DateTime{Time: shared.NormalizeTime(t)}
}

// Value unwraps d, tolerating nil
func (d *DateTime) Value() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}

// MarshalJSON implements json.Marshaler
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(shared.FormatLocalDateTime(d.Time))), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *DateTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.Time = time.Time{}
		return nil
	}
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return shared.NewValidationError("dateTime", "must be a string")
	}
	t, err := shared.ParseLocalDateTime(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
