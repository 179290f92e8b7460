package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/validation"
)

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// Date accepts a calendar date ("2006-01-02") or a full RFC 3339 timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// ptr returns the time, or nil for an absent date.
func (d *Date) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// ID accepts a positive integer either as a JSON number or as a numeric
// string, since form-driven clients send ids as strings.
type ID uint

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*id = ID(n)
	return nil
}

func (id *ID) ptr() *uint {
	if id == nil {
		return nil
	}
	v := uint(*id)
	return &v
}

type lineItem struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
}

// Items accepts the line items as a JSON array or as a string holding one.
type Items []lineItem

func (it *Items) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	var items []lineItem
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("invalid items: %w", err)
	}
	*it = items
	return nil
}

func (it Items) models() []models.LineItem {
	out := make([]models.LineItem, len(it))
	for i, item := range it {
		out[i] = models.LineItem{Description: item.Description, Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}
	return out
}

// parseEnum parses an optional status or type field, ignoring case. A value
// that does not parse is reported as invalid_value under field.
func parseEnum[S ~string](v validation.Violations, field string, raw *string, parse func(string) (S, error)) *S {
	if raw == nil {
		return nil
	}
	s, err := parse(*raw)
	if err != nil {
		if _, seen := v[field]; !seen {
			v[field] = "invalid_value"
		}
		return nil
	}
	return &s
}
