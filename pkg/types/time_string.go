// Package types содержит value-типы, общие для слоёв сервиса
package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const timeLayout = "15:04"

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString время суток в формате "HH:MM" без привязки к дате
type TimeString string

// NewTimeString создаёт TimeString из часов и минут переданного времени
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" (секунды "HH:MM:SS" отбрасываются)
func NewTimeStringFromString(s string) (TimeString, error) {
	if len(s) == len("15:04:05") {
		s = s[:len(timeLayout)]
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return NewTimeString(t), nil
}

// String возвращает строковое представление
func (ts TimeString) String() string {
	return string(ts)
}

// IsZero возвращает true, если время не задано
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// Validate проверяет формат "HH:MM"
func (ts TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(ts)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return nil
}

// Clock возвращает часы и минуты
func (ts TimeString) Clock() (hour, minute int, err error) {
	t, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return t.Hour(), t.Minute(), nil
}

// On совмещает время суток с календарной датой day в часовом поясе loc
func (ts TimeString) On(day time.Time, loc *time.Location) (time.Time, error) {
	hour, minute, err := ts.Clock()
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc), nil
}

// Value реализует driver.Valuer
func (ts TimeString) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	return string(ts), nil
}

// Scan реализует sql.Scanner
func (ts *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ts = ""
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, src)
	}
}
