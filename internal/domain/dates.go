package domain

import (
	"fmt"
	"time"
)

// Даты сравниваются по календарным полям (год, месяц, день), без арифметики длительностей,
// чтобы смена часового пояса или перевод часов не сдвигали день.

func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// SameDate возвращает true, если a и b - один календарный день
func SameDate(a, b time.Time) bool {
	return dateKey(a) == dateKey(b)
}

// DateBefore возвращает true, если календарный день a раньше дня b
func DateBefore(a, b time.Time) bool {
	return dateKey(a) < dateKey(b)
}

// DateOnly отбрасывает время суток, сохраняя календарный день
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BookingWindow допустимые даты бронирования: с завтрашнего дня на Days дней вперёд.
// Бронирование на сегодня запрещено
type BookingWindow struct {
	Days int
}

// First первая разрешённая дата
func (w BookingWindow) First(now time.Time) time.Time {
	return DateOnly(now).AddDate(0, 0, 1)
}

// Last последняя разрешённая дата
func (w BookingWindow) Last(now time.Time) time.Time {
	return DateOnly(now).AddDate(0, 0, w.Days)
}

// Allows проверяет, что дата попадает в окно
func (w BookingWindow) Allows(date, now time.Time) bool {
	if w.Days < 1 {
		return false
	}
	d := DateOnly(date)
	return !d.Before(w.First(now)) && !d.After(w.Last(now))
}

// Validate возвращает ErrDateNotAllowed, если дата вне окна
func (w BookingWindow) Validate(date, now time.Time) error {
	if w.Allows(date, now) {
		return nil
	}
	return fmt.Errorf("%w: %s is outside %s..%s", ErrDateNotAllowed,
		date.Format(DateFormat), w.First(now).Format(DateFormat), w.Last(now).Format(DateFormat))
}
