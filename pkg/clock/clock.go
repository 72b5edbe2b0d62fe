// Package clock источник текущего времени в часовом поясе парковки
package clock

import "time"

// Clock возвращает текущее время в заданном часовом поясе
type Clock struct {
	loc *time.Location
}

// New создаёт часы. При loc == nil используется локальный пояс процесса
func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc}
}

// Now возвращает текущее время
func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fixed часы, всегда возвращающие одно и то же время (для тестов)
type Fixed time.Time

// Now возвращает зафиксированное время
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
