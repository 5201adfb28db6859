package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidHours - строка часов работы не разобрана
var ErrInvalidHours = errors.New("invalid opening hours")

var dayCodes = map[string]time.Weekday{
	"Mo": time.Monday,
	"Tu": time.Tuesday,
	"We": time.Wednesday,
	"Th": time.Thursday,
	"Fr": time.Friday,
	"Sa": time.Saturday,
	"Su": time.Sunday,
}

type interval struct {
	from, to int // минуты от начала дня, to может быть меньше from (через полночь)
}

// Schedule - расписание по дням недели
type Schedule struct {
	alwaysOpen bool
	days       map[time.Weekday][]interval
}

// ParseHours разбирает упрощённый формат OSM opening_hours:
//
//	"24/7"
//	"Mo-Fr 08:00-17:00; Sa-Su 10:00-17:00"
//	"Mo,We 09:00-12:00,13:00-18:00; Su off"
//	"Fr-Sa 20:00-02:00"
//
// Правило без дней применяется ко всей неделе. Более позднее правило
// заменяет более раннее для тех же дней.
func ParseHours(hours string) (*Schedule, error) {
	hours = strings.TrimSpace(hours)
	if hours == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidHours)
	}
	if hours == "24/7" {
		return &Schedule{alwaysOpen: true}, nil
	}

	s := &Schedule{days: make(map[time.Weekday][]interval)}
	for _, rule := range strings.Split(hours, ";") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		if err := s.applyRule(rule); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schedule) applyRule(rule string) error {
	parts := strings.Fields(rule)
	days := allDays()
	switch len(parts) {
	case 1:
	case 2:
		var err error
		days, err = parseDays(parts[0])
		if err != nil {
			return err
		}
		parts = parts[1:]
	default:
		return fmt.Errorf("%w: rule %q", ErrInvalidHours, rule)
	}

	var intervals []interval
	if parts[0] != "off" && parts[0] != "closed" {
		var err error
		intervals, err = parseIntervals(parts[0])
		if err != nil {
			return err
		}
	}
	for _, d := range days {
		s.days[d] = intervals
	}
	return nil
}

// OpenAt проверяет, открыто ли место в момент t (в часовом поясе t)
func (s *Schedule) OpenAt(t time.Time) bool {
	if s.alwaysOpen {
		return true
	}
	minute := t.Hour()*60 + t.Minute()
	today := t.Weekday()
	yesterday := (today + 6) % 7

	for _, iv := range s.days[today] {
		if iv.to > iv.from {
			if minute >= iv.from && minute < iv.to {
				return true
			}
		} else if minute >= iv.from {
			return true
		}
	}
	for _, iv := range s.days[yesterday] {
		if iv.to <= iv.from && minute < iv.to {
			return true
		}
	}
	return false
}

// IsOpenAt - ParseHours + OpenAt
func IsOpenAt(hours string, t time.Time) (bool, error) {
	s, err := ParseHours(hours)
	if err != nil {
		return false, err
	}
	return s.OpenAt(t), nil
}

func allDays() []time.Weekday {
	return []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
}

func parseDays(spec string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, item := range strings.Split(spec, ",") {
		from, to, isRange := strings.Cut(item, "-")
		start, ok := dayCodes[from]
		if !ok {
			return nil, fmt.Errorf("%w: day %q", ErrInvalidHours, from)
		}
		if !isRange {
			out = append(out, start)
			continue
		}
		end, ok := dayCodes[to]
		if !ok {
			return nil, fmt.Errorf("%w: day %q", ErrInvalidHours, to)
		}
		// Sa-Mo переходит через воскресенье
		for d := start; ; d = (d + 1) % 7 {
			out = append(out, d)
			if d == end {
				break
			}
		}
	}
	return out, nil
}

func parseIntervals(spec string) ([]interval, error) {
	var out []interval
	for _, item := range strings.Split(spec, ",") {
		from, to, ok := strings.Cut(item, "-")
		if !ok {
			return nil, fmt.Errorf("%w: time range %q", ErrInvalidHours, item)
		}
		start, err := parseClock(from)
		if err != nil {
			return nil, err
		}
		end, err := parseClock(to)
		if err != nil {
			return nil, err
		}
		out = append(out, interval{from: start, to: end})
	}
	return out, nil
}

func parseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("%w: time %q", ErrInvalidHours, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("%w: hour %q", ErrInvalidHours, hh)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: minute %q", ErrInvalidHours, mm)
	}
	return h*60 + m, nil
}
