package schedule

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Doctor is one practitioner and the ordered daily slot-start times they accept.
// The template is the same for every calendar date.
type Doctor struct {
	Name  string   `json:"name"`
	Slots []string `json:"slots"`
}

// Template holds the configured doctors in a stable, deterministic order.
type Template struct {
	doctors []Doctor
	index   map[string]int
}

// NewTemplate builds a template from configured doctors. Slot times are
// canonicalized to zero-padded HH:MM so lexical and numeric comparisons agree.
func NewTemplate(doctors []Doctor) (*Template, error) {
	if len(doctors) == 0 {
		return nil, fmt.Errorf("schedule: at least one doctor required")
	}
	t := &Template{index: make(map[string]int, len(doctors))}
	for _, d := range doctors {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("schedule: doctor name required")
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("schedule: duplicate doctor %q", name)
		}
		if len(d.Slots) == 0 {
			return nil, fmt.Errorf("schedule: doctor %q has no slots", name)
		}
		slots := make([]string, 0, len(d.Slots))
		for _, s := range d.Slots {
			canon, err := NormalizeSlot(s)
			if err != nil {
				return nil, fmt.Errorf("schedule: doctor %q: %w", name, err)
			}
			slots = append(slots, canon)
		}
		t.index[name] = len(t.doctors)
		t.doctors = append(t.doctors, Doctor{Name: name, Slots: slots})
	}
	return t, nil
}

// ParseDoctorsJSON decodes a slot configuration like
// [{"name":"Dr. Smith","slots":["08:00","09:00"]}]. The array order is the
// doctor search order.
func ParseDoctorsJSON(data []byte) (*Template, error) {
	var doctors []Doctor
	if err := json.Unmarshal(data, &doctors); err != nil {
		return nil, fmt.Errorf("schedule: parse doctor slots: %w", err)
	}
	return NewTemplate(doctors)
}

// DefaultTemplate returns the built-in clinic schedule: three doctors with
// hourly slots from 08:00 through 17:00.
func DefaultTemplate() *Template {
	names := []string{"Dr. Smith", "Dr. Lee", "Dr. Patel"}
	doctors := make([]Doctor, 0, len(names))
	for _, name := range names {
		slots := make([]string, 0, 10)
		for hour := 8; hour < 18; hour++ {
			slots = append(slots, fmt.Sprintf("%02d:00", hour))
		}
		doctors = append(doctors, Doctor{Name: name, Slots: slots})
	}
	t, err := NewTemplate(doctors)
	if err != nil {
		panic(err)
	}
	return t
}

// Doctors returns the configured doctors in search order.
func (t *Template) Doctors() []Doctor {
	return t.doctors
}

// Get looks up a doctor by name.
func (t *Template) Get(name string) (Doctor, bool) {
	i, ok := t.index[name]
	if !ok {
		return Doctor{}, false
	}
	return t.doctors[i], true
}

// First returns the first configured doctor, the default assignment when a
// caller books an explicit slot without naming one.
func (t *Template) First() Doctor {
	return t.doctors[0]
}

// HasSlot reports whether the canonical slot belongs to this doctor's template.
func (d Doctor) HasSlot(slot string) bool {
	for _, s := range d.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// NormalizeSlot converts a time-of-day string to canonical zero-padded HH:MM,
// so "8:00" and "08:00" denote the same slot.
func NormalizeSlot(s string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("malformed time slot %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("malformed time slot %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("malformed time slot %q", s)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// SlotClock splits a canonical HH:MM slot into hour and minute.
func SlotClock(slot string) (hour, minute int) {
	parts := strings.SplitN(slot, ":", 2)
	hour, _ = strconv.Atoi(parts[0])
	minute, _ = strconv.Atoi(parts[1])
	return hour, minute
}
