// Package clock entrega la hora del libro en la zona horaria configurada.
package clock

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"
)

// Clock fuente de tiempo inyectable.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// System usa el reloj del sistema convertido a la zona del libro.
type System struct {
	loc *time.Location
}

// New construye el reloj del sistema. Con loc nil usa UTC.
func New(loc *time.Location) *System {
	if loc == nil {
		loc = time.UTC
	}
	return &System{loc: loc}
}

func (s *System) Now() time.Time           { return time.Now().In(s.loc) }
func (s *System) Location() *time.Location { return s.loc }

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2}):?(\d{2})$`)

// LoadLocation acepta un nombre IANA ("America/La_Paz") o un desplazamiento fijo ("-04:00").
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "UTC" {
		return time.UTC, nil
	}
	if m := offsetPattern.FindStringSubmatch(name); m != nil {
		h, _ := strconv.Atoi(m[2])
		mins, _ := strconv.Atoi(m[3])
		secs := h*3600 + mins*60
		if m[1] == "-" {
			secs = -secs
		}
		return time.FixedZone("UTC"+m[1]+m[2]+":"+m[3], secs), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("clock: zona horaria %q: %w", name, err)
	}
	return loc, nil
}

// Fixed reloj detenido para tests; Advance lo mueve.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed construye un reloj detenido en t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fixed) Location() *time.Location {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now.Location()
}

// Advance adelanta el reloj d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
