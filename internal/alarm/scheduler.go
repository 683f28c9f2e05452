package alarm

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"
)

// ErrInvalidTimeSpec is returned when a time spec matches neither HH:MM
// nor "<positive integer>min".
var ErrInvalidTimeSpec = errors.New("invalid time spec")

var (
	clockRe   = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	minutesRe = regexp.MustCompile(`^(\d+)\s*min(ute)?s?$`)
)

// NotifyFunc receives a fired alarm. It runs on the waiter goroutine.
type NotifyFunc func(a Alarm)

// Scheduler owns its alarms. Each pending alarm has exactly one waiter
// goroutine; waiters snapshot their deadline at creation and touch the
// shared set only once, at fire time, to re-check for cancellation.
type Scheduler struct {
	logger *slog.Logger
	notify NotifyFunc
	now    func() time.Time

	mu     sync.Mutex
	seq    int
	active map[int]*Alarm
}

// New creates a scheduler. notify may be nil.
func New(logger *slog.Logger, notify NotifyFunc) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		logger: logger,
		notify: notify,
		now:    time.Now,
		active: make(map[int]*Alarm),
	}
}

// Set parses spec ("HH:MM" or "Nmin") and schedules an alarm. A clock
// time that has already passed today rolls over to tomorrow.
func (s *Scheduler) Set(spec, label string) (int, error) {
	at, err := s.resolveSpec(spec)
	if err != nil {
		return 0, err
	}
	return s.At(at, label), nil
}

// At schedules an alarm for an absolute time and returns its id.
func (s *Scheduler) At(at time.Time, label string) int {
	s.mu.Lock()
	s.seq++
	a := &Alarm{ID: s.seq, At: at, Label: label, State: Pending}
	s.active[a.ID] = a
	s.mu.Unlock()

	go s.wait(a.ID, at)

	s.logger.Info("alarm set", "id", a.ID, "at", at.Format("15:04"), "label", label)
	return a.ID
}

// Active returns pending alarms with a future deadline, ordered by id.
func (s *Scheduler) Active() []Alarm {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Alarm, 0, len(s.active))
	for _, a := range s.active {
		if a.State == Pending && a.At.After(now) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Cancel marks an alarm cancelled. Cancelling twice, or cancelling an
// alarm that already fired, is a no-op. The sleeping waiter is not
// interrupted; it finds the alarm gone when it wakes.
func (s *Scheduler) Cancel(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.active[id]
	if !ok || a.State != Pending {
		return
	}
	a.State = Cancelled
	delete(s.active, id)
	s.logger.Info("alarm cancelled", "id", id)
}

func (s *Scheduler) resolveSpec(spec string) (time.Time, error) {
	now := s.now()

	if m := clockRe.FindStringSubmatch(spec); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if hh > 23 || mm > 59 {
			return time.Time{}, fmt.Errorf("%w: %02d:%02d is not a clock time", ErrInvalidTimeSpec, hh, mm)
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), hh, mm, 0, 0, now.Location())
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		return at, nil
	}

	if m := minutesRe.FindStringSubmatch(spec); m != nil {
		mins, err := strconv.Atoi(m[1])
		if err != nil || mins <= 0 {
			return time.Time{}, fmt.Errorf("%w: minute count must be positive, got %q", ErrInvalidTimeSpec, m[1])
		}
		return now.Add(time.Duration(mins) * time.Minute), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeSpec, spec)
}

func (s *Scheduler) wait(id int, at time.Time) {
	if d := at.Sub(s.now()); d > 0 {
		time.Sleep(d)
	}
	s.fire(id)
}

func (s *Scheduler) fire(id int) {
	s.mu.Lock()
	a, ok := s.active[id]
	if !ok || a.State != Pending {
		// Cancelled while the waiter slept.
		s.mu.Unlock()
		return
	}
	a.State = Fired
	fired := *a
	delete(s.active, id)
	notify := s.notify
	s.mu.Unlock()

	s.logger.Info("alarm fired", "id", fired.ID, "label", fired.Label)
	if notify != nil {
		notify(fired)
	}
}
