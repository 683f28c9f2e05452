package audio

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

var volumeRe = regexp.MustCompile(`(\d+)\s*%`)

// Ducker lowers the volume of other PulseAudio streams while the
// assistant listens or speaks, and restores them afterwards. Streams
// whose application.name is in selfNames are left alone.
type Ducker struct {
	mu        sync.Mutex
	active    bool
	selfNames []string
	original  map[int]int // sink-input id -> volume %
	floor     int         // lowest volume to duck down to
}

func NewDucker(selfNames []string, floor int) *Ducker {
	if floor < 0 {
		floor = 0
	}
	if floor > 100 {
		floor = 100
	}
	return &Ducker{
		selfNames: append([]string(nil), selfNames...),
		original:  make(map[int]int),
		floor:     floor,
	}
}

// Duck reduces every foreign stream to factor of its current volume, not
// below the floor. Calling Duck while already ducked is a no-op.
func (d *Ducker) Duck(factor float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	streams, err := listSinkInputs()
	if err != nil {
		return err
	}

	for _, s := range streams {
		if d.isSelf(s.app) {
			continue
		}
		target := int(float64(s.volume) * factor)
		if target < d.floor {
			target = d.floor
		}
		if err := setSinkInputVolume(s.id, target); err != nil {
			continue
		}
		d.original[s.id] = s.volume
	}

	d.active = true
	return nil
}

// Restore returns every ducked stream to its remembered volume. Streams
// that disappeared in the meantime are skipped.
func (d *Ducker) Restore() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return
	}
	for id, vol := range d.original {
		_ = setSinkInputVolume(id, vol)
		delete(d.original, id)
	}
	d.active = false
}

func (d *Ducker) isSelf(app string) bool {
	for _, n := range d.selfNames {
		if strings.EqualFold(app, n) {
			return true
		}
	}
	return false
}

type sinkInput struct {
	id     int
	volume int
	app    string
}

func listSinkInputs() ([]sinkInput, error) {
	out, err := exec.Command("pactl", "list", "sink-inputs").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list: %w", err)
	}

	var (
		inputs []sinkInput
		cur    *sinkInput
	)
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Sink Input #"):
			if cur != nil {
				inputs = append(inputs, *cur)
			}
			id, _ := strconv.Atoi(strings.TrimPrefix(line, "Sink Input #"))
			cur = &sinkInput{id: id, volume: 100}
		case cur == nil:
		case strings.HasPrefix(line, "Volume:"):
			if m := volumeRe.FindStringSubmatch(line); m != nil {
				cur.volume, _ = strconv.Atoi(m[1])
			}
		case strings.HasPrefix(line, "application.name"):
			if _, v, ok := strings.Cut(line, "="); ok {
				cur.app = strings.Trim(strings.TrimSpace(v), `"`)
			}
		}
	}
	if cur != nil {
		inputs = append(inputs, *cur)
	}
	return inputs, nil
}

func setSinkInputVolume(id, percent int) error {
	return exec.Command("pactl", "set-sink-input-volume",
		strconv.Itoa(id), fmt.Sprintf("%d%%", percent)).Run()
}
