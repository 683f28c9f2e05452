// Package notify covers the attention cues around listening: an audio
// chime and a desktop notification. Everything here is best effort.
package notify

import (
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Chime plays an mp3 cue and waits for it to finish.
func Chime(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return err
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return err
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}

// Desktop shows a transient desktop notification when a notifier is
// installed. Absence of notify-send is not an error worth surfacing.
func Desktop(logger *slog.Logger, text string) {
	if err := exec.Command("notify-send", "-t", "3000", "sova", text).Run(); err != nil {
		logger.Debug("desktop notification failed", "err", err)
	}
}
