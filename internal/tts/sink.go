// Package tts turns reply text into speech and console output.
package tts

import "fmt"

// Console prints replies to stdout, for text mode and as a transcript
// alongside the voice.
type Console struct{}

func (Console) Speak(text string) {
	if text == "" {
		return
	}
	fmt.Println("Ассистент:", text)
}

// speaker matches assist.Sink without importing it.
type speaker interface {
	Speak(text string)
}

// Fanout forwards each reply to every sink in order.
type Fanout struct {
	sinks []speaker
}

func NewFanout(sinks ...speaker) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Speak(text string) {
	for _, s := range f.sinks {
		s.Speak(text)
	}
}
