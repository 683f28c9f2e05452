package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <espeak-ng/speak_lib.h>

int
espeak_say(const char *text)
{
	if (!text)
	{ return -1; }

	espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0);
	espeak_VOICE specs = { .languages = "ru" };
	espeak_SetVoiceByProperties(&specs);

	espeak_Synth(text, 500, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"log/slog"
	"unsafe"
)

// Espeak voices replies through espeak-ng. Synthesis failures are logged
// and swallowed; a sink never fails outward.
type Espeak struct {
	logger *slog.Logger
}

func NewEspeak(logger *slog.Logger) *Espeak {
	if logger == nil {
		logger = slog.Default()
	}
	return &Espeak{logger: logger}
}

func (e *Espeak) Speak(text string) {
	if text == "" {
		return
	}

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))

	if rc := C.espeak_say(ctext); rc != 0 {
		e.logger.Error("espeak synthesis failed", "rc", int(rc))
	}
}
