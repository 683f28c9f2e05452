package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		kind    Kind
		payload string
	}{
		{"quit russian", "выход", Quit, ""},
		{"quit english", "quit", Quit, ""},
		{"quit casing and whitespace", "  ВЫХОД  ", Quit, ""},
		{"quit stop", "Стоп", Quit, ""},
		{"quit enough", "хватит", Quit, ""},

		{"help", "помощь", Help, ""},
		{"help embedded", "скажи что ты умеешь", Help, ""},

		{"alarm list", "список будильников", ShowAlarms, ""},
		{"alarm list short", "покажи будильники", ShowAlarms, ""},

		{"time", "сколько времени", ShowTime, ""},

		{"ask keeps original casing", "Что такое Python", AskReasoning, "Что такое Python"},
		{"ask why", "почему небо голубое", AskReasoning, "почему небо голубое"},
		{"ask english", "tell me about Go", AskReasoning, "tell me about Go"},

		{"status", "проверь нейросеть", CheckReasoningStatus, ""},

		{"open app", "открой калькулятор", OpenApp, "калькулятор"},
		{"open english", "open firefox", OpenApp, "firefox"},
		{"open verb beats smart phrase", "найди и запусти chrome", OpenApp, "chrome"},

		{"smart launch", "найди приложение chrome", SmartLaunch, "chrome"},

		{"alarm clock time", "поставь будильник на 07:30", SetAlarm, "07:30"},
		{"alarm minutes", "через 10 минут", SetAlarm, "10min"},
		{"alarm minutes english", "in 5 minutes", SetAlarm, "5min"},

		{"math verb", "посчитай 2+2", SolveMath, "2+2"},
		{"math solve", "solve (1+2)*3", SolveMath, "(1+2)*3"},
		{"bare expression", "2+2*2", SolveMath, "2+2*2"},
		{"bare expression with spaces", " 10 / 4 ", SolveMath, "10 / 4"},

		{"unknown", "сделай сальто", Unknown, "сделай сальто"},
		{"empty", "", Unknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			assert.Equal(t, tt.kind, got.Kind, "kind for %q", tt.text)
			assert.Equal(t, tt.payload, got.Payload, "payload for %q", tt.text)
		})
	}
}

func TestParseRuleOrder(t *testing.T) {
	// A quit phrase inside a longer utterance is not a quit: the quit set
	// matches whole utterances only.
	got := Parse("открой quit")
	assert.Equal(t, OpenApp, got.Kind)
	assert.Equal(t, "quit", got.Payload)

	// A time spec wins over the bare-expression rule.
	got = Parse("будильник 07:30")
	assert.Equal(t, SetAlarm, got.Kind)
}
