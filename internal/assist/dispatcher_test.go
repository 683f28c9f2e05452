package assist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sova/internal/alarm"
	"sova/internal/apps"
	"sova/internal/intent"
)

type fakeReasoner struct {
	name    string
	avail   bool
	reply   string
	err     error
	prompts []string
}

func (f *fakeReasoner) Name() string    { return f.name }
func (f *fakeReasoner) Available() bool { return f.avail }
func (f *fakeReasoner) Ask(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type fakeLauncher struct {
	ok     bool
	opened []string
}

func (f *fakeLauncher) Open(target string) bool {
	f.opened = append(f.opened, target)
	return f.ok
}

type fakeEval struct{ result string }

func (f fakeEval) Evaluate(string) string { return f.result }

type stubProvider struct{ recs []apps.Record }

func (p *stubProvider) Name() string        { return "stub" }
func (p *stubProvider) Scan() []apps.Record { return p.recs }

func appRecord(key, name string) apps.Record {
	return apps.Record{Key: key, Name: name, Target: "/opt/" + key, Source: apps.SourceDesktopEntry}
}

type fixture struct {
	d        *Dispatcher
	reasoner *fakeReasoner
	launcher *fakeLauncher
	alarms   *alarm.Scheduler
}

func newFixture(reasoner *fakeReasoner, recs ...apps.Record) *fixture {
	launcher := &fakeLauncher{ok: true}
	alarms := alarm.New(nil, nil)
	index := apps.NewIndex(nil, &stubProvider{recs: recs})

	var r Reasoner
	if reasoner != nil {
		r = reasoner
	}
	d := New(nil, alarms, index, launcher, r, fakeEval{result: "4"})
	return &fixture{d: d, reasoner: reasoner, launcher: launcher, alarms: alarms}
}

func dispatch(t *testing.T, f *fixture, kind intent.Kind, payload string) (string, bool) {
	t.Helper()
	return f.d.Dispatch(context.Background(), intent.Intent{Kind: kind, Payload: payload})
}

func TestQuit(t *testing.T) {
	f := newFixture(nil)
	reply, quit := dispatch(t, f, intent.Quit, "")
	assert.Equal(t, MsgFarewell, reply)
	assert.True(t, quit)
}

func TestHelpMentionsCapabilities(t *testing.T) {
	f := newFixture(nil)
	reply, quit := dispatch(t, f, intent.Help, "")
	assert.False(t, quit)
	assert.Contains(t, reply, "будильник")
	assert.Contains(t, reply, "открой калькулятор")
}

func TestShowTime(t *testing.T) {
	f := newFixture(nil)
	f.d.now = func() time.Time {
		return time.Date(2026, 8, 30, 14, 5, 0, 0, time.Local)
	}
	reply, _ := dispatch(t, f, intent.ShowTime, "")
	assert.Equal(t, "Текущее время: 14:05", reply)
}

func TestAskWithoutReasonerIsFixedMessage(t *testing.T) {
	f := newFixture(nil)
	reply, _ := dispatch(t, f, intent.AskReasoning, "что такое Go")
	assert.Equal(t, MsgReasonerUnavailable, reply)

	f = newFixture(&fakeReasoner{name: "ollama", avail: false})
	reply, _ = dispatch(t, f, intent.AskReasoning, "что такое Go")
	assert.Equal(t, MsgReasonerUnavailable, reply)
}

func TestAskForwardsQuestion(t *testing.T) {
	r := &fakeReasoner{name: "ollama", avail: true, reply: "Go - язык программирования"}
	f := newFixture(r)

	reply, _ := dispatch(t, f, intent.AskReasoning, "Что такое Go")
	assert.Equal(t, "Go - язык программирования", reply)
	require.Len(t, r.prompts, 1)
	assert.Equal(t, "Что такое Go", r.prompts[0])
}

func TestAskReasonerFailure(t *testing.T) {
	r := &fakeReasoner{name: "ollama", avail: true, err: errors.New("boom")}
	f := newFixture(r)

	reply, _ := dispatch(t, f, intent.AskReasoning, "вопрос")
	assert.Equal(t, "Не удалось получить ответ от нейросети.", reply)
}

func TestCheckStatus(t *testing.T) {
	f := newFixture(&fakeReasoner{name: "ollama", avail: true})
	reply, _ := dispatch(t, f, intent.CheckReasoningStatus, "")
	assert.Equal(t, "Нейросеть активна: ollama", reply)

	f = newFixture(nil)
	reply, _ = dispatch(t, f, intent.CheckReasoningStatus, "")
	assert.Equal(t, MsgReasonerUnavailable, reply)
}

func TestSetAlarm(t *testing.T) {
	f := newFixture(nil)
	reply, _ := dispatch(t, f, intent.SetAlarm, "10min")
	assert.Equal(t, "Будильник установлен под номером 1", reply)

	reply, _ = dispatch(t, f, intent.SetAlarm, "99:99")
	assert.Contains(t, reply, "непонятный формат времени")
}

func TestShowAlarms(t *testing.T) {
	f := newFixture(nil)
	reply, _ := dispatch(t, f, intent.ShowAlarms, "")
	assert.Equal(t, "Нет активных будильников", reply)

	dispatch(t, f, intent.SetAlarm, "120min")
	reply, _ = dispatch(t, f, intent.ShowAlarms, "")
	assert.Contains(t, reply, "Активные будильники: номер 1 на ")
}

func TestSolveMath(t *testing.T) {
	f := newFixture(nil)
	reply, _ := dispatch(t, f, intent.SolveMath, "2+2")
	assert.Equal(t, "Результат: 4", reply)
}

func TestOpenAppExactMatch(t *testing.T) {
	f := newFixture(nil, appRecord("gimp", "GIMP"))
	reply, _ := dispatch(t, f, intent.OpenApp, "gimp")
	assert.Equal(t, "Запускаю GIMP", reply)
	assert.Equal(t, []string{"/opt/gimp"}, f.launcher.opened)
}

func TestOpenAppRawFallback(t *testing.T) {
	f := newFixture(nil)
	reply, _ := dispatch(t, f, intent.OpenApp, "htop")
	assert.Equal(t, "Открыто", reply)
	assert.Equal(t, []string{"htop"}, f.launcher.opened)
}

func TestOpenAppFailureStopsChain(t *testing.T) {
	f := newFixture(nil)
	f.launcher.ok = false
	reply, _ := dispatch(t, f, intent.OpenApp, "nonexistent")
	assert.Equal(t, "Не удалось открыть nonexistent", reply)
	assert.Len(t, f.launcher.opened, 1)
}

func TestSmartLaunchNothingFound(t *testing.T) {
	f := newFixture(nil)
	reply, _ := dispatch(t, f, intent.SmartLaunch, "blender")
	assert.Equal(t, "Приложение blender не найдено", reply)
	assert.Empty(t, f.launcher.opened)
}

func TestSmartLaunchNothingFoundAsksReasoner(t *testing.T) {
	r := &fakeReasoner{name: "ollama", avail: true, reply: "Установите его из магазина приложений."}
	f := newFixture(r)

	reply, _ := dispatch(t, f, intent.SmartLaunch, "blender")
	assert.Equal(t, "Установите его из магазина приложений.", reply)
	require.Len(t, r.prompts, 1)
	assert.Contains(t, r.prompts[0], "blender")
}

func TestSmartLaunchSingleCandidate(t *testing.T) {
	f := newFixture(nil, appRecord("gimp", "GIMP"))
	reply, _ := dispatch(t, f, intent.SmartLaunch, "gimp")
	assert.Equal(t, "Запускаю GIMP", reply)
}

func TestSmartLaunchReasonerPicks(t *testing.T) {
	r := &fakeReasoner{name: "ollama", avail: true, reply: "Подходит номер 2."}
	f := newFixture(r,
		appRecord("google chrome", "Google Chrome"),
		appRecord("chrome remote", "Chrome Remote Desktop"),
	)

	reply, _ := dispatch(t, f, intent.SmartLaunch, "chrome")
	assert.Equal(t, "Запускаю Chrome Remote Desktop", reply)
	assert.Equal(t, []string{"/opt/chrome remote"}, f.launcher.opened)
	require.Len(t, r.prompts, 1)
	assert.Contains(t, r.prompts[0], "1. Google Chrome")
	assert.Contains(t, r.prompts[0], "2. Chrome Remote Desktop")
}

func TestSmartLaunchAmbiguousReturnsList(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no index in reply", "не знаю"},
		{"index out of range", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeReasoner{name: "ollama", avail: true, reply: tt.reply}
			f := newFixture(r,
				appRecord("google chrome", "Google Chrome"),
				appRecord("chrome remote", "Chrome Remote Desktop"),
			)

			reply, _ := dispatch(t, f, intent.SmartLaunch, "chrome")
			assert.Contains(t, reply, "Найдено несколько приложений")
			assert.Contains(t, reply, "Google Chrome")
			assert.Contains(t, reply, "Скажите точнее")
			assert.Empty(t, f.launcher.opened, "no confident choice means no launch")
		})
	}
}

func TestSmartLaunchAmbiguousWithoutReasoner(t *testing.T) {
	f := newFixture(nil,
		appRecord("google chrome", "Google Chrome"),
		appRecord("chrome remote", "Chrome Remote Desktop"),
	)

	reply, _ := dispatch(t, f, intent.SmartLaunch, "chrome")
	assert.Contains(t, reply, "Найдено несколько приложений")
	assert.Empty(t, f.launcher.opened)
}

func TestUnknownWithLaunchKeyword(t *testing.T) {
	f := newFixture(nil, appRecord("steam", "Steam"))
	reply, _ := dispatch(t, f, intent.Unknown, "мне нужно приложение steam")
	assert.Equal(t, "Запускаю Steam", reply)
}

func TestUnknownForwardsToReasoner(t *testing.T) {
	r := &fakeReasoner{name: "ollama", avail: true, reply: "Вот что я думаю."}
	f := newFixture(r)

	reply, _ := dispatch(t, f, intent.Unknown, "расскажи анекдот про гофера")
	assert.Equal(t, "Вот что я думаю.", reply)
}

func TestUnknownWithoutReasoner(t *testing.T) {
	f := newFixture(nil)
	reply, _ := dispatch(t, f, intent.Unknown, "абракадабра")
	assert.Equal(t, MsgNotUnderstood, reply)
}

func TestProgressPhrases(t *testing.T) {
	var spoken []string
	f := newFixture(nil)
	f.d.SetProgress(func(text string) { spoken = append(spoken, text) })

	dispatch(t, f, intent.SolveMath, "2+2")
	assert.Equal(t, []string{"Вычисляю..."}, spoken)
}

func TestAlarmMessage(t *testing.T) {
	a := alarm.Alarm{Label: "чай", At: time.Date(2026, 8, 30, 7, 30, 0, 0, time.Local)}
	assert.Equal(t, "Будильник: чай - время 07:30", AlarmMessage(a))

	a.Label = ""
	assert.Contains(t, AlarmMessage(a), "Без названия")
}
