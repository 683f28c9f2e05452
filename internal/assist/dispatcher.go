package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sova/internal/alarm"
	"sova/internal/apps"
	"sova/internal/intent"
)

const alarmLabel = "Голосовой будильник"

// Keywords that reroute an unrecognized utterance into a launch attempt.
var launchWords = []string{
	"запусти", "открой", "найди", "запуск", "приложение", "программа",
	"launch", "open", "find",
}

var indexRe = regexp.MustCompile(`\d+`)

// Dispatcher consumes parsed intents. Collaborator failures become reply
// text; nothing escapes to the caller.
type Dispatcher struct {
	logger   *slog.Logger
	alarms   *alarm.Scheduler
	apps     *apps.Index
	launcher Launcher
	reasoner Reasoner
	eval     Evaluator

	// progress speaks interim phrases before slow collaborator calls.
	// Nil disables them.
	progress func(text string)
	now      func() time.Time
}

func New(logger *slog.Logger, alarms *alarm.Scheduler, index *apps.Index, l Launcher, r Reasoner, e Evaluator) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		logger:   logger,
		alarms:   alarms,
		apps:     index,
		launcher: l,
		reasoner: r,
		eval:     e,
		now:      time.Now,
	}
}

// SetProgress installs the interim-phrase sink.
func (d *Dispatcher) SetProgress(fn func(text string)) { d.progress = fn }

// Dispatch executes one intent and returns the reply. quit reports that
// the caller should say farewell and stop the loop.
func (d *Dispatcher) Dispatch(ctx context.Context, in intent.Intent) (reply string, quit bool) {
	d.logger.Debug("dispatch", "intent", in.Kind.String(), "payload", in.Payload)

	switch in.Kind {
	case intent.Quit:
		return MsgFarewell, true

	case intent.Help:
		return helpText, false

	case intent.ShowAlarms:
		return d.listAlarms(), false

	case intent.ShowTime:
		return "Текущее время: " + d.now().Format("15:04"), false

	case intent.AskReasoning:
		return d.ask(ctx, in.Payload), false

	case intent.CheckReasoningStatus:
		if d.reasonerUp() {
			return "Нейросеть активна: " + d.reasoner.Name(), false
		}
		return MsgReasonerUnavailable, false

	case intent.OpenApp:
		return d.openApp(in.Payload), false

	case intent.SmartLaunch:
		d.say("Ищу приложение...")
		return d.smartLaunch(ctx, in.Payload), false

	case intent.SetAlarm:
		return d.setAlarm(in.Payload), false

	case intent.SolveMath:
		d.say("Вычисляю...")
		return "Результат: " + d.eval.Evaluate(in.Payload), false

	default:
		return d.fallback(ctx, in.Payload), false
	}
}

func (d *Dispatcher) say(text string) {
	if d.progress != nil {
		d.progress(text)
	}
}

func (d *Dispatcher) reasonerUp() bool {
	return d.reasoner != nil && d.reasoner.Available()
}

func (d *Dispatcher) ask(ctx context.Context, question string) string {
	if !d.reasonerUp() {
		return MsgReasonerUnavailable
	}
	d.say("Думаю...")
	answer, err := d.reasoner.Ask(ctx, question)
	if err != nil {
		d.logger.Error("reasoner failed", "err", err)
		return "Не удалось получить ответ от нейросети."
	}
	return answer
}

func (d *Dispatcher) listAlarms() string {
	active := d.alarms.Active()
	if len(active) == 0 {
		return "Нет активных будильников"
	}
	parts := make([]string, 0, len(active))
	for _, a := range active {
		parts = append(parts, fmt.Sprintf("номер %d на %s", a.ID, a.At.Format("15:04")))
	}
	return "Активные будильники: " + strings.Join(parts, ", ")
}

func (d *Dispatcher) setAlarm(spec string) string {
	id, err := d.alarms.Set(spec, alarmLabel)
	if err != nil {
		if errors.Is(err, alarm.ErrInvalidTimeSpec) {
			return "Не удалось установить будильник: непонятный формат времени " + spec
		}
		return "Не удалось установить будильник."
	}
	return fmt.Sprintf("Будильник установлен под номером %d", id)
}

// openApp tries the resolver first, then the raw target as a path or
// command. One failed launch stops the chain.
func (d *Dispatcher) openApp(target string) string {
	d.say("Пытаюсь открыть " + target)

	cands := d.apps.Resolve(target)
	if len(cands) > 0 && cands[0].Class == apps.Exact {
		return d.launch(cands[0])
	}
	if d.launcher.Open(target) {
		return "Открыто"
	}
	return "Не удалось открыть " + target
}

func (d *Dispatcher) launch(c apps.Candidate) string {
	if d.launcher.Open(c.Target) {
		return "Запускаю " + c.Name
	}
	return "Не удалось запустить " + c.Name
}

func (d *Dispatcher) smartLaunch(ctx context.Context, query string) string {
	cands := d.apps.Resolve(query)

	switch len(cands) {
	case 0:
		if !d.reasonerUp() {
			return "Приложение " + query + " не найдено"
		}
		prompt := fmt.Sprintf("Пользователь хочет запустить приложение: %q. "+
			"Но я не могу найти его на компьютере. Подскажи, как можно найти или установить это приложение.", query)
		answer, err := d.reasoner.Ask(ctx, prompt)
		if err != nil {
			d.logger.Error("reasoner failed", "err", err)
			return "Приложение " + query + " не найдено"
		}
		return answer

	case 1:
		return d.launch(cands[0])
	}

	list := numberedList(cands)
	if d.reasonerUp() {
		prompt := fmt.Sprintf("Пользователь хочет запустить приложение по запросу: %q\n\n"+
			"Найдены следующие приложения:\n%s\n\n"+
			"Выбери номер наиболее подходящего приложения (1-%d) или ответь \"не знаю\" если ни одно не подходит.",
			query, list, len(cands))
		if answer, err := d.reasoner.Ask(ctx, prompt); err == nil {
			if i, ok := pickIndex(answer, len(cands)); ok {
				return d.launch(cands[i])
			}
		} else {
			d.logger.Error("reasoner failed", "err", err)
		}
	}
	// No confident choice: hand the ranked list back instead of guessing.
	return "Найдено несколько приложений: " + list + ". Скажите точнее, какое хотите запустить."
}

// fallback reroutes Unknown: launch keywords go to the resolver, the rest
// to the reasoning backend when one is up.
func (d *Dispatcher) fallback(ctx context.Context, text string) string {
	lowered := strings.ToLower(text)
	for _, w := range launchWords {
		if strings.Contains(lowered, w) {
			d.say("Попробую найти и запустить приложение...")
			return d.smartLaunch(ctx, lowered)
		}
	}
	if d.reasonerUp() {
		d.say("Попробую разобраться...")
		return d.ask(ctx, text)
	}
	return MsgNotUnderstood
}

func numberedList(cands []apps.Candidate) string {
	lines := make([]string, 0, len(cands))
	for i, c := range cands {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, c.Name))
	}
	return strings.Join(lines, "\n")
}

// pickIndex extracts the first integer token of a reply as a 1-based
// choice. Absent or out-of-range means no choice was made.
func pickIndex(reply string, n int) (int, bool) {
	m := indexRe.FindString(reply)
	if m == "" {
		return 0, false
	}
	i, err := strconv.Atoi(m)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}
