// Package assist routes parsed intents to the scheduler, the application
// resolver and the external collaborators, and builds the spoken reply.
package assist

import (
	"context"
	"fmt"

	"sova/internal/alarm"
)

// Sink speaks or displays a reply. Implementations must not fail outward.
type Sink interface {
	Speak(text string)
}

// Reasoner is the subset of the reasoning backend the dispatcher needs.
type Reasoner interface {
	Name() string
	Available() bool
	Ask(ctx context.Context, prompt string) (string, error)
}

// Evaluator computes an arithmetic expression, returning either the
// result or a spoken-form error message.
type Evaluator interface {
	Evaluate(expr string) string
}

// Launcher opens a path or command on the host.
type Launcher interface {
	Open(target string) bool
}

// Fixed replies. MsgReasonerUnavailable is the exact response for any
// reasoning request while no backend is reachable.
const (
	MsgReasonerUnavailable = "Нейросеть недоступна. Установите Ollama или задайте OPENAI_API_KEY."
	MsgNotUnderstood       = "Не понял команду. Повторите или скажите \"помощь\"."
	MsgFarewell            = "До свидания!"

	helpText = "Я могу: решать математические выражения, открывать приложения, " +
		"ставить будильник, показывать список будильников, показывать время, " +
		"отвечать на вопросы через нейросеть, искать и запускать приложения на компьютере. " +
		"Скажите например: \"открой калькулятор\", \"найди приложение Chrome\", " +
		"\"поставь будильник на 07:30\" или \"что такое Python\"."
)

// AlarmMessage is what the assistant says when an alarm fires.
func AlarmMessage(a alarm.Alarm) string {
	label := a.Label
	if label == "" {
		label = "Без названия"
	}
	return fmt.Sprintf("Будильник: %s - время %s", label, a.At.Format("15:04"))
}
