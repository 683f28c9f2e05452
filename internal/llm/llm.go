// Package llm provides the reasoning backends used for open questions and
// application disambiguation.
package llm

import (
	"context"
	"log/slog"
	"net/http"
)

// Reasoner is a natural-language completion backend.
type Reasoner interface {
	Name() string
	Available() bool
	Ask(ctx context.Context, prompt string) (string, error)
}

// The assistant persona shared by all backends, as spoken to the model.
const systemPrompt = `Ты умный голосовой помощник. Отвечай кратко и по делу на русском языке.
Если пользователь просит выполнить действие, которое можно сделать через системные команды,
предложи конкретные шаги. Если это общий вопрос - дай информативный ответ.
Если пользователь просит запустить приложение, помоги найти и запустить его.`

// Pick selects the active backend: a reachable Ollama first, then OpenAI
// when a key is configured, else nil. httpClient applies to the OpenAI
// backend only, so a proxied client never slows down local Ollama calls.
func Pick(logger *slog.Logger, ollamaURL, openaiKey string, httpClient *http.Client) Reasoner {
	ollama := NewOllama(ollamaURL, "")
	if ollama.Available() {
		logger.Info("reasoning backend selected", "backend", ollama.Name())
		return ollama
	}
	if openaiKey != "" {
		oa := NewOpenAI(openaiKey, httpClient)
		logger.Info("reasoning backend selected", "backend", oa.Name())
		return oa
	}
	logger.Warn("no reasoning backend available")
	return nil
}
