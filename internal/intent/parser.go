package intent

import (
	"regexp"
	"strings"
)

// Rule order below is a contract: reordering changes what an utterance
// means. An open verb wins over a smart-search phrase, a time spec wins
// over a bare expression, and so on.

var quitPhrases = map[string]struct{}{
	"выход":  {},
	"выйти":  {},
	"стоп":   {},
	"quit":   {},
	"exit":   {},
	"хватит": {},
}

var helpPhrases = []string{"помощь", "что ты умеешь", "help"}

var alarmListPhrases = []string{"будильники", "alarms", "список будильников"}

var timePhrases = []string{"время", "time", "сколько времени"}

var askPhrases = []string{
	"спроси", "что такое", "как", "почему", "расскажи",
	"ask", "what is", "how", "why", "tell me about",
}

var statusPhrases = []string{
	"статус нейросети", "статус llm", "проверь нейросеть", "llm status",
}

var smartPhrases = []string{
	"найди и запусти", "найди приложение", "запусти программу",
	"открой программу", "find and launch", "find application",
}

var (
	openRe     = regexp.MustCompile(`(?:открой|запусти|open|start)\s+(.+)`)
	alarmAtRe  = regexp.MustCompile(`(?:будильник|alarm)\s*(?:на|at|for)?\s*(\d{1,2}:\d{2})`)
	alarmInRe  = regexp.MustCompile(`(?:через|in)\s*(\d+)\s*(?:минут|minutes?)`)
	mathVerbRe = regexp.MustCompile(`(?:реши|посчитай|calculate|compute|solve)\s+(.+)`)
	bareExprRe = regexp.MustCompile(`^[0-9\s\+\-\*\/%\(\)\.\^e]+$`)
)

func containsAny(t string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

// Parse classifies an utterance. It never fails: anything that matches no
// rule comes back as Unknown with the original text as payload.
func Parse(text string) Intent {
	t := strings.ToLower(strings.TrimSpace(text))

	if _, ok := quitPhrases[t]; ok {
		return Intent{Kind: Quit}
	}
	if containsAny(t, helpPhrases) {
		return Intent{Kind: Help}
	}
	if containsAny(t, alarmListPhrases) {
		return Intent{Kind: ShowAlarms}
	}
	if containsAny(t, timePhrases) {
		return Intent{Kind: ShowTime}
	}
	if containsAny(t, askPhrases) {
		// The reasoning backend gets the utterance as spoken, not the
		// lower-cased form.
		return Intent{Kind: AskReasoning, Payload: text}
	}
	if containsAny(t, statusPhrases) {
		return Intent{Kind: CheckReasoningStatus}
	}
	if m := openRe.FindStringSubmatch(t); m != nil {
		return Intent{Kind: OpenApp, Payload: strings.TrimSpace(m[1])}
	}
	for _, p := range smartPhrases {
		if strings.Contains(t, p) {
			q := strings.TrimSpace(strings.Replace(t, p, "", 1))
			return Intent{Kind: SmartLaunch, Payload: q}
		}
	}
	if m := alarmAtRe.FindStringSubmatch(t); m != nil {
		return Intent{Kind: SetAlarm, Payload: m[1]}
	}
	if m := alarmInRe.FindStringSubmatch(t); m != nil {
		return Intent{Kind: SetAlarm, Payload: m[1] + "min"}
	}
	if m := mathVerbRe.FindStringSubmatch(t); m != nil {
		return Intent{Kind: SolveMath, Payload: strings.TrimSpace(m[1])}
	}
	if t != "" && bareExprRe.MatchString(t) {
		return Intent{Kind: SolveMath, Payload: t}
	}
	return Intent{Kind: Unknown, Payload: text}
}
