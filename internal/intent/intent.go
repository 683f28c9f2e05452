// Package intent turns raw utterance text into a tagged command.
package intent

// Kind is the closed set of recognized commands.
type Kind int

const (
	Unknown Kind = iota
	Quit
	Help
	ShowAlarms
	ShowTime
	AskReasoning
	CheckReasoningStatus
	OpenApp
	SmartLaunch
	SetAlarm
	SolveMath
)

var kindNames = map[Kind]string{
	Unknown:              "unknown",
	Quit:                 "quit",
	Help:                 "help",
	ShowAlarms:           "show_alarms",
	ShowTime:             "show_time",
	AskReasoning:         "ask",
	CheckReasoningStatus: "check_status",
	OpenApp:              "open_app",
	SmartLaunch:          "smart_launch",
	SetAlarm:             "set_alarm",
	SolveMath:            "solve_math",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Intent is a single parsed utterance. Payload carries the captured
// argument (target app, time spec, expression, question) or the original
// text for Unknown.
type Intent struct {
	Kind    Kind
	Payload string
}
