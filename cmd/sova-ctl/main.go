package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"sova/internal/ipc"
)

func main() {
	utter := cli.StringP("utter", "u", "", "Send a typed utterance instead of triggering the microphone")
	cli.Parse()

	msg := ipc.ControlMessage{Cmd: "trigger"}
	if text := strings.TrimSpace(*utter); text != "" {
		msg = ipc.ControlMessage{Cmd: "utter", Text: text}
	}

	if err := ipc.Send(msg); err != nil {
		fmt.Println("sova daemon not running:", err)
		os.Exit(1)
	}
}
