package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"sova/internal/alarm"
	"sova/internal/apps"
	"sova/internal/assist"
	"sova/internal/audio"
	"sova/internal/calc"
	"sova/internal/intent"
	"sova/internal/ipc"
	"sova/internal/launcher"
	"sova/internal/llm"
	"sova/internal/notify"
	"sova/internal/proxy"
	"sova/internal/remote"
	"sova/internal/tts"
	"sova/pkg/audioconv"
	"sova/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

type app struct {
	logger     *log.Logger
	sink       *tts.Fanout
	dispatcher *assist.Dispatcher
	recorder   *audio.Recorder
	whisper    *stt.Transcriber
	ducker     *audio.Ducker
	chimePath  string
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	textMode := cli.BoolP("text", "t", false, "Read commands from stdin instead of the microphone")
	pushToTalk := cli.Bool("push-to-talk", false, "Record only when triggered over the control socket")
	modelPath := cli.StringP("model", "m", "third_party/whisper.cpp/models/ggml-medium.bin", "Whisper model path")
	ollamaURL := cli.String("ollama", "", "Ollama base URL (default http://localhost:11434)")
	proxyAddr := cli.StringP("proxy", "p", "", "SOCKS5 proxy for the remote reasoning backend")
	busURL := cli.StringP("bus", "b", "", "Websocket hub URL for remote utterances")
	chimePath := cli.String("chime", "beep.mp3", "Listening chime sound")
	alarmSound := cli.String("alarm-sound", "alarm_sound.mp3", "Alarm sound file")
	fromFile := cli.StringP("from-file", "f", "", "Transcribe one audio file, run the command, exit")
	mute := cli.BoolP("quiet", "q", false, "Disable speech output")
	cli.Parse()

	logger := log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	}))
	log.SetDefault(logger)

	logger.Info("Booting up")

	godotenv.Load(*envFile)

	var openaiClient *http.Client
	if *proxyAddr != "" {
		c, err := proxy.NewSocksClient(*proxyAddr)
		if err != nil {
			logger.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
			os.Exit(1)
		}
		openaiClient = c
	}

	if *ollamaURL == "" {
		*ollamaURL = os.Getenv("SOVA_OLLAMA_URL")
	}
	reasoner := llm.Pick(logger, *ollamaURL, os.Getenv("OPENAI_API_KEY"), openaiClient)

	var sink *tts.Fanout
	if *mute {
		sink = tts.NewFanout(tts.Console{})
	} else {
		sink = tts.NewFanout(tts.Console{}, tts.NewEspeak(logger))
	}

	open := launcher.New(logger)

	alarms := alarm.New(logger, func(a alarm.Alarm) {
		sink.Speak(assist.AlarmMessage(a))
		notify.Desktop(logger, assist.AlarmMessage(a))
		if _, err := os.Stat(*alarmSound); err == nil {
			// Best effort; a missing player only gets logged.
			if !open.Open(*alarmSound) {
				logger.Warn("alarm sound playback failed", "path", *alarmSound)
			}
		}
	})

	index := apps.NewIndex(logger, apps.NewDesktopEntries(), &apps.PathBin{})

	dispatcher := assist.New(logger, alarms, index, open, reasoner, calc.Evaluator{})
	dispatcher.SetProgress(sink.Speak)

	a := &app{
		logger:     logger,
		sink:       sink,
		dispatcher: dispatcher,
		ducker:     audio.NewDucker([]string{"sova", "espeak", "espeak-ng"}, 20),
		chimePath:  *chimePath,
	}

	needMic := !*textMode && *fromFile == ""
	if needMic {
		rec := audio.NewRecorder()
		if err := rec.Init(); err != nil {
			logger.Error("Failed to init audio", "err", err)
			os.Exit(1)
		}
		defer rec.Close()
		a.recorder = rec
	}
	if needMic || *fromFile != "" {
		whisper, err := stt.NewTranscriber(*modelPath)
		if err != nil {
			logger.Error("Failed to init whisper", "err", err)
			os.Exit(1)
		}
		defer whisper.Close()
		a.whisper = whisper
	}

	if reasoner != nil {
		sink.Speak("Готов. Нейросеть активна: " + reasoner.Name() + ". Скажите команду.")
	} else {
		sink.Speak("Готов. Скажите команду.")
	}
	logger.Info("Boot up - successful")

	if *fromFile != "" {
		a.processFile(*fromFile)
		return
	}

	if *busURL != "" {
		go a.serveBus(*busURL)
	}

	switch {
	case *textMode:
		a.textLoop()
	case *pushToTalk:
		if err := ipc.StartServer(func(msg ipc.ControlMessage) {
			switch msg.Cmd {
			case "trigger":
				a.handleTrigger()
			case "utter":
				a.process(msg.Text)
			default:
				logger.Warn("Unknown command", "cmd", msg.Cmd)
			}
		}); err != nil {
			logger.Error("Failed ipc server", "err", err)
			os.Exit(1)
		}
		select {}
	default:
		a.voiceLoop()
	}
}

// process parses and dispatches one utterance, speaks the reply and
// reports whether the assistant was asked to quit. A panic anywhere below
// becomes a spoken error and the loop goes on.
func (a *app) process(text string) (quit bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("dispatch panic", "err", r)
			a.sink.Speak("Произошла ошибка. Попробуйте ещё раз.")
			quit = false
		}
	}()

	var reply string
	reply, quit = a.dispatcher.Dispatch(context.Background(), intent.Parse(text))
	a.sink.Speak(reply)
	return quit
}

func (a *app) textLoop() {
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Вы: ")
		if !sc.Scan() {
			return
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if a.process(text) {
			return
		}
	}
}

func (a *app) voiceLoop() {
	for {
		text, ok := a.listenOnce()
		if !ok {
			continue
		}
		if a.process(text) {
			return
		}
	}
}

func (a *app) handleTrigger() {
	if text, ok := a.listenOnce(); ok {
		a.process(text)
	}
}

// listenOnce captures one utterance from the microphone and transcribes
// it. Other audio is ducked while the assistant listens.
func (a *app) listenOnce() (string, bool) {
	if err := notify.Chime(a.chimePath); err != nil {
		a.logger.Debug("chime failed", "err", err)
	}
	notify.Desktop(a.logger, "Слушаю...")

	if err := a.ducker.Duck(0.3); err != nil {
		a.logger.Debug("duck failed", "err", err)
	}
	defer a.ducker.Restore()

	a.logger.Info("Listening")
	pcm, err := a.recorder.Record(10 * time.Second)
	if err != nil {
		a.logger.Error("Failed to record", "err", err)
		return "", false
	}
	return a.transcribe(pcm)
}

func (a *app) transcribe(pcm []float32) (string, bool) {
	if len(pcm) == 0 {
		a.sink.Speak("Я ничего не расслышал. Повторите, пожалуйста.")
		return "", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := a.whisper.TranscribePCM(ctx, pcm, stt.Options{Language: "auto"})
	if err != nil {
		a.logger.Error("Failed to transcribe", "err", err)
		return "", false
	}
	if strings.TrimSpace(res.Text) == "" {
		a.sink.Speak("Я ничего не расслышал. Повторите, пожалуйста.")
		return "", false
	}

	a.logger.Info("Transcribed", "text", res.Text, "lang", res.Language)
	return res.Text, true
}

func (a *app) processFile(path string) {
	pcm, err := audioconv.DecodeFile(path)
	if err != nil {
		a.logger.Error("Failed to decode audio file", "path", path, "err", err)
		os.Exit(1)
	}
	if text, ok := a.transcribe(pcm); ok {
		a.process(text)
	}
}

func (a *app) serveBus(url string) {
	bus, err := remote.Connect(a.logger, url, "sova")
	if err != nil {
		a.logger.Error("Failed to connect to hub", "url", url, "err", err)
		return
	}
	defer bus.Close()

	for {
		msg, err := bus.Read()
		if err != nil {
			a.logger.Error("hub read failed", "err", err)
			return
		}
		if msg.Kind != "utterance" || msg.Text == "" {
			continue
		}
		reply, _ := a.dispatcher.Dispatch(context.Background(), intent.Parse(msg.Text))
		if err := bus.Reply(msg, reply); err != nil {
			a.logger.Error("hub reply failed", "err", err)
		}
	}
}
