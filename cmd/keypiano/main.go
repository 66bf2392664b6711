package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"gioui.org/app"
	"github.com/keypiano/keypiano"
	"github.com/keypiano/keypiano/cmd"
	"github.com/keypiano/keypiano/oto"
	"github.com/keypiano/keypiano/piano"
	"github.com/keypiano/keypiano/piano/gioui"
	"github.com/keypiano/keypiano/version"
	"gopkg.in/natefinch/lumberjack.v2"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")
var defaultMidiInput = flag.String("midi-input", "", "connect MIDI input to matching device name prefix")
var debug = flag.Bool("debug", false, "log debug messages")
var printVersion = flag.Bool("version", false, "print version and exit")

func main() {
	flag.Parse()
	if *printVersion {
		fmt.Println(version.VersionOrHash)
		return
	}
	logFile := setupLogging(*debug)
	var f *os.File
	if *cpuprofile != "" {
		var err error
		f, err = os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
	}
	prefs, prefsWarn := piano.LoadPreferences()
	notes, notesWarn := piano.LoadNotes()

	var audioContext keypiano.AudioContext
	if c, err := oto.NewContext(); err != nil {
		slog.Error("could not open audio output", "error", err)
	} else {
		audioContext = c
	}
	broker := piano.NewBroker()
	model := piano.NewModel(broker, piano.ModelOptions{
		Notes:       notes,
		Preferences: prefs,
		Capture:     cmd.NewCaptureContext(),
		MIDI:        cmd.NewMidiContext(broker),
	})
	for _, warn := range []error{prefsWarn, notesWarn} {
		if warn != nil {
			slog.Warn("using default configuration", "error", warn)
			model.Alerts().AddAlert(piano.Alert{Priority: piano.Warning, Message: warn.Error(), Duration: 10 * time.Second})
		}
	}
	midiInput := prefs.MIDI.Input
	if isFlagPassed("midi-input") {
		midiInput = *defaultMidiInput
	}
	if midiInput != "" {
		if err := model.MIDI().OpenByPrefix(midiInput); err != nil {
			slog.Warn("could not open MIDI input", "prefix", midiInput, "error", err)
			model.Alerts().Add(err.Error(), piano.Warning)
		}
	}

	window := gioui.NewWindow(model)
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		piano.TrySend(broker.CloseGUI, struct{}{})
	}()
	go func() {
		window.Main(audioContext)
		if err := model.Close(); err != nil {
			slog.Error("closing failed", "error", err)
		}
		if *cpuprofile != "" {
			pprof.StopCPUProfile()
			f.Close()
		}
		if *memprofile != "" {
			f, err := os.Create(*memprofile)
			if err != nil {
				log.Fatal("could not create memory profile: ", err)
			}
			defer f.Close() // error handling omitted for example
			runtime.GC()    // get up-to-date statistics
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatal("could not write memory profile: ", err)
			}
		}
		logFile.Close()
		os.Exit(0)
	}()
	app.Main()
}

// setupLogging sends log records to stderr and to a rotated log file in the
// user config directory.
func setupLogging(debug bool) io.Closer {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logFile := &lumberjack.Logger{MaxSize: 5, MaxBackups: 3, MaxAge: 28}
	var w io.Writer = os.Stderr
	if configDir, err := os.UserConfigDir(); err == nil {
		logFile.Filename = filepath.Join(configDir, piano.ConfigDirName, "keypiano.log")
		w = io.MultiWriter(os.Stderr, logFile)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, AddSource: debug})))
	return logFile
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
