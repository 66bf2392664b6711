package piano

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/keypiano/keypiano"
	yamlv2 "gopkg.in/yaml.v2"
	"gopkg.in/yaml.v3"
)

type (
	Preferences struct {
		Window    WindowPreferences    `yaml:"window"`
		Tone      TonePreferences      `yaml:"tone"`
		Recording RecordingPreferences `yaml:"recording"`
		MIDI      MIDIPreferences      `yaml:"midi"`
	}

	WindowPreferences struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	}

	TonePreferences struct {
		Waveform            keypiano.Waveform `yaml:"waveform"`
		Volume              float32           `yaml:"volume"`
		ReleaseMatchingOnly bool              `yaml:"releaseMatchingOnly"`
	}

	RecordingPreferences struct {
		MaxDuration       time.Duration `yaml:"maxDuration"`
		PermissionTimeout time.Duration `yaml:"permissionTimeout"`
		FragmentInterval  time.Duration `yaml:"fragmentInterval"`
		SampleRate        int           `yaml:"sampleRate"`
		Channels          int           `yaml:"channels"`
		Container         Container     `yaml:"container"`
		FileNameTemplate  string        `yaml:"fileName"`
	}

	MIDIPreferences struct {
		Input string `yaml:"input"`
	}
)

// ConfigDirName is the name of the directory in os.UserConfigDir() holding
// the user's configuration files.
const ConfigDirName = "keypiano"

//go:embed preferences.yml
var defaultPreferencesYaml []byte

//go:embed keymap.yml
var defaultKeymapYaml []byte

// DefaultPreferences returns the built-in preferences.
func DefaultPreferences() Preferences {
	var p Preferences
	if err := yaml.Unmarshal(defaultPreferencesYaml, &p); err != nil {
		panic(fmt.Errorf("failed to unmarshal default preferences: %w", err))
	}
	return p
}

// LoadPreferences returns the built-in preferences overridden by the user's
// preferences.yml. A broken user file is reported as the warning; the
// defaults are returned in that case.
func LoadPreferences() (p Preferences, warn error) {
	p = DefaultPreferences()
	custom := p
	exists, err := ReadCustomConfigYml("preferences.yml", func(b []byte) error { return yaml.Unmarshal(b, &custom) })
	if !exists {
		return p, nil
	}
	if err == nil {
		err = custom.Validate()
	}
	if err != nil {
		return p, fmt.Errorf("preferences.yml: %w", err)
	}
	return custom, nil
}

// LoadNotes returns the notes with the trigger keys of the user's keymap.yml
// applied on top of the built-in keymap.
func LoadNotes() (notes keypiano.Notes, warn error) {
	var keys map[string]string
	if err := yamlv2.Unmarshal(defaultKeymapYaml, &keys); err != nil {
		panic(fmt.Errorf("failed to unmarshal default keymap: %w", err))
	}
	notes, err := keypiano.DefaultNotes.WithKeys(keys)
	if err != nil {
		panic(fmt.Errorf("default keymap is invalid: %w", err))
	}
	var custom map[string]string
	exists, err := ReadCustomConfigYml("keymap.yml", func(b []byte) error { return yamlv2.UnmarshalStrict(b, &custom) })
	if !exists {
		return notes, nil
	}
	if err == nil {
		var customNotes keypiano.Notes
		if customNotes, err = notes.WithKeys(custom); err == nil {
			return customNotes, nil
		}
	}
	return notes, fmt.Errorf("keymap.yml: %w", err)
}

// ReadCustomConfigYml reads filename from the user config directory and
// passes its contents to unmarshal. exists is false if there is no such file.
func ReadCustomConfigYml(filename string, unmarshal func([]byte) error) (exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return false, err
	}
	b, err := os.ReadFile(filepath.Join(configDir, ConfigDirName, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return true, err
	}
	return true, unmarshal(b)
}

func (p Preferences) Validate() error {
	var errs []error
	if p.Tone.Volume < 0 || p.Tone.Volume > 1 {
		errs = append(errs, fmt.Errorf("tone volume %v is outside [0,1]", p.Tone.Volume))
	}
	r := p.Recording
	if r.MaxDuration <= 0 {
		errs = append(errs, fmt.Errorf("recording maxDuration must be positive, got %v", r.MaxDuration))
	}
	if r.PermissionTimeout <= 0 {
		errs = append(errs, fmt.Errorf("recording permissionTimeout must be positive, got %v", r.PermissionTimeout))
	}
	if r.FragmentInterval <= 0 {
		errs = append(errs, fmt.Errorf("recording fragmentInterval must be positive, got %v", r.FragmentInterval))
	}
	if r.SampleRate < 8000 || r.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("recording sampleRate %d is not supported", r.SampleRate))
	}
	if r.Channels < 1 || r.Channels > 2 {
		errs = append(errs, fmt.Errorf("recording channels must be 1 or 2, got %d", r.Channels))
	}
	if _, err := r.fileNameTemplate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (r RecordingPreferences) captureOptions() keypiano.CaptureOptions {
	return keypiano.CaptureOptions{
		SampleRate:     r.SampleRate,
		Channels:       r.Channels,
		FragmentFrames: int(r.FragmentInterval * time.Duration(r.SampleRate) / time.Second),
	}
}

func (r RecordingPreferences) fileNameTemplate() (*template.Template, error) {
	t, err := template.New("fileName").Funcs(sprig.TxtFuncMap()).Parse(r.FileNameTemplate)
	if err != nil {
		return nil, fmt.Errorf("recording fileName: %w", err)
	}
	return t, nil
}

// FileName renders the file name template of the recording. It falls back to
// "recording.<ext>" if the template is empty or fails.
func (r RecordingPreferences) FileName(now time.Time) string {
	fallback := "recording." + r.Container.String()
	t, err := r.fileNameTemplate()
	if err != nil {
		return fallback
	}
	var b bytes.Buffer
	data := struct {
		Extension string
		Time      time.Time
	}{r.Container.String(), now}
	if err := t.Execute(&b, data); err != nil || b.Len() == 0 {
		return fallback
	}
	return filepath.Base(b.String())
}

func (p WindowPreferences) Size() (width, height int) {
	return max(p.Width, 320), max(p.Height, 240)
}
