// ABOUTME: Service configuration loaded from a TOML file
// ABOUTME: Validates mode, backend and transport into tagged variants
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Resonate-Protocol/musicbox-go/pkg/audio"
)

const (
	// DefaultPath is where the service looks for its configuration
	DefaultPath = "/etc/mbas/config.toml"
	// DefaultSocketPath is the control socket of the UNIXGRAM transport
	DefaultSocketPath = "/tmp/mbas.sock"
	// DefaultToken is the trigger payload
	DefaultToken = "PLAY"
	// DefaultPeriodFrames is the buffer hint passed to backends
	DefaultPeriodFrames = 512
	// DefaultWebSocketPath is the HTTP path of the WEBSOCKET transport
	DefaultWebSocketPath = "/trigger"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Mode selects how the sample file is decoded
type Mode string

const (
	ModeRaw  Mode = "RAW"
	ModeWAV  Mode = "WAV"
	ModeMP3  Mode = "MP3"
	ModeFLAC Mode = "FLAC"
)

// Backend selects the audio output
type Backend string

const (
	BackendOto       Backend = "OTO"
	BackendMalgo     Backend = "MALGO"
	BackendPortAudio Backend = "PORTAUDIO"
	BackendNull      Backend = "NULL"
)

// Sample is the mode-specific sample source. Exactly one of the concrete
// types below is held by Config.Sample.
type Sample interface {
	Mode() Mode
	Paths() (samplePath, stepSeqPath string)
}

// RawSample is headerless mono f32le recorded at the stream rate
type RawSample struct {
	SamplePath  string
	StepSeqPath string
}

func (RawSample) Mode() Mode { return ModeRaw }

func (s RawSample) Paths() (string, string) { return s.SamplePath, s.StepSeqPath }

// EncodedSample is a WAV, MP3 or FLAC file decoded at startup
type EncodedSample struct {
	Format      Mode
	SamplePath  string
	StepSeqPath string
	// Resample converts a sample whose rate differs from the stream rate; step
	// bounds are then read at the file's rate and scaled. Without it a rate
	// mismatch is a load error.
	Resample bool
}

func (s EncodedSample) Mode() Mode { return s.Format }

func (s EncodedSample) Paths() (string, string) { return s.SamplePath, s.StepSeqPath }

// Audio holds output stream settings
type Audio struct {
	Rate         int
	PeriodFrames int
}

// Config is the validated service configuration
type Config struct {
	Backend   Backend
	Audio     Audio
	Sample    Sample
	Transport Transport
	Token     string
	// MDNS advertises network transports; ServiceName defaults to the hostname
	MDNS        bool
	ServiceName string
}

// Default returns a RAW/OTO/UNIXGRAM configuration with empty sample paths
func Default() Config {
	return Config{
		Backend: BackendOto,
		Audio: Audio{
			Rate:         audio.DefaultSampleRate,
			PeriodFrames: DefaultPeriodFrames,
		},
		Sample:    RawSample{},
		Transport: UnixgramTransport{SocketPath: DefaultSocketPath},
		Token:     DefaultToken,
	}
}

// file mirrors the TOML layout before validation
type file struct {
	Mode    string `toml:"mode"`
	Backend string `toml:"backend"`
	Audio   struct {
		Rate         int `toml:"rate"`
		PeriodFrames int `toml:"period_frames"`
	} `toml:"audio"`
	Raw     sampleSection `toml:"raw"`
	WAV     sampleSection `toml:"wav"`
	MP3     sampleSection `toml:"mp3"`
	FLAC    sampleSection `toml:"flac"`
	Control struct {
		Transport   string `toml:"transport"`
		Token       string `toml:"token"`
		SocketPath  string `toml:"socket_path"`
		Address     string `toml:"address"`
		Path        string `toml:"path"`
		MDNS        bool   `toml:"mdns"`
		ServiceName string `toml:"service_name"`
		MIDIPort    string `toml:"midi_port"`
		MIDINote    *int   `toml:"midi_note"`
	} `toml:"control"`
}

type sampleSection struct {
	SamplePath  string `toml:"sample_path"`
	StepSeqPath string `toml:"step_seq_path"`
	Resample    bool   `toml:"resample"`
}

// Load reads and validates the configuration at path
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads TOML from r and validates it
func Parse(r io.Reader) (Config, error) {
	var raw file
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return Config{}, fmt.Errorf("%w: error parsing config file: %v", ErrInvalid, err)
	}
	return raw.validate()
}

func (raw file) validate() (Config, error) {
	cfg := Default()

	if raw.Mode == "" {
		return Config{}, invalid("'mode' must be a string")
	}
	if raw.Backend == "" {
		return Config{}, invalid("'backend' must be a string")
	}

	switch Backend(strings.ToUpper(raw.Backend)) {
	case BackendOto:
		cfg.Backend = BackendOto
	case BackendMalgo:
		cfg.Backend = BackendMalgo
	case BackendPortAudio:
		cfg.Backend = BackendPortAudio
	case BackendNull:
		cfg.Backend = BackendNull
	default:
		return Config{}, invalid("unsupported backend '%s'", raw.Backend)
	}

	if raw.Audio.Rate != 0 {
		cfg.Audio.Rate = raw.Audio.Rate
	}
	if cfg.Audio.Rate <= 0 {
		return Config{}, invalid("'audio.rate' must be positive")
	}
	if raw.Audio.PeriodFrames < 0 {
		return Config{}, invalid("'audio.period_frames' must not be negative")
	}
	if raw.Audio.PeriodFrames > 0 {
		cfg.Audio.PeriodFrames = raw.Audio.PeriodFrames
	}

	sample, err := raw.sample()
	if err != nil {
		return Config{}, err
	}
	cfg.Sample = sample

	transport, err := raw.transport()
	if err != nil {
		return Config{}, err
	}
	cfg.Transport = transport

	if raw.Control.Token != "" {
		cfg.Token = raw.Control.Token
	}
	cfg.MDNS = raw.Control.MDNS
	cfg.ServiceName = raw.Control.ServiceName

	if cfg.MDNS && !cfg.Transport.Networked() {
		return Config{}, invalid("'control.mdns' requires a network transport, got %s", cfg.Transport.Kind())
	}

	return cfg, nil
}

func (raw file) sample() (Sample, error) {
	mode := Mode(strings.ToUpper(raw.Mode))

	var section sampleSection
	var key string
	switch mode {
	case ModeRaw:
		section, key = raw.Raw, "raw"
	case ModeWAV:
		section, key = raw.WAV, "wav"
	case ModeMP3:
		section, key = raw.MP3, "mp3"
	case ModeFLAC:
		section, key = raw.FLAC, "flac"
	default:
		return nil, invalid("unsupported mode '%s'", raw.Mode)
	}

	if section.SamplePath == "" {
		return nil, invalid("'%s.sample_path' must be a string", key)
	}
	if section.StepSeqPath == "" {
		return nil, invalid("'%s.step_seq_path' must be a string", key)
	}

	if mode == ModeRaw {
		if section.Resample {
			return nil, invalid("'raw.resample' is not supported: raw samples are at the stream rate")
		}
		return RawSample{SamplePath: section.SamplePath, StepSeqPath: section.StepSeqPath}, nil
	}

	return EncodedSample{
		Format:      mode,
		SamplePath:  section.SamplePath,
		StepSeqPath: section.StepSeqPath,
		Resample:    section.Resample,
	}, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
