// ABOUTME: Sample store holding the sample buffer and step table
// ABOUTME: Loads and validates both sources once at startup
package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/Resonate-Protocol/musicbox-go/internal/config"
	"github.com/Resonate-Protocol/musicbox-go/pkg/audio"
	"github.com/Resonate-Protocol/musicbox-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/musicbox-go/pkg/audio/resample"
	"github.com/mitchellh/go-homedir"
)

// ErrRateMismatch is returned when a decoded sample is not at the stream rate
// and resampling was not requested
var ErrRateMismatch = errors.New("sample rate does not match stream rate")

// Store is the immutable sample buffer and step table.
// Every step satisfies 0 <= Left <= Right <= len(Samples).
type Store struct {
	Samples []float32
	Steps   []Step
}

// New validates steps against samples and builds a store
func New(samples []float32, steps []Step) (*Store, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	for i, s := range steps {
		if err := s.Validate(len(samples)); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return &Store{Samples: samples, Steps: steps}, nil
}

// Load decodes the sample file of opts, converts it to mono at rate and
// parses the step table against it
func Load(opts config.Sample, rate int) (*Store, error) {
	samplePath, stepPath := opts.Paths()

	samplePath, err := expandPath(samplePath)
	if err != nil {
		return nil, err
	}
	stepPath, err = expandPath(stepPath)
	if err != nil {
		return nil, err
	}

	buf, err := loadSample(opts.Mode(), samplePath, rate)
	if err != nil {
		return nil, err
	}
	samples := audio.Downmix(buf.Samples, buf.Format.Channels)
	sourceFrames := len(samples)

	var resampler *resample.Resampler
	if buf.Format.SampleRate != rate {
		enc, ok := opts.(config.EncodedSample)
		if !ok || !enc.Resample {
			return nil, fmt.Errorf("%s: %w (%d Hz, stream %d Hz)", samplePath, ErrRateMismatch, buf.Format.SampleRate, rate)
		}
		resampler = resample.New(buf.Format.SampleRate, rate, 1)
		converted := make([]float32, resampler.OutputSamplesNeeded(len(samples)))
		n := resampler.Resample(samples, converted)
		samples = converted[:n]
	}

	// steps are written against the file's own frames; validate there first
	steps, err := loadSteps(stepPath, sourceFrames)
	if err != nil {
		return nil, err
	}
	if resampler != nil {
		for i := range steps {
			steps[i].Left = clamp(resampler.ScaleFrame(steps[i].Left), len(samples))
			steps[i].Right = clamp(resampler.ScaleFrame(steps[i].Right), len(samples))
		}
	}

	return New(samples, steps)
}

// Release drops the sample and step slices
func (s *Store) Release() {
	s.Samples = nil
	s.Steps = nil
}

// Frames returns the sample length
func (s *Store) Frames() int {
	return len(s.Samples)
}

func loadSample(mode config.Mode, path string, rate int) (audio.Buffer, error) {
	dec, err := decode.New(string(mode), rate)
	if err != nil {
		return audio.Buffer{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("failed to open sample file: %w", err)
	}
	defer f.Close()

	buf, err := dec.Decode(f)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("failed to read sample data from file %s: %w", path, err)
	}
	return buf, nil
}

func loadSteps(path string, sampleLength int) ([]Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open step sequence file: %w", err)
	}
	defer f.Close()

	steps, err := ParseSteps(f, sampleLength)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return steps, nil
}

func expandPath(path string) (string, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path %q: %w", path, err)
	}
	return os.ExpandEnv(p), nil
}

func clamp(v, max int) int {
	if v > max {
		return max
	}
	return v
}
