// ABOUTME: Step table parsing and validation
// ABOUTME: Reads "left right" frame ranges, one per line, with '#' comments
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrMalformedStep is returned for a line that is not two non-negative integers
	ErrMalformedStep = errors.New("invalid step sequence format")
	// ErrStepOutOfBounds is returned when left > right or right exceeds the sample
	ErrStepOutOfBounds = errors.New("invalid step sequence values")
	// ErrNoSteps is returned for a table without any step lines
	ErrNoSteps = errors.New("step sequence is empty")
)

// Step is the frame range [Left, Right) of one note
type Step struct {
	Left  int
	Right int
}

// Len returns the number of frames in the step
func (s Step) Len() int {
	return s.Right - s.Left
}

// Validate checks 0 <= Left <= Right <= sampleLength
func (s Step) Validate(sampleLength int) error {
	if s.Left < 0 || s.Left > s.Right || s.Right > sampleLength {
		return fmt.Errorf("%w: [%d, %d) with %d sample frames", ErrStepOutOfBounds, s.Left, s.Right, sampleLength)
	}
	return nil
}

// ParseSteps reads a step table and validates it against sampleLength
func ParseSteps(r io.Reader, sampleLength int) ([]Step, error) {
	var steps []Step

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		step, err := parseStep(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := step.Validate(sampleLength); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read step sequence: %w", err)
	}

	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	return steps, nil
}

func parseStep(text string) (Step, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Step{}, fmt.Errorf("%w: expected 2 fields, got %d", ErrMalformedStep, len(fields))
	}

	var bounds [2]int
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 31)
		if err != nil {
			return Step{}, fmt.Errorf("%w: %q is not a non-negative integer", ErrMalformedStep, f)
		}
		bounds[i] = int(v)
	}
	return Step{Left: bounds[0], Right: bounds[1]}, nil
}
