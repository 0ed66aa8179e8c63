package storage

import (
	"errors"
	"fmt"
	"io"
	"time"

	"worktimer/internal/core/timekeeper"

	"gopkg.in/yaml.v3"
)

// SessionFileExtension is used by the open and save dialogs.
const SessionFileExtension = ".session.yaml"

// ErrInvalidSessionFile indicates a session file that cannot be used as a plan.
var ErrInvalidSessionFile = errors.New("invalid session file")

type yamlSession struct {
	Name          string `yaml:"name"`
	WorkSeconds   int    `yaml:"work_seconds"`
	RestSeconds   int    `yaml:"rest_seconds"`
	TargetSeconds int    `yaml:"target_seconds"`
}

// WriteSessionFile stores a session plan as YAML.
func WriteSessionFile(writer io.Writer, plan timekeeper.Plan) error {
	fileData := yamlSession{
		Name:          plan.Name,
		WorkSeconds:   int(plan.Work / time.Second),
		RestSeconds:   int(plan.Rest / time.Second),
		TargetSeconds: int(plan.Target / time.Second),
	}

	encoder := yaml.NewEncoder(writer)
	if err := encoder.Encode(fileData); err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("flush session file: %w", err)
	}
	return nil
}

// ReadSessionFile loads a session plan written by WriteSessionFile.
func ReadSessionFile(reader io.Reader) (timekeeper.Plan, error) {
	var fileData yamlSession
	if err := yaml.NewDecoder(reader).Decode(&fileData); err != nil {
		if errors.Is(err, io.EOF) {
			return timekeeper.Plan{}, fmt.Errorf("%w: empty file", ErrInvalidSessionFile)
		}
		return timekeeper.Plan{}, fmt.Errorf("%w: %v", ErrInvalidSessionFile, err)
	}

	plan := timekeeper.Plan{
		Name:   fileData.Name,
		Work:   time.Duration(fileData.WorkSeconds) * time.Second,
		Rest:   time.Duration(fileData.RestSeconds) * time.Second,
		Target: time.Duration(fileData.TargetSeconds) * time.Second,
	}
	if err := plan.Validate(); err != nil {
		return timekeeper.Plan{}, fmt.Errorf("%w: %v", ErrInvalidSessionFile, err)
	}
	return plan, nil
}
