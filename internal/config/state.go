package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AppState is what play remembers between runs.
type AppState struct {
	CameraYaw     *float64 `json:"camera_yaw,omitempty"`
	CameraPitch   *float64 `json:"camera_pitch,omitempty"`
	LastSessionID string   `json:"last_session_id,omitempty"`
	LastTracePath string   `json:"last_trace_path,omitempty"`
}

// StateFile manages the application state file.
type StateFile struct {
	path  string
	state AppState
}

// DefaultStatePath returns ~/.cubetwist/state.json.
func DefaultStatePath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.json"), nil
}

// NewStateFile loads the state at path. A missing file is an empty state.
func NewStateFile(path string) (*StateFile, error) {
	sf := &StateFile{path: path}
	if err := sf.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return sf, nil
}

// NewDefaultStateFile loads the state from the default path.
func NewDefaultStateFile() (*StateFile, error) {
	path, err := DefaultStatePath()
	if err != nil {
		return nil, err
	}
	return NewStateFile(path)
}

// Load loads the state from disk.
func (sf *StateFile) Load() error {
	data, err := os.ReadFile(sf.path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &sf.state); err != nil {
		return fmt.Errorf("failed to decode state file: %w", err)
	}
	return nil
}

// Save saves the state to disk.
func (sf *StateFile) Save() error {
	data, err := json.MarshalIndent(sf.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(sf.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(sf.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// State returns the current state.
func (sf *StateFile) State() AppState {
	return sf.state
}

// SetCamera remembers the camera angles.
func (sf *StateFile) SetCamera(yaw, pitch float64) error {
	sf.state.CameraYaw = &yaw
	sf.state.CameraPitch = &pitch
	return sf.Save()
}

// SetLastSession remembers the last journal session.
func (sf *StateFile) SetLastSession(id string) error {
	sf.state.LastSessionID = id
	return sf.Save()
}

// SetLastTrace remembers the last recorded trace.
func (sf *StateFile) SetLastTrace(path string) error {
	sf.state.LastTracePath = path
	return sf.Save()
}

// ApplyCamera overrides the configured camera angles with remembered ones.
func (sf *StateFile) ApplyCamera(c *Config) {
	if sf.state.CameraYaw != nil && sf.state.CameraPitch != nil {
		c.Camera.Yaw = *sf.state.CameraYaw
		c.Camera.Pitch = *sf.state.CameraPitch
	}
}
