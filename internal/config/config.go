// Package config resolves the daemon's config directory, loads and
// saves its settings/folders YAML documents, and owns the pid-file
// lifecycle. It follows the teacher's applyDefaults/normalize/validate
// triad (internal/config/config.go in kingrea-The-Lattice) and its
// "write defaults if the file is missing" behavior, generalized from a
// single project config file to the daemon's settings/folders/pid
// trio.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skill-docket/skd/internal/model"
	"github.com/skill-docket/skd/internal/retry"
)

const (
	envConfigDir   = "SKD_CONFIG_DIR"
	settingsFile   = "settings.yaml"
	foldersFile    = "folders.yaml"
	pidFile        = "skd.pid"
	defaultVersion = "0.1.0"
)

// PoolConfig describes per-role agent pool sizing.
type PoolConfig struct {
	Size    uint32  `yaml:"size"`
	Path    string  `yaml:"path"`
	MaxSize *uint32 `yaml:"max_size,omitempty"`
}

// Settings is the full daemon configuration loaded from settings.yaml.
type Settings struct {
	Version             string                `yaml:"version"`
	HealthCheckInterval uint64                `yaml:"health_check_interval"`
	HeartbeatTimeout    uint64                `yaml:"heartbeat_timeout"`
	MessageTimeout      uint64                `yaml:"message_timeout"`
	SnapshotInterval    uint64                `yaml:"snapshot_interval"`
	ProjectRoot         string                `yaml:"project_root"`
	ReadyPromptPattern  string                `yaml:"ready_prompt_pattern"`
	MaxRetries          uint32                `yaml:"max_retries"`
	BackoffStrategy     retry.Strategy        `yaml:"backoff_strategy"`
	SSHRetries          uint32                `yaml:"ssh_retries"`
	SSHBackoff          []uint64              `yaml:"ssh_backoff"`
	AlertTargets        []string              `yaml:"alert_targets"`
	EscalationTimeout   uint64                `yaml:"escalation_timeout"`
	PoolConfigs         map[string]PoolConfig `yaml:"pool_configs"`
	PoolAutoExpand      bool                  `yaml:"pool_auto_expand"`
}

// DefaultSettings mirrors the original daemon's shipped defaults
// (original_source/core/src/types/config.rs's settings_round_trip test
// fixture).
func DefaultSettings() Settings {
	return Settings{
		Version:             defaultVersion,
		HealthCheckInterval: 5000,
		HeartbeatTimeout:    30000,
		MessageTimeout:      10000,
		SnapshotInterval:    60000,
		ProjectRoot:         "",
		ReadyPromptPattern:  `\$\s*$`,
		MaxRetries:          3,
		BackoffStrategy:     retry.StrategyExponential,
		SSHRetries:          5,
		SSHBackoff:          []uint64{1000, 2000, 4000, 8000, 16000},
		AlertTargets:        nil,
		EscalationTimeout:   300000,
		PoolConfigs:         map[string]PoolConfig{},
		PoolAutoExpand:      false,
	}
}

func (s *Settings) applyDefaults() {
	defaults := DefaultSettings()
	if strings.TrimSpace(s.Version) == "" {
		s.Version = defaults.Version
	}
	if s.HealthCheckInterval == 0 {
		s.HealthCheckInterval = defaults.HealthCheckInterval
	}
	if s.HeartbeatTimeout == 0 {
		s.HeartbeatTimeout = defaults.HeartbeatTimeout
	}
	if s.MessageTimeout == 0 {
		s.MessageTimeout = defaults.MessageTimeout
	}
	if s.SnapshotInterval == 0 {
		s.SnapshotInterval = defaults.SnapshotInterval
	}
	if strings.TrimSpace(s.ReadyPromptPattern) == "" {
		s.ReadyPromptPattern = defaults.ReadyPromptPattern
	}
	if s.MaxRetries == 0 {
		s.MaxRetries = defaults.MaxRetries
	}
	if s.BackoffStrategy == "" {
		s.BackoffStrategy = defaults.BackoffStrategy
	}
	if s.SSHRetries == 0 {
		s.SSHRetries = defaults.SSHRetries
	}
	if len(s.SSHBackoff) == 0 {
		s.SSHBackoff = defaults.SSHBackoff
	}
	if s.EscalationTimeout == 0 {
		s.EscalationTimeout = defaults.EscalationTimeout
	}
	if s.PoolConfigs == nil {
		s.PoolConfigs = map[string]PoolConfig{}
	}
}

func (s *Settings) normalize(projectDir string) {
	s.ProjectRoot = strings.TrimSpace(s.ProjectRoot)
	if s.ProjectRoot == "" {
		s.ProjectRoot = projectDir
	}
	s.ReadyPromptPattern = strings.TrimSpace(s.ReadyPromptPattern)
	for i, target := range s.AlertTargets {
		s.AlertTargets[i] = strings.TrimSpace(target)
	}
}

func (s Settings) validate() error {
	if strings.TrimSpace(s.ProjectRoot) == "" {
		return fmt.Errorf("project_root is required")
	}
	switch s.BackoffStrategy {
	case retry.StrategyFixed, retry.StrategyLinear, retry.StrategyExponential:
	default:
		return fmt.Errorf("backoff_strategy must be fixed, linear, or exponential")
	}
	for role, pool := range s.PoolConfigs {
		if pool.Size == 0 {
			return fmt.Errorf("pool_configs[%s].size must be > 0", role)
		}
	}
	return nil
}

// Dir resolves the daemon's config directory per the fixed precedence:
// SKD_CONFIG_DIR, then $HOME/.config/skill-docket, then
// /tmp/.config/skill-docket.
func Dir() string {
	if v := strings.TrimSpace(os.Getenv(envConfigDir)); v != "" {
		return v
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".config", "skill-docket")
	}
	return filepath.Join("/tmp", ".config", "skill-docket")
}

// Store owns the on-disk config directory: settings.yaml, folders.yaml,
// and the daemon's pid file.
type Store struct {
	Dir        string
	ProjectDir string
}

// NewStore resolves the config directory and ensures it exists.
func NewStore(projectDir string) (*Store, error) {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("config: ensure config dir %s: %w", dir, err)
	}
	return &Store{Dir: dir, ProjectDir: projectDir}, nil
}

func (s *Store) settingsPath() string { return filepath.Join(s.Dir, settingsFile) }
func (s *Store) foldersPath() string  { return filepath.Join(s.Dir, foldersFile) }
func (s *Store) pidPath() string      { return filepath.Join(s.Dir, pidFile) }

// LoadSettings reads settings.yaml, writing defaults first if the file
// does not yet exist — the same "write defaults if missing" behavior
// the teacher's ensureProjectConfig applies to .lattice/config.yaml.
func (s *Store) LoadSettings() (Settings, error) {
	path := s.settingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		defaults := DefaultSettings()
		defaults.ProjectRoot = s.ProjectDir
		if werr := s.SaveSettings(defaults); werr != nil {
			return Settings{}, werr
		}
		return defaults, nil
	}

	var parsed Settings
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	parsed.normalize(s.ProjectDir)
	if err := parsed.validate(); err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	return parsed, nil
}

// SaveSettings validates and writes settings.yaml.
func (s *Store) SaveSettings(settings Settings) error {
	settings.applyDefaults()
	settings.normalize(s.ProjectDir)
	if err := settings.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("config: encode settings: %w", err)
	}
	if err := os.WriteFile(s.settingsPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write settings: %w", err)
	}
	return nil
}

// LoadFolders reads folders.yaml, returning an empty slice if absent.
func (s *Store) LoadFolders() ([]model.FolderEntry, error) {
	path := s.foldersPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var folders []model.FolderEntry
	if err := yaml.Unmarshal(data, &folders); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return folders, nil
}

// SaveFolders writes folders.yaml.
func (s *Store) SaveFolders(folders []model.FolderEntry) error {
	data, err := yaml.Marshal(folders)
	if err != nil {
		return fmt.Errorf("config: encode folders: %w", err)
	}
	if err := os.WriteFile(s.foldersPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write folders: %w", err)
	}
	return nil
}

// WritePid writes the current process's pid file. Call once at daemon
// startup, before the orchestrator loop begins.
func (s *Store) WritePid(pid int) error {
	return os.WriteFile(s.pidPath(), []byte(strconv.Itoa(pid)), 0o644)
}

// ReadPid reads the daemon's recorded pid, if a pid file exists.
func (s *Store) ReadPid() (int, bool, error) {
	data, err := os.ReadFile(s.pidPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("config: read pid file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false, fmt.Errorf("config: parse pid file: %w", err)
	}
	return pid, true, nil
}

// RemovePid removes the pid file. Safe to call on every daemon exit
// path, including failure paths, since a missing file is not an error.
func (s *Store) RemovePid() error {
	err := os.Remove(s.pidPath())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: remove pid file: %w", err)
	}
	return nil
}
