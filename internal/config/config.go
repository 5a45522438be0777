package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/monsteredit/internal/monster"
)

var (
	// ErrInvalidIndexRange is returned when index_range is negative or empty.
	ErrInvalidIndexRange = errors.New("invalid index range")
	// ErrUnknownEncoding is returned for an encodings entry with no codec.
	ErrUnknownEncoding = errors.New("unknown encoding")
	// ErrMissingFileName is returned when a files entry is blank.
	ErrMissingFileName = errors.New("missing file name")
)

// Editor holds all configuration for the monster editor.
type Editor struct {
	LogLevel string `yaml:"log_level"`

	// Monster folder layout
	Files FilesConfig `yaml:"files"`

	// Monster.txt decode candidates, tried in order
	Encodings []string `yaml:"encodings"`

	// Validation
	IndexRange IndexRangeConfig `yaml:"index_range"`

	Backup BackupConfig `yaml:"backup"`
	Patch  PatchConfig  `yaml:"patch"`

	// Comment written after the XML declaration of generated files
	GeneratorComment string `yaml:"generator_comment"`
}

// FilesConfig names the files inside a monster folder.
type FilesConfig struct {
	MonsterTxt   string   `yaml:"monster_txt"`
	MonsterList  string   `yaml:"monster_list"`
	MonsterSpawn string   `yaml:"monster_spawn"`
	SetBase      []string `yaml:"setbase"`
}

// IndexRangeConfig is the allowed interval for monster indices.
type IndexRangeConfig struct {
	Enabled bool `yaml:"enabled"`
	Min     int  `yaml:"min"`
	Max     int  `yaml:"max"`
}

// BackupConfig controls the .bak_<stamp> copies made before overwrites.
type BackupConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PatchConfig tunes the Monster.txt patch save.
type PatchConfig struct {
	// Remove record lines whose index no longer exists in memory
	DropOrphanedLines bool `yaml:"drop_orphaned_lines"`
}

// DefaultEditor returns Editor config with sensible defaults.
func DefaultEditor() Editor {
	return Editor{
		LogLevel: "info",
		Files: FilesConfig{
			MonsterTxt:   "Monster.txt",
			MonsterList:  "MonsterList.xml",
			MonsterSpawn: "MonsterSpawn.xml",
			SetBase:      []string{"MonsterSetBase.txt", "MonsterSetBaseCS.txt"},
		},
		Encodings: slices.Clone(monster.DefaultEncodings),
		IndexRange: IndexRangeConfig{
			Enabled: true,
			Min:     0,
			Max:     65535,
		},
		Backup:           BackupConfig{Enabled: true},
		GeneratorComment: "Generated by MU Monster Editor",
	}
}

// LoadEditor loads editor config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadEditor(path string) (Editor, error) {
	cfg := DefaultEditor()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that would make the editor misbehave.
func (e Editor) Validate() error {
	r := e.IndexRange
	if r.Min < 0 || r.Max < 0 || r.Min >= r.Max {
		return fmt.Errorf("%w: min=%d max=%d", ErrInvalidIndexRange, r.Min, r.Max)
	}

	for _, enc := range e.Encodings {
		if !monster.KnownEncoding(enc) {
			return fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
		}
	}

	for _, f := range []struct{ key, name string }{
		{"monster_txt", e.Files.MonsterTxt},
		{"monster_list", e.Files.MonsterList},
		{"monster_spawn", e.Files.MonsterSpawn},
	} {
		if f.name == "" {
			return fmt.Errorf("%w: files.%s", ErrMissingFileName, f.key)
		}
	}

	return nil
}
