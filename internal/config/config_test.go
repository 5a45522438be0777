package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "monsteredit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEditor_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadEditor(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultEditor(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEditor_Overrides(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
files:
  monster_txt: monster.txt
encodings: [cp1251, utf-8]
index_range:
  enabled: false
  min: 10
  max: 500
backup:
  enabled: false
patch:
  drop_orphaned_lines: true
`)
	cfg, err := LoadEditor(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "monster.txt", cfg.Files.MonsterTxt)
	assert.Equal(t, "MonsterSpawn.xml", cfg.Files.MonsterSpawn, "unset keys keep defaults")
	assert.Equal(t, []string{"cp1251", "utf-8"}, cfg.Encodings)
	assert.Equal(t, IndexRangeConfig{Enabled: false, Min: 10, Max: 500}, cfg.IndexRange)
	assert.False(t, cfg.Backup.Enabled)
	assert.True(t, cfg.Patch.DropOrphanedLines)
	assert.Equal(t, "Generated by MU Monster Editor", cfg.GeneratorComment)
}

func TestLoadEditor_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "negative min", body: "index_range: {min: -1, max: 10}", want: ErrInvalidIndexRange},
		{name: "min equals max", body: "index_range: {min: 5, max: 5}", want: ErrInvalidIndexRange},
		{name: "min above max", body: "index_range: {min: 9, max: 2}", want: ErrInvalidIndexRange},
		{name: "unknown encoding", body: "encodings: [utf-8, klingon]", want: ErrUnknownEncoding},
		{name: "blank file name", body: "files: {monster_spawn: ''}", want: ErrMissingFileName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadEditor(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadEditor_BadYAML(t *testing.T) {
	_, err := LoadEditor(writeConfig(t, "log_level: [unclosed"))
	assert.Error(t, err)
}

func TestValidate_BlankFileNamesReportedInOrder(t *testing.T) {
	cfg := DefaultEditor()
	cfg.Files.MonsterList = ""
	cfg.Files.MonsterSpawn = ""

	for i := 0; i < 20; i++ {
		err := cfg.Validate()
		require.ErrorIs(t, err, ErrMissingFileName)
		assert.Contains(t, err.Error(), "files.monster_list")
	}
}
