package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFolder создаёт временную папку с указанными файлами (имя → содержимое).
func WriteFolder(t testing.TB, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}
	return dir
}

// SampleFolder создаёт папку с Monster.txt, MonsterSpawn.xml и MonsterSetBase.txt из Fixtures.
func SampleFolder(t testing.TB) string {
	t.Helper()

	return WriteFolder(t, map[string]string{
		"Monster.txt":        Fixtures.MonsterTxt,
		"MonsterSpawn.xml":   Fixtures.MonsterSpawnXML,
		"MonsterSetBase.txt": Fixtures.SetBaseTxt,
	})
}

// ReadFile читает файл или прерывает тест.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
