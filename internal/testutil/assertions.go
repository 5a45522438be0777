package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AssertFileContent проверяет, что содержимое файла совпадает с ожидаемым.
func AssertFileContent(t testing.TB, path, expected string) {
	t.Helper()

	actual := ReadFile(t, path)
	if actual != expected {
		t.Fatalf("file %s content mismatch\nexpected:\n%s\nactual:\n%s", path, expected, actual)
	}
}

// AssertBackup проверяет, что рядом с path лежит резервная копия с меткой FixedStamp
// и содержимым expected.
func AssertBackup(t testing.TB, path, expected string) {
	t.Helper()

	AssertFileContent(t, path+".bak_"+FixedStamp, expected)
}

// AssertNoBackup проверяет, что резервных копий path не создано.
func AssertNoBackup(t testing.TB, path string) {
	t.Helper()

	dir, base := filepath.Dir(path), filepath.Base(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir %s: %v", dir, err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), base+".bak_") {
			t.Fatalf("unexpected backup %s", e.Name())
		}
	}
}

// AssertLineCount проверяет число строк текста без учёта завершающего перевода строки.
func AssertLineCount(t testing.TB, expected int, text string) {
	t.Helper()

	actual := len(strings.Split(strings.TrimSuffix(text, "\n"), "\n"))
	if text == "" {
		actual = 0
	}
	if actual != expected {
		t.Fatalf("line count mismatch: expected %d, got %d\n%s", expected, actual, text)
	}
}
