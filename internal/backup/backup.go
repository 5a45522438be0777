// Package backup implements the backup-then-overwrite discipline every
// destructive save goes through: the current file is copied to
// <path>.bak_<YYYYMMDD_HHMMSS> before new content is written.
package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// ErrNotRegular is returned when the save target exists but is not a regular file.
var ErrNotRegular = errors.New("not a regular file")

// StampLayout is the time layout of the backup suffix.
const StampLayout = "20060102_150405"

const defaultPerm fs.FileMode = 0o644

// Clock supplies the wall time used in backup names.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads time.Now.
var SystemClock Clock = ClockFunc(time.Now)

// Name returns the backup path for path taken at t.
func Name(path string, t time.Time) string {
	return path + ".bak_" + t.Format(StampLayout)
}

// Writer performs backups and overwrites.
type Writer struct {
	clock   Clock
	enabled bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock injects the clock used for backup names.
func WithClock(c Clock) Option {
	return func(w *Writer) { w.clock = c }
}

// WithBackups turns backup creation on or off. On by default.
func WithBackups(enabled bool) Option {
	return func(w *Writer) { w.enabled = enabled }
}

// NewWriter creates a Writer using the system clock.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{clock: SystemClock, enabled: true}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Now returns the writer's clock reading.
func (w *Writer) Now() time.Time { return w.clock.Now() }

// Backup copies path next to itself under a timestamped name and returns
// that name. A missing file needs no backup: "" and nil are returned.
// If a backup with the same stamp already exists a numeric suffix is
// added instead of overwriting it.
func (w *Writer) Backup(path string) (string, error) {
	if !w.enabled {
		return "", nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("backup %s: %w", path, ErrNotRegular)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}

	base := Name(path, w.clock.Now())
	name := base
	for n := 2; ; n++ {
		err = writeExclusive(name, data, info.Mode().Perm())
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) || n > 100 {
			return "", fmt.Errorf("backup %s: %w", path, err)
		}
		name = base + "_" + strconv.Itoa(n)
	}

	// keep the original timestamp on the copy
	if err := os.Chtimes(name, info.ModTime(), info.ModTime()); err != nil {
		slog.Debug("backup mtime not preserved", "backup", name, "err", err)
	}

	slog.Info("backup created", "path", path, "backup", name)
	return name, nil
}

// Replace backs path up and then overwrites it with data. data must be the
// complete new content; nothing is written if the backup fails.
func (w *Writer) Replace(path string, data []byte) (string, error) {
	bak, err := w.Backup(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, permOf(path)); err != nil {
		return bak, fmt.Errorf("writing %s: %w", path, err)
	}
	slog.Info("file saved", "path", path, "bytes", len(data))
	return bak, nil
}

// Append backs path up and then appends data to it.
func (w *Writer) Append(path string, data []byte) (string, error) {
	bak, err := w.Backup(path)
	if err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, permOf(path))
	if err != nil {
		return bak, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return bak, fmt.Errorf("appending %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return bak, fmt.Errorf("closing %s: %w", path, err)
	}
	return bak, nil
}

func writeExclusive(name string, data []byte, perm fs.FileMode) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return err
	}
	return f.Close()
}

func permOf(path string) fs.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return defaultPerm
}
