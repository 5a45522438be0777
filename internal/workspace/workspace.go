// Package workspace is the editing session over one monster folder:
// load, edit in memory, validate, save. It is the functional surface a
// presentation layer drives and it owns every loaded document.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/beevik/etree"

	"github.com/udisondev/monsteredit/internal/backup"
	"github.com/udisondev/monsteredit/internal/config"
	"github.com/udisondev/monsteredit/internal/monster"
	"github.com/udisondev/monsteredit/internal/monsterlist"
	"github.com/udisondev/monsteredit/internal/setbase"
	"github.com/udisondev/monsteredit/internal/spawnxml"
	"github.com/udisondev/monsteredit/internal/textdiff"
	"github.com/udisondev/monsteredit/internal/validate"
)

// ErrNoSpawnDocument is returned by spawn operations when the folder has
// no MonsterSpawn.xml.
var ErrNoSpawnDocument = errors.New("no spawn document loaded")

// Option configures a Workspace.
type Option func(*options)

type options struct {
	clock backup.Clock
}

// WithClock injects the clock used to name backups.
func WithClock(c backup.Clock) Option {
	return func(o *options) { o.clock = c }
}

// Workspace is a loaded monster folder. It is not safe for concurrent use.
type Workspace struct {
	Dir string

	// Monsters is the record table of Monster.txt with its raw lines.
	Monsters *monster.File
	// Spawns is nil when the folder has no MonsterSpawn.xml.
	Spawns *spawnxml.Store

	cfg    config.Editor
	writer *backup.Writer
}

// Status summarizes a workspace.
type Status struct {
	Dir      string
	Monsters int
	Maps     int
	Spots    int
	Spawns   int
	Warnings int
	Encoding string
}

// Open loads Monster.txt and MonsterSpawn.xml from dir. Monster.txt is
// required; a missing MonsterSpawn.xml leaves Spawns nil. MonsterList.xml
// is never read here, it is generated.
func Open(dir string, cfg config.Editor, opts ...Option) (*Workspace, error) {
	o := options{clock: backup.SystemClock}
	for _, opt := range opts {
		opt(&o)
	}

	ws := &Workspace{
		Dir: dir,
		cfg: cfg,
		writer: backup.NewWriter(
			backup.WithClock(o.clock),
			backup.WithBackups(cfg.Backup.Enabled),
		),
	}

	mf, err := monster.Load(ws.MonsterTxtPath(), cfg.Encodings)
	if err != nil {
		return nil, fmt.Errorf("opening workspace: %w", err)
	}
	ws.Monsters = mf

	spawns, err := spawnxml.Load(ws.MonsterSpawnPath())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("spawn document not found", "path", ws.MonsterSpawnPath())
	case err != nil:
		return nil, fmt.Errorf("opening workspace: %w", err)
	default:
		ws.Spawns = spawns
	}

	slog.Info("workspace opened", "dir", dir, "monsters", len(mf.Records), "encoding", mf.Encoding)
	return ws, nil
}

// MonsterTxtPath returns the path of Monster.txt.
func (ws *Workspace) MonsterTxtPath() string {
	return filepath.Join(ws.Dir, ws.cfg.Files.MonsterTxt)
}

// MonsterListPath returns the path of MonsterList.xml.
func (ws *Workspace) MonsterListPath() string {
	return filepath.Join(ws.Dir, ws.cfg.Files.MonsterList)
}

// MonsterSpawnPath returns the path of MonsterSpawn.xml.
func (ws *Workspace) MonsterSpawnPath() string {
	return filepath.Join(ws.Dir, ws.cfg.Files.MonsterSpawn)
}

// Policy returns the validator policy derived from the config.
func (ws *Workspace) Policy() validate.Policy {
	r := ws.cfg.IndexRange
	return validate.Policy{Range: validate.KeyRange{Enabled: r.Enabled, Min: r.Min, Max: r.Max}}
}

// Validate runs every check over the loaded documents.
func (ws *Workspace) Validate() []validate.Warning {
	return validate.Validate(ws.Monsters.Records, ws.Spawns, ws.Policy())
}

// Status counts records, spawn nodes and warnings.
func (ws *Workspace) Status() Status {
	st := Status{
		Dir:      ws.Dir,
		Monsters: len(ws.Monsters.Records),
		Warnings: len(ws.Validate()),
		Encoding: ws.Monsters.Encoding,
	}
	if ws.Spawns != nil {
		st.Maps, st.Spots, st.Spawns = ws.Spawns.Counts()
	}
	return st
}

// Maps lists the spawn maps sorted by Number.
func (ws *Workspace) Maps() []*etree.Element {
	if ws.Spawns == nil {
		return nil
	}
	return ws.Spawns.MapsByNumber()
}

// FindMap looks a map up by Number.
func (ws *Workspace) FindMap(number int) (*etree.Element, error) {
	if ws.Spawns == nil {
		return nil, ErrNoSpawnDocument
	}
	m, ok := ws.Spawns.FindMap(number)
	if !ok {
		return nil, fmt.Errorf("map %d not found", number)
	}
	return m, nil
}

// SaveMonsters patch-saves Monster.txt in its detected encoding.
func (ws *Workspace) SaveMonsters() (monster.Patch, error) {
	return monster.SavePatch(ws.MonsterTxtPath(), ws.Monsters, ws.writer, monster.SaveOptions{
		Merge: monster.MergeOptions{DropOrphans: ws.cfg.Patch.DropOrphanedLines},
	})
}

// RegenerateList rebuilds MonsterList.xml from the records.
func (ws *Workspace) RegenerateList() error {
	return monsterlist.Save(ws.MonsterListPath(), ws.Monsters.Records, ws.cfg.GeneratorComment, ws.writer)
}

// PreviewList diffs the current MonsterList.xml against what RegenerateList
// would write. A missing file diffs as empty; "" means no change.
func (ws *Workspace) PreviewList() (string, error) {
	path := ws.MonsterListPath()
	old, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading monster list: %w", err)
	}
	generated := monsterlist.Render(ws.Monsters.Records, ws.cfg.GeneratorComment)
	name := ws.cfg.Files.MonsterList
	return textdiff.Unified(name, name+" (generated)", string(old), string(generated), textdiff.DefaultContext), nil
}

// SaveSpawns canonicalizes and writes MonsterSpawn.xml.
func (ws *Workspace) SaveSpawns() error {
	if ws.Spawns == nil {
		return ErrNoSpawnDocument
	}
	return ws.Spawns.Save(ws.MonsterSpawnPath(), ws.cfg.GeneratorComment, ws.writer)
}

// SaveAll writes Monster.txt, MonsterList.xml and MonsterSpawn.xml in that
// order and stops at the first error. The spawn document is skipped when
// none is loaded.
func (ws *Workspace) SaveAll() error {
	if _, err := ws.SaveMonsters(); err != nil {
		return err
	}
	if err := ws.RegenerateList(); err != nil {
		return err
	}
	if ws.Spawns == nil {
		return nil
	}
	return ws.SaveSpawns()
}

// SetBasePaths returns the configured MonsterSetBase files.
func (ws *Workspace) SetBasePaths() []string {
	out := make([]string, len(ws.cfg.Files.SetBase))
	for i, name := range ws.cfg.Files.SetBase {
		out[i] = filepath.Join(ws.Dir, name)
	}
	return out
}

// ScanSetBase checks every configured MonsterSetBase file.
func (ws *Workspace) ScanSetBase() ([]setbase.Report, error) {
	var out []setbase.Report
	for _, p := range ws.SetBasePaths() {
		rep, err := setbase.Scan(p, ws.Monsters.Records, ws.cfg.Encodings)
		if err != nil {
			return out, err
		}
		out = append(out, rep)
	}
	return out, nil
}

// WriteSetBaseSuggestions writes the suggestions file into the folder and
// returns its path.
func (ws *Workspace) WriteSetBaseSuggestions(reports []setbase.Report) (string, error) {
	path := filepath.Join(ws.Dir, setbase.SuggestionsName)
	return path, setbase.WriteSuggestions(path, reports, ws.writer)
}

// AppendSetBasePlaceholders appends placeholders to every existing file
// with unreferenced indices and returns the backups made.
func (ws *Workspace) AppendSetBasePlaceholders(reports []setbase.Report) ([]string, error) {
	var backups []string
	for _, rep := range reports {
		if rep.Missing || len(rep.Unreferenced) == 0 {
			continue
		}
		bak, err := setbase.AppendPlaceholders(rep.Path, rep.Unreferenced, ws.writer)
		if err != nil {
			return backups, err
		}
		if bak != "" {
			backups = append(backups, bak)
		}
	}
	return backups, nil
}
