package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/monsteredit/internal/config"
	"github.com/udisondev/monsteredit/internal/monster"
	"github.com/udisondev/monsteredit/internal/monsterlist"
	"github.com/udisondev/monsteredit/internal/spawnxml"
	"github.com/udisondev/monsteredit/internal/testutil"
	"github.com/udisondev/monsteredit/internal/validate"
)

func openSample(t *testing.T, cfg config.Editor) *Workspace {
	t.Helper()
	ws, err := Open(testutil.SampleFolder(t), cfg, WithClock(testutil.FixedClock))
	require.NoError(t, err)
	return ws
}

func TestOpen_Status(t *testing.T) {
	ws := openSample(t, config.DefaultEditor())

	assert.Equal(t, Status{
		Dir:      ws.Dir,
		Monsters: 4,
		Maps:     3,
		Spots:    3,
		Spawns:   4,
		Warnings: 2,
		Encoding: monster.EncodingUTF8,
	}, ws.Status())

	var kinds []validate.Kind
	for _, w := range ws.Validate() {
		kinds = append(kinds, w.Kind)
	}
	assert.ElementsMatch(t, []validate.Kind{validate.KindMissing, validate.KindNonNumeric}, kinds)
}

func TestOpen_MissingMonsterTxt(t *testing.T) {
	dir := testutil.WriteFolder(t, map[string]string{"MonsterSpawn.xml": testutil.Fixtures.MonsterSpawnXML})
	_, err := Open(dir, config.DefaultEditor())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOpen_BrokenSpawnDocument(t *testing.T) {
	dir := testutil.WriteFolder(t, map[string]string{
		"Monster.txt":      testutil.Fixtures.MonsterTxt,
		"MonsterSpawn.xml": "<MonsterSpawn><Map>",
	})
	_, err := Open(dir, config.DefaultEditor())
	assert.Error(t, err)
}

func TestOpen_WithoutSpawnDocument(t *testing.T) {
	dir := testutil.WriteFolder(t, map[string]string{"Monster.txt": testutil.Fixtures.MonsterTxt})
	ws, err := Open(dir, config.DefaultEditor(), WithClock(testutil.FixedClock))
	require.NoError(t, err)

	assert.Nil(t, ws.Spawns)
	assert.Nil(t, ws.Maps())
	_, err = ws.FindMap(0)
	assert.ErrorIs(t, err, ErrNoSpawnDocument)
	assert.ErrorIs(t, ws.SaveSpawns(), ErrNoSpawnDocument)

	require.NoError(t, ws.SaveAll())
	_, err = os.Stat(ws.MonsterListPath())
	assert.NoError(t, err, "monster list generated")
	_, err = os.Stat(ws.MonsterSpawnPath())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSaveAll(t *testing.T) {
	ws := openSample(t, config.DefaultEditor())

	rec, ok := ws.Monsters.Find(1)
	require.True(t, ok)
	rec.Life = 999
	require.NoError(t, ws.Monsters.Update(1, rec))

	m, err := ws.FindMap(0)
	require.NoError(t, err)
	spot, ok := spawnxml.SpotAt(m, 0)
	require.True(t, ok)
	_, err = spawnxml.AddSpawn(spot, spawnxml.SpawnAttrs{"Index": "1", "Count": "3"})
	require.NoError(t, err)

	require.NoError(t, ws.SaveAll())

	want := strings.Replace(testutil.Fixtures.MonsterTxt, "\"Hound\"\t9\t140\t", "\"Hound\"\t9\t999\t", 1)
	testutil.AssertFileContent(t, ws.MonsterTxtPath(), want)
	testutil.AssertBackup(t, ws.MonsterTxtPath(), testutil.Fixtures.MonsterTxt)
	testutil.AssertBackup(t, ws.MonsterSpawnPath(), testutil.Fixtures.MonsterSpawnXML)
	testutil.AssertNoBackup(t, ws.MonsterListPath())
	testutil.AssertFileContent(t, ws.MonsterListPath(),
		string(monsterlist.Render(ws.Monsters.Records, "")))

	reopened, err := Open(ws.Dir, config.DefaultEditor())
	require.NoError(t, err)
	assert.Equal(t, ws.Monsters.Records, reopened.Monsters.Records)
	st := reopened.Status()
	assert.Equal(t, 5, st.Spawns)
	assert.Equal(t, 2, st.Warnings)
}

func TestSaveMonsters_DropOrphanedLines(t *testing.T) {
	cfg := config.DefaultEditor()
	cfg.Patch.DropOrphanedLines = true
	ws := openSample(t, cfg)

	_, err := ws.Monsters.Delete(3)
	require.NoError(t, err)
	p, err := ws.SaveMonsters()
	require.NoError(t, err)
	assert.Equal(t, 1, p.Orphaned)

	got := testutil.ReadFile(t, ws.MonsterTxtPath())
	assert.NotContains(t, got, "Spider")
	assert.Contains(t, got, "// MU Monster.txt\n")
}

func TestSaveAll_BackupsDisabled(t *testing.T) {
	cfg := config.DefaultEditor()
	cfg.Backup.Enabled = false
	ws := openSample(t, cfg)

	require.NoError(t, ws.SaveAll())
	testutil.AssertNoBackup(t, ws.MonsterTxtPath())
	testutil.AssertNoBackup(t, ws.MonsterSpawnPath())
}

func TestPreviewList(t *testing.T) {
	ws := openSample(t, config.DefaultEditor())

	diff, err := ws.PreviewList()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(diff, "--- MonsterList.xml\n+++ MonsterList.xml (generated)\n"))
	assert.Contains(t, diff, "+<MonsterList>\n")

	require.NoError(t, ws.RegenerateList())
	diff, err = ws.PreviewList()
	require.NoError(t, err)
	assert.Empty(t, diff)

	_, err = ws.Monsters.Delete(2)
	require.NoError(t, err)
	diff, err = ws.PreviewList()
	require.NoError(t, err)
	assert.Contains(t, diff, `-  <Monster Index="2"`)
	assert.NotContains(t, diff, "\n+  <Monster")
}

func TestMaps_SortedByNumber(t *testing.T) {
	ws := openSample(t, config.DefaultEditor())

	var numbers []int
	for _, m := range ws.Maps() {
		numbers = append(numbers, spawnxml.MapNumber(m))
	}
	assert.Equal(t, []int{spawnxml.NoNumber, 0, 2}, numbers)

	_, err := ws.FindMap(42)
	assert.Error(t, err)
}

func TestSetBase(t *testing.T) {
	ws := openSample(t, config.DefaultEditor())

	reports, err := ws.ScanSetBase()
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, []int{1, 2}, reports[0].Unreferenced)
	assert.True(t, reports[1].Missing)

	path, err := ws.WriteSetBaseSuggestions(reports)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws.Dir, "MonsterSetBase.suggestions.txt"), path)
	assert.Contains(t, testutil.ReadFile(t, path), "MISSING_INDEX\t2\n")

	backups, err := ws.AppendSetBasePlaceholders(reports)
	require.NoError(t, err)
	assert.Equal(t, []string{reports[0].Path + ".bak_" + testutil.FixedStamp}, backups)
	assert.Contains(t, testutil.ReadFile(t, reports[0].Path), "// MISSING_MONSTER_INDEX: 1\n")
}
