package spawnxml

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/udisondev/monsteredit/internal/backup"
	"github.com/udisondev/monsteredit/internal/testutil"
)

func parseFixture(t *testing.T) *Store {
	t.Helper()
	s, err := Parse(strings.NewReader(testutil.Fixtures.MonsterSpawnXML))
	require.NoError(t, err)
	return s
}

func comments(e *etree.Element) []string {
	var out []string
	for _, tok := range e.Child {
		if c, ok := tok.(*etree.Comment); ok {
			out = append(out, c.Data)
		}
	}
	return out
}

func TestParse_Tree(t *testing.T) {
	s := parseFixture(t)

	assert.Equal(t, "MonsterSpawn", s.Root().Tag)
	require.Len(t, s.Maps(), 3)
	assert.Equal(t, []string{" Lorencia "}, comments(s.Root()))

	lorencia, ok := s.FindMap(0)
	require.True(t, ok)
	assert.Equal(t, "Lorencia", lorencia.SelectAttrValue("Name", ""))
	assert.Same(t, s.Root(), lorencia.Parent())

	spots := ListSpots(lorencia)
	require.Len(t, spots, 1)
	assert.Equal(t, "Bulls", spots[0].SelectAttrValue("Description", ""))

	spawns := ListSpawns(spots[0])
	require.Len(t, spawns, 2)
	assert.Equal(t, "5", SpawnAttrsOf(spawns[0])["Count"])

	second, ok := SpawnAt(spots[0], 1)
	require.True(t, ok)
	assert.Same(t, spawns[1], second)
	_, ok = SpawnAt(spots[0], 2)
	assert.False(t, ok)
	_, ok = SpotAt(lorencia, -1)
	assert.False(t, ok)

	maps, spotCount, spawnCount := s.Counts()
	assert.Equal(t, 3, maps)
	assert.Equal(t, 3, spotCount)
	assert.Equal(t, 4, spawnCount)
}

func TestMapNumber_Sentinel(t *testing.T) {
	s := parseFixture(t)

	broken := s.Maps()[2]
	assert.Equal(t, NoNumber, MapNumber(broken))
	assert.Equal(t, NoNumber, MapNumber(etree.NewElement(MapElement)))

	_, ok := s.FindMap(NoNumber)
	assert.False(t, ok, "sentinel never matches a lookup")
	_, ok = s.FindMap(1)
	assert.False(t, ok)

	var names []string
	for _, m := range s.MapsByNumber() {
		names = append(names, m.SelectAttrValue("Name", ""))
	}
	assert.Equal(t, []string{"Broken", "Lorencia", "Devias"}, names)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "only prolog", input: `<?xml version="1.0"?><!-- x -->`},
		{name: "mismatched end", input: "<a></b>"},
		{name: "two roots", input: "<a/><b/>"},
		{name: "unclosed", input: "<a><b/>"},
		{name: "text outside root", input: "<a/>junk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}

	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoRoot)

	_, err = Parse(testutil.FailingReader{})
	assert.ErrorIs(t, err, testutil.ErrSimulated)
}

func TestParse_DeclaredCharset(t *testing.T) {
	doc := `<?xml version="1.0" encoding="windows-1250"?>` +
		`<MonsterSpawn><Map Number="1" Name="Łódź"/></MonsterSpawn>`
	raw, err := charmap.Windows1250.NewEncoder().String(doc)
	require.NoError(t, err)

	s, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	m, ok := s.FindMap(1)
	require.True(t, ok)
	assert.Equal(t, "Łódź", m.SelectAttrValue("Name", ""))

	out := string(s.Render(""))
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="utf-8"?>`))
	assert.Contains(t, out, `Name="Łódź"`)
}

func TestRender_Canonical(t *testing.T) {
	input := `<?xml version="1.0"?>
<!-- dropped -->
<MonsterSpawn><!-- keep -->
<Map Number="0" Name="A &amp; B"><Spot Type="1" Description="x"><Spawn Index="1" Count="2"/></Spot>
<Spot Type="2" Description="empty"></Spot></Map>
<Note>a &lt; b</Note>
</MonsterSpawn>`
	s, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="utf-8"?>
<!-- custom -->
<MonsterSpawn>
  <!-- keep -->
  <Map Number="0" Name="A &amp; B">
    <Spot Type="1" Description="x">
      <Spawn Index="1" Count="2"/>
    </Spot>
    <Spot Type="2" Description="empty"/>
  </Map>
  <Note>a &lt; b</Note>
</MonsterSpawn>
`
	if diff := cmp.Diff(want, string(s.Render("custom"))); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{" keep "}, comments(s.Root()), "render works on a copy")
}

func TestRender_ReplacesIllegalCharacters(t *testing.T) {
	s := New("MonsterSpawn")
	m := s.Root().CreateElement(MapElement)
	m.CreateAttr("Number", "1")
	m.CreateAttr("Name", "Bad\x01Name\ttab")
	m.CreateElement("Note").SetText("a\x1bb")

	out := string(s.Render("gen\x00"))
	assert.Contains(t, out, `Name="Bad?Name&#x9;tab"`)
	assert.Contains(t, out, "<Note>a?b</Note>")
	assert.Contains(t, out, "<!-- gen? -->")
	assert.Equal(t, "Bad\x01Name\ttab", m.SelectAttrValue("Name", ""), "store keeps the raw value")

	_, err := Parse(strings.NewReader(out))
	assert.NoError(t, err)
}

func TestRender_Idempotent(t *testing.T) {
	first := parseFixture(t).Render("")

	again, err := Parse(strings.NewReader(string(first)))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(again.Render("")))
}

func TestSpawnEdits(t *testing.T) {
	s := parseFixture(t)
	m, _ := s.FindMap(0)
	spot, _ := SpotAt(m, 0)

	n, err := AddSpawn(spot, SpawnAttrs{"Count": "4", "Index": "7", "Zeta": "z", "Alpha": "a", "StartX": "1"})
	require.NoError(t, err)
	want := []Attr{
		{Name: "Index", Value: "7"},
		{Name: "StartX", Value: "1"},
		{Name: "Count", Value: "4"},
		{Name: "Alpha", Value: "a"},
		{Name: "Zeta", Value: "z"},
	}
	if diff := cmp.Diff(want, AttrList(n)); diff != "" {
		t.Errorf("AddSpawn attrs (-want +got):\n%s", diff)
	}
	require.Len(t, ListSpawns(spot), 3)
	assert.Same(t, spot, n.Parent())

	require.NoError(t, UpdateSpawn(n, SpawnAttrs{"Dir": "2"}))
	assert.Equal(t, []Attr{{Name: "Index", Value: "0"}, {Name: "Dir", Value: "2"}}, AttrList(n),
		"full replace drops omitted keys, Index defaults to 0")

	_, err = AddSpawn(spot, SpawnAttrs{"Index": "1", "bad name": "x"})
	assert.ErrorIs(t, err, ErrBadAttrName)
	assert.Len(t, ListSpawns(spot), 3, "failed add leaves the spot untouched")

	require.NoError(t, RemoveSpawn(spot, n))
	assert.Len(t, ListSpawns(spot), 2)
	assert.Nil(t, n.Parent())
	assert.ErrorIs(t, RemoveSpawn(spot, n), ErrNotChild)
}

func TestSpotEdits(t *testing.T) {
	s := parseFixture(t)
	m, _ := s.FindMap(0)

	added := AddSpot(m, " ", "")
	assert.Equal(t, DefaultSpotType, added.SelectAttrValue("Type", ""))
	assert.Equal(t, DefaultSpotDescription, added.SelectAttrValue("Description", ""))
	require.Len(t, ListSpots(m), 2)

	first, _ := SpotAt(m, 0)
	_, _, before := s.Counts()
	require.NoError(t, RemoveSpot(m, first))
	_, spots, after := s.Counts()
	assert.Equal(t, 2, before-after, "spawns go with their spot")
	assert.Equal(t, 3, spots)

	other, _ := s.FindMap(2)
	assert.ErrorIs(t, RemoveSpot(other, added), ErrNotChild)
	assert.NotContains(t, string(s.Render("")), "Bulls")
}

func TestSpawnAttrs_NamespacedExtraKey(t *testing.T) {
	s := parseFixture(t)
	m, _ := s.FindMap(2)
	spot, _ := SpotAt(m, 0)

	n, err := AddSpawn(spot, SpawnAttrs{"Index": "4", "x:Tag": "v"})
	require.NoError(t, err)
	assert.Equal(t, SpawnAttrs{"Index": "4", "x:Tag": "v"}, SpawnAttrsOf(n))
	assert.Contains(t, string(s.Render("")), `<Spawn Index="4" x:Tag="v"/>`)
}

func TestSaveAndLoad(t *testing.T) {
	dir := testutil.SampleFolder(t)
	path := filepath.Join(dir, "MonsterSpawn.xml")

	s, err := Load(path)
	require.NoError(t, err)
	m, _ := s.FindMap(2)
	AddSpot(m, "3", "Guards")

	w := backup.NewWriter(backup.WithClock(testutil.FixedClock))
	require.NoError(t, s.Save(path, "", w))
	testutil.AssertBackup(t, path, testutil.Fixtures.MonsterSpawnXML)
	testutil.AssertFileContent(t, path, string(s.Render("")))

	reloaded, err := Load(path)
	require.NoError(t, err)
	m, _ = reloaded.FindMap(2)
	spot, ok := SpotAt(m, 1)
	require.True(t, ok)
	assert.Equal(t, "Guards", spot.SelectAttrValue("Description", ""))

	_, err = Load(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}
