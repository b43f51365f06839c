package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedded(t *testing.T) {
	cat, err := Embedded()
	require.NoError(t, err)

	landmarks := cat.Landmarks()
	require.Len(t, landmarks, 8)
	assert.Equal(t, "jlc-san-francisco", landmarks[0].ID)
	assert.Equal(t, "cr-lincoln-memorial", landmarks[7].ID)

	for _, lm := range landmarks {
		assert.NotEmpty(t, lm.Quote, lm.ID)
		assert.NotEmpty(t, lm.HistoricalContext, lm.ID)
		assert.NotEmpty(t, lm.Book, lm.ID)
		assert.Len(t, lm.Coordinates, 2, lm.ID)

		_, ok := cat.Dialect(lm.Era)
		assert.True(t, ok, "landmark %s era %s has no dialect", lm.ID, lm.Era)
		_, ok = cat.Style(lm.Era)
		assert.True(t, ok, "landmark %s era %s has no style", lm.ID, lm.Era)
	}

	assert.Equal(t, []string{"1920s", "1940s", "1960s"}, cat.Eras())
}

func TestLandmark(t *testing.T) {
	cat, err := Embedded()
	require.NoError(t, err)

	tests := []struct {
		id   string
		ok   bool
		era  string
		year int
	}{
		{"hr-harlem", true, "1920s", 1925},
		{"jlc-chinatown", true, "1940s", 1949},
		{"cr-montgomery", true, "1960s", 1955},
		{"atlantis", false, "", 0},
		{"", false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			lm, ok := cat.Landmark(tt.id)
			if ok != tt.ok {
				t.Fatalf("Landmark(%q) ok = %v, want %v", tt.id, ok, tt.ok)
			}
			if lm.Era != tt.era {
				t.Errorf("Era = %q, want %q", lm.Era, tt.era)
			}
			if lm.Year != tt.year {
				t.Errorf("Year = %d, want %d", lm.Year, tt.year)
			}
		})
	}
}

func TestDialectAndStyle(t *testing.T) {
	cat, err := Embedded()
	require.NoError(t, err)

	d, ok := cat.Dialect("1920s")
	require.True(t, ok)
	assert.Equal(t, "Harlem Renaissance / Jazz Age", d.EraLabel)
	require.Len(t, d.Slang, 5)
	assert.Equal(t, "copacetic", d.Slang[0].Term)

	s, ok := cat.Style("1960s")
	require.True(t, ok)
	assert.Equal(t, "#4ecdc4", s.AccentColor)
	assert.Equal(t, 14, s.PaintOverrides["circle-radius"])

	_, ok = cat.Dialect("1850s")
	assert.False(t, ok)
	_, ok = cat.Style("1850s")
	assert.False(t, ok)
}

func TestAccessorsReturnCopies(t *testing.T) {
	cat, err := Embedded()
	require.NoError(t, err)

	lm, _ := cat.Landmark("hr-harlem")
	lm.Mood[0] = "mutated"
	again, _ := cat.Landmark("hr-harlem")
	assert.Equal(t, "vibrant", again.Mood[0])

	d, _ := cat.Dialect("1940s")
	d.Slang[0].Term = "mutated"
	d2, _ := cat.Dialect("1940s")
	assert.Equal(t, "swell", d2.Slang[0].Term)

	s, _ := cat.Style("1940s")
	s.PaintOverrides["circle-color"] = "mutated"
	s2, _ := cat.Style("1940s")
	assert.Equal(t, "#e6b800", s2.PaintOverrides["circle-color"])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid yaml", "landmarks: [unclosed"},
		{"missing id", "landmarks:\n  - title: Nowhere\n"},
		{"duplicate id", "landmarks:\n  - id: a\n  - id: a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	doc := `landmarks:
  - id: ws-globe
    title: The Globe
    book: Hamlet
    era: 1600s
    year: 1600
dialects:
  1600s:
    era_label: Early Modern
    slang:
      - {term: zounds, meaning: By God's wounds}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cat, err := Load(path)
	require.NoError(t, err)

	lm, ok := cat.Landmark("ws-globe")
	require.True(t, ok)
	assert.Equal(t, "Hamlet", lm.Book)

	_, ok = cat.Dialect("1600s")
	assert.True(t, ok)
	_, ok = cat.Style("1600s")
	assert.False(t, ok)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	fromEmbedded, err := Load("")
	require.NoError(t, err)
	assert.Len(t, fromEmbedded.Landmarks(), 8)
}
