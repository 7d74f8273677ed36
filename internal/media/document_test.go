package media

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDocument(t *testing.T) {
	doc := DefaultDocument()

	for _, c := range Categories() {
		assert.Equal(t, 0, doc.Count(c))
	}
	assert.NotNil(t, doc.PressData)
	assert.Equal(t, DefaultVideosPerPage, doc.Settings.VideosPerPage)
	assert.Equal(t, DocumentVersion, doc.Metadata.Version)
	assert.NotEmpty(t, doc.Metadata.Created)
	assert.Equal(t, doc.Metadata.Created, doc.Metadata.LastUpdated)
}

func TestNormalizePartialDocument(t *testing.T) {
	// Documents written by older site revisions have no settings and may
	// miss whole categories.
	var doc ContentDocument
	require.NoError(t, json.Unmarshal([]byte(`{"pressData":[{"id":"press_1_a","title":"t"}]}`), &doc))

	doc.Normalize()

	assert.Len(t, doc.PressData, 1)
	assert.NotNil(t, doc.AudioVisual)
	assert.NotNil(t, doc.EmissionData)
	assert.NotNil(t, doc.SpotData)
	assert.NotNil(t, doc.NoCommentData)
	assert.Equal(t, DefaultVideosPerPage, doc.Settings.VideosPerPage)
	assert.Equal(t, DocumentVersion, doc.Metadata.Version)
	assert.NotEmpty(t, doc.Metadata.Created)
	assert.NotEmpty(t, doc.Metadata.LastUpdated)
}

func TestWireFieldNames(t *testing.T) {
	data, err := json.Marshal(DefaultDocument())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	for _, field := range []string{"pressData", "audioVisuelData", "emissionData", "spotData", "nocommentData", "settings", "metadata"} {
		assert.Contains(t, m, field)
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := DefaultDocument()
	doc.PressData = []PressRecord{{ID: "press_1_a", Title: "original"}}

	c := doc.Clone()
	c.PressData[0].Title = "changed"
	c.AudioVisual = append(c.AudioVisual, VideoRecord{ID: "audiovisuel_1_b"})

	assert.Equal(t, "original", doc.PressData[0].Title)
	assert.Empty(t, doc.AudioVisual)
}

func TestVideosSetVideos(t *testing.T) {
	doc := DefaultDocument()
	v := []VideoRecord{{ID: "spot_1_a", Title: "t", URL: "https://www.youtube.com/embed/x"}}

	doc.SetVideos(CategorySpot, v)

	assert.Equal(t, v, doc.Videos(CategorySpot))
	assert.Equal(t, 1, doc.Count(CategorySpot))
	assert.Nil(t, doc.Videos(CategoryPress))
}

func TestNewIDPattern(t *testing.T) {
	re := regexp.MustCompile(`^press_\d+_[0-9a-f]{9}$`)

	id1 := NewID(CategoryPress)
	id2 := NewID(CategoryPress)

	assert.Regexp(t, re, id1)
	assert.NotEqual(t, id1, id2)
}

func TestNewIDUsesCategoryToken(t *testing.T) {
	assert.Regexp(t, `^nocomment_\d+_`, NewID(CategoryNoComment))
	assert.Regexp(t, `^audiovisuel_\d+_`, NewID(CategoryAudioVisual))
}
