package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func previewsWithIDs(ids ...string) []PreviewEntry {
	out := make([]PreviewEntry, len(ids))
	for i, id := range ids {
		out[i] = PreviewEntry{ID: id, ThumbSources: []Source{{Path: id + "-thumb.jpg", MimeType: "image/jpeg"}}}
	}
	return out
}

func TestLinkPreviewsFormsSingleCycle(t *testing.T) {
	for n := 1; n <= 5; n++ {
		ids := []string{"preview-5", "preview-1", "preview-3", "preview-10", "preview-2"}[:n]
		linked := linkPreviews(previewsWithIDs(ids...))
		require.Len(t, linked, n)

		byID := make(map[string]PreviewEntry, n)
		for _, p := range linked {
			byID[p.ID] = p
		}

		start := linked[0]
		cur := start
		seen := map[string]bool{}
		for range n {
			seen[cur.ID] = true
			next := byID[cur.NextID]
			assert.Equal(t, cur.ID, next.PrevID)
			cur = next
		}
		assert.Equal(t, start.ID, cur.ID, "n=%d", n)
		assert.Len(t, seen, n)
	}
}

func TestLinkPreviewsSortsByStringID(t *testing.T) {
	linked := linkPreviews(previewsWithIDs("preview-2", "preview-10", "preview-1"))
	ids := []string{linked[0].ID, linked[1].ID, linked[2].ID}
	assert.Equal(t, []string{"preview-1", "preview-10", "preview-2"}, ids)
}

func TestNewImages(t *testing.T) {
	t.Run("no previews", func(t *testing.T) {
		img := newImages(nil, nil)
		assert.False(t, img.HasGallery())
		assert.Nil(t, img.PreviewThumb)
	})

	t.Run("single preview links to itself", func(t *testing.T) {
		img := newImages(nil, previewsWithIDs("preview-1"))
		require.True(t, img.HasGallery())
		p := img.Previews[0]
		assert.Equal(t, "preview-1", p.PrevID)
		assert.Equal(t, "preview-1", p.NextID)
	})

	t.Run("first preview provides thumbnail", func(t *testing.T) {
		img := newImages(nil, previewsWithIDs("preview-b", "preview-a"))
		assert.Equal(t, []Source{{Path: "preview-a-thumb.jpg", MimeType: "image/jpeg"}}, img.PreviewThumb)
	})
}
