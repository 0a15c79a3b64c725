package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLargest(t *testing.T) {
	entries := []Entry{
		{Label: "small", Size: 1},
		{Label: "big", Size: 100},
		{Label: "mid-a", Size: 50},
		{Label: "mid-b", Size: 50},
	}

	t.Run("sorts descending and keeps ties stable", func(t *testing.T) {
		assert.Equal(t, []string{"big", "mid-a", "mid-b", "small"}, labels(Largest(entries, 10)))
	})

	t.Run("trims to n", func(t *testing.T) {
		assert.Equal(t, []string{"big", "mid-a"}, labels(Largest(entries, 2)))
	})

	t.Run("does not reorder input", func(t *testing.T) {
		Largest(entries, 10)
		assert.Equal(t, "small", entries[0].Label)
	})
}

func TestCollector_Duplicates(t *testing.T) {
	video := Entry{Label: "clip.mp4", Path: "clip.mp4", Candidate: "videos", Size: 20}
	large := Entry{Label: "clip.mp4", Path: "./clip.mp4", Candidate: "large files", Size: 20}

	t.Run("kept by default", func(t *testing.T) {
		c := newCollector(10, false)

		assert.True(t, c.add(video))
		assert.True(t, c.add(large))

		report := c.finalize(".")

		assert.Len(t, report.Entries, 2)
		assert.Equal(t, "clip.mp4", report.Entries[1].Path)
		assert.Equal(t, int64(40), report.TotalBytes)
	})

	t.Run("dropped when deduplicating", func(t *testing.T) {
		c := newCollector(10, true)

		assert.True(t, c.add(video))
		assert.False(t, c.add(large))
		assert.True(t, c.seenPath("clip.mp4"))

		report := c.finalize(".")

		assert.Len(t, report.Entries, 1)
		assert.Equal(t, "videos", report.Entries[0].Candidate)
		assert.Equal(t, int64(20), report.TotalBytes)
	})
}

func TestEntry_Units(t *testing.T) {
	e := Entry{Size: 3 * 1024 * MiB}

	assert.InDelta(t, 3072.0, e.MB(), 1e-9)
	assert.InDelta(t, 3.0, e.GB(), 1e-9)

	r := Report{TotalBytes: 512 * MiB}

	assert.InDelta(t, 512.0, r.TotalMB(), 1e-9)
	assert.InDelta(t, 0.5, r.TotalGB(), 1e-9)
}
