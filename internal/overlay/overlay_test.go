package overlay

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Onvitec/adminportal-onvitech-sub001/models"
)

func intPtr(v int) *int         { return &v }
func f64Ptr(v float64) *float64 { return &v }

func link(ts float64, durationMS *int) models.VideoLink {
	return models.VideoLink{
		ID:               uuid.New(),
		VideoID:          uuid.New(),
		TimestampSeconds: ts,
		DurationMS:       durationMS,
		Label:            "overlay",
	}
}

func TestWindowInclusiveBounds(t *testing.T) {
	l := link(10, intPtr(3000))

	assert.Empty(t, ActiveAt(9.99, []models.VideoLink{l}))
	assert.Len(t, ActiveAt(10, []models.VideoLink{l}), 1)
	assert.Len(t, ActiveAt(11.5, []models.VideoLink{l}), 1)
	assert.Len(t, ActiveAt(13, []models.VideoLink{l}), 1)
	assert.Empty(t, ActiveAt(13.01, []models.VideoLink{l}))
}

func TestWindowDefaultsToThreeSeconds(t *testing.T) {
	l := link(5, nil)
	start, end := Window(l)
	assert.Equal(t, 5.0, start)
	assert.Equal(t, 8.0, end)
}

func TestActiveAtRecomputesOnSeek(t *testing.T) {
	l := link(10, intPtr(3000))
	links := []models.VideoLink{l}

	// Play past the window, then seek back into it. Each call recomputes
	// from scratch, so the link deactivates and reactivates correctly.
	assert.Empty(t, ActiveAt(15, links))
	assert.Len(t, ActiveAt(11, links), 1)
	assert.Empty(t, ActiveAt(9, links))
}

func TestActiveAtSelectsSubset(t *testing.T) {
	early := link(0, intPtr(2000))
	mid := link(5, intPtr(10000))
	late := link(30, nil)

	active := ActiveAt(6, []models.VideoLink{early, mid, late})
	require.Len(t, active, 1)
	assert.Equal(t, mid.ID, active[0].ID)
}

func TestProjectPercentageToPixels(t *testing.T) {
	l := link(0, nil)
	l.PositionX = 50
	l.PositionY = 25
	l.ImageWidth = f64Ptr(100)
	l.ImageHeight = f64Ptr(40)

	frame := Frame{RenderedWidth: 400, RenderedHeight: 300, NativeWidth: 400, NativeHeight: 300}
	p := Project(l, frame, false)
	assert.Equal(t, 200.0, p.X)
	assert.Equal(t, 75.0, p.Y)
	assert.Equal(t, 100.0, p.Width)
	assert.Equal(t, 40.0, p.Height)

	// Doubling the rendered width without changing the native resolution
	// doubles both the anchor offset and the image dimensions.
	frame.RenderedWidth = 800
	frame.RenderedHeight = 600
	p = Project(l, frame, false)
	assert.Equal(t, 400.0, p.X)
	assert.Equal(t, 150.0, p.Y)
	assert.Equal(t, 200.0, p.Width)
	assert.Equal(t, 80.0, p.Height)
}

func TestProjectHoverSelectsHoverDimensions(t *testing.T) {
	l := link(0, nil)
	l.PositionX = 10
	l.PositionY = 10
	l.ImageWidth = f64Ptr(100)
	l.ImageHeight = f64Ptr(40)
	l.HoverImageWidth = f64Ptr(120)
	l.HoverImageHeight = f64Ptr(48)

	frame := Frame{RenderedWidth: 400, RenderedHeight: 300, NativeWidth: 400, NativeHeight: 300}

	normal := Project(l, frame, false)
	hovered := Project(l, frame, true)

	assert.Equal(t, 100.0, normal.Width)
	assert.Equal(t, 120.0, hovered.Width)
	assert.Equal(t, 48.0, hovered.Height)
	// Hover affects size only, never the anchor.
	assert.Equal(t, normal.X, hovered.X)
	assert.Equal(t, normal.Y, hovered.Y)
}

func TestProjectUnknownNativeSizeSkipsScaling(t *testing.T) {
	l := link(0, nil)
	l.PositionX = 50
	l.ImageWidth = f64Ptr(100)
	l.ImageHeight = f64Ptr(40)

	frame := Frame{RenderedWidth: 800, RenderedHeight: 600}
	p := Project(l, frame, false)
	assert.Equal(t, 400.0, p.X)
	assert.Equal(t, 100.0, p.Width, "no native width means image sizes pass through unscaled")
}
