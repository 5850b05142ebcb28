package overlay

import (
	"github.com/Onvitec/adminportal-onvitech-sub001/models"
)

// Window returns the activation window of a link in seconds, both ends
// inclusive. A link with no stored duration gets the 3-second default.
func Window(l models.VideoLink) (start, end float64) {
	start = l.TimestampSeconds
	end = start + float64(l.EffectiveDurationMS())/1000.0
	return start, end
}

// ActiveAt returns the subset of links whose activation window contains the
// playback position t. Callers must invoke this on every time-position update
// and replace their previous active set wholesale: recomputing from scratch
// is what makes backward seeks deactivate passed links and reactivate ones
// whose window is current again. Hover state is orthogonal and handled by
// Project.
func ActiveAt(t float64, links []models.VideoLink) []models.VideoLink {
	active := make([]models.VideoLink, 0, len(links))
	for _, l := range links {
		start, end := Window(l)
		if t >= start && t <= end {
			active = append(active, l)
		}
	}
	return active
}

// Frame describes the video frame an overlay is projected onto: the size the
// player is actually rendering at, and the native size of the source video.
// The two differ once the frame is scaled to fit its container.
type Frame struct {
	RenderedWidth  float64 `json:"rendered_width"`
	RenderedHeight float64 `json:"rendered_height"`
	NativeWidth    float64 `json:"native_width"`
	NativeHeight   float64 `json:"native_height"`
}

// scale is the factor applied to the link's stored image dimensions so the
// overlay stays visually anchored as the player resizes.
func (f Frame) scale() float64 {
	if f.NativeWidth <= 0 {
		return 1
	}
	return f.RenderedWidth / f.NativeWidth
}

// Placement is a link's pixel-space position and size within a rendered
// frame.
type Placement struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Project converts a link's percentage anchor into pixel offsets within the
// rendered frame and scales its image dimensions by rendered/native width.
// The hovered flag selects between the normal and hover image sizes; it never
// affects whether the link is active.
func Project(l models.VideoLink, f Frame, hovered bool) Placement {
	p := Placement{
		X: l.PositionX / 100 * f.RenderedWidth,
		Y: l.PositionY / 100 * f.RenderedHeight,
	}

	w, h := l.ImageWidth, l.ImageHeight
	if hovered && l.HoverImageWidth != nil && l.HoverImageHeight != nil {
		w, h = l.HoverImageWidth, l.HoverImageHeight
	}
	if w != nil {
		p.Width = *w * f.scale()
	}
	if h != nil {
		p.Height = *h * f.scale()
	}
	return p
}
