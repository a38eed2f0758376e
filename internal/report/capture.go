package report

import (
	"context"
	"image"
	"sort"
)

// minBlockHeight is the height at or below which a measured block is noise.
const minBlockHeight = 4.0

// Rect is the vertical extent of an element in CSS pixels, relative to the viewport.
type Rect struct {
	Top    float64
	Bottom float64
}

func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Marker is an element carrying a segment marker attribute.
type Marker struct {
	Value string
	Rect  Rect
}

// Container is an already rendered DOM subtree the PDF export is built from.
type Container interface {
	// WaitForImages returns once every image inside the container has loaded or failed.
	WaitForImages(ctx context.Context) error
	// Bounds returns the rect of the container itself.
	Bounds(ctx context.Context) (Rect, error)
	// Measure returns the rects of the elements matching selector inside the container.
	Measure(ctx context.Context, selector string) ([]Rect, error)
	// Markers returns the elements inside the container carrying attribute.
	Markers(ctx context.Context, attribute string) ([]Marker, error)
	// ClientWidth returns the unscaled client width of the container in CSS pixels.
	ClientWidth(ctx context.Context) (float64, error)
	// Rasterize captures the full scrollable extent of the container.
	Rasterize(ctx context.Context) (image.Image, error)
}

// BlockBoundary is a printable block relative to the top of the container.
type BlockBoundary struct {
	Top    float64
	Bottom float64
	Height float64
}

// Capture is the raster of a container together with the layout measured before rasterization.
// Boundaries and Markers are container relative, in CSS pixels.
type Capture struct {
	Bitmap      image.Image
	Boundaries  []BlockBoundary
	Markers     []Marker
	ClientWidth float64
}

// CaptureContainer waits for images, measures the printable blocks and markers of c
// and rasterizes it. Errors of the container are returned unchanged.
func CaptureContainer(ctx context.Context, c Container) (*Capture, error) {
	if err := c.WaitForImages(ctx); err != nil {
		return nil, err
	}

	origin, err := c.Bounds(ctx)
	if err != nil {
		return nil, err
	}

	rects, err := c.Measure(ctx, ExportBlockSelector)
	if err != nil {
		return nil, err
	}

	markers, err := c.Markers(ctx, ExportSegmentAttribute)
	if err != nil {
		return nil, err
	}
	for i := range markers {
		markers[i].Rect = relativeTo(origin, markers[i].Rect)
	}

	clientWidth, err := c.ClientWidth(ctx)
	if err != nil {
		return nil, err
	}

	bitmap, err := c.Rasterize(ctx)
	if err != nil {
		return nil, err
	}

	return &Capture{
		Bitmap:      bitmap,
		Boundaries:  measureBoundaries(origin, rects),
		Markers:     markers,
		ClientWidth: clientWidth,
	}, nil
}

func measureBoundaries(origin Rect, rects []Rect) []BlockBoundary {
	boundaries := make([]BlockBoundary, 0, len(rects))
	for _, r := range rects {
		rel := relativeTo(origin, r)
		if rel.Height() <= minBlockHeight {
			continue
		}
		boundaries = append(boundaries, BlockBoundary{Top: rel.Top, Bottom: rel.Bottom, Height: rel.Height()})
	}

	sort.SliceStable(boundaries, func(i, j int) bool { return boundaries[i].Top < boundaries[j].Top })
	return boundaries
}

func relativeTo(origin, r Rect) Rect {
	return Rect{Top: r.Top - origin.Top, Bottom: r.Bottom - origin.Top}
}
