package report

import (
	"math"
	"strconv"
)

const (
	// minAdvance is the least a heuristic cut moves forward, in bitmap pixels.
	minAdvance = 24
	// bleedGuard is subtracted from a block bottom so its border stays on the page.
	bleedGuard = 2
	// maxSlices bounds the number of heuristic slices.
	maxSlices = 200
	// segmentPadding pads explicit segments, in CSS pixels.
	segmentPadding = 12.0

	explicitMarkers  = 4
	explicitSegments = 3
)

// Segment is the vertical window of one content page into the bitmap.
type Segment struct {
	Top    int
	Height int
}

func (s Segment) Bottom() int {
	return s.Top + s.Height
}

type PlanKind int

const (
	PlanHeuristic PlanKind = iota
	PlanExplicit
)

func (k PlanKind) String() string {
	if k == PlanExplicit {
		return "explicit"
	}
	return "heuristic"
}

// Plan is the list of content pages of a PDF export.
type Plan struct {
	Kind     PlanKind
	Segments []Segment
}

// BuildPlan prefers the explicit segments of the capture and falls back to heuristic
// slicing. pageHeightPx is the height of a content page in bitmap pixels.
func BuildPlan(c *Capture, pageHeightPx float64) Plan {
	bounds := c.Bitmap.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	domToBitmap := 1.0
	if c.ClientWidth > 0 {
		domToBitmap = float64(width) / c.ClientWidth
	}

	if segments, ok := ExplicitSegments(c.Markers, domToBitmap, height); ok {
		return Plan{Kind: PlanExplicit, Segments: segments}
	}

	scaled := make([]BlockBoundary, 0, len(c.Boundaries))
	for _, b := range c.Boundaries {
		scaled = append(scaled, BlockBoundary{
			Top:    b.Top * domToBitmap,
			Bottom: b.Bottom * domToBitmap,
			Height: b.Height * domToBitmap,
		})
	}

	return Plan{Kind: PlanHeuristic, Segments: HeuristicSlices(height, int(math.Floor(pageHeightPx)), scaled)}
}

// HeuristicSlices cuts [0, bitmapHeight) into page sized slices, preferring cuts right
// below a block. Boundaries are in bitmap pixels. The slices are contiguous, each has a
// positive height and together they cover the bitmap exactly.
func HeuristicSlices(bitmapHeight, pageHeight int, boundaries []BlockBoundary) []Segment {
	if bitmapHeight <= 0 {
		return nil
	}
	pageHeight = max(pageHeight, 1)

	var slices []Segment
	y := 0
	for y < bitmapHeight {
		target := y + pageHeight
		if target >= bitmapHeight || len(slices) == maxSlices-1 {
			slices = append(slices, Segment{Top: y, Height: bitmapHeight - y})
			break
		}

		cut := target
		best := -1
		for _, b := range boundaries {
			top, bottom := int(math.Round(b.Top)), int(math.Round(b.Bottom))
			if top <= target-minAdvance && bottom >= y+minAdvance && bottom <= target && bottom > best {
				best = bottom
			}
		}
		if best >= 0 && best-bleedGuard > y {
			cut = best - bleedGuard
		}

		slices = append(slices, Segment{Top: y, Height: cut - y})
		y = cut
	}

	return slices
}

// ExplicitSegments builds the three pages of the marked layout: markers 1 and 2
// together, then marker 3, then marker 4. It reports false unless exactly four
// markers numbered 1 to 4 are present and three non-empty segments result.
func ExplicitSegments(markers []Marker, domToBitmap float64, bitmapHeight int) ([]Segment, bool) {
	if len(markers) != explicitMarkers {
		return nil, false
	}

	byIndex := make(map[int]Rect, explicitMarkers)
	for _, m := range markers {
		idx, err := strconv.Atoi(m.Value)
		if err != nil || idx < 1 || idx > explicitMarkers {
			return nil, false
		}
		if _, dup := byIndex[idx]; dup {
			return nil, false
		}
		byIndex[idx] = m.Rect
	}

	groups := []Rect{
		{Top: math.Min(byIndex[1].Top, byIndex[2].Top), Bottom: math.Max(byIndex[1].Bottom, byIndex[2].Bottom)},
		byIndex[3],
		byIndex[4],
	}

	segments := make([]Segment, 0, explicitSegments)
	for _, g := range groups {
		top := clamp(int(math.Floor((g.Top-segmentPadding)*domToBitmap)), 0, bitmapHeight)
		bottom := clamp(int(math.Ceil((g.Bottom+segmentPadding)*domToBitmap)), 0, bitmapHeight)
		if bottom <= top {
			continue
		}
		segments = append(segments, Segment{Top: top, Height: bottom - top})
	}

	if len(segments) != explicitSegments {
		return nil, false
	}
	return segments, true
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
