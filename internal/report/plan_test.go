package report_test

import (
	"image/color"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/assessment-report-agent/internal/report"
)

func totalHeight(segments []report.Segment) int {
	total := 0
	for _, s := range segments {
		total += s.Height
	}
	return total
}

func expectExactCover(segments []report.Segment, height int) {
	Expect(totalHeight(segments)).To(Equal(height))
	y := 0
	for _, s := range segments {
		Expect(s.Height).To(BeNumerically(">", 0))
		Expect(s.Top).To(Equal(y))
		y = s.Bottom()
	}
}

func sequentialMarkers() []report.Marker {
	return []report.Marker{
		{Value: "1", Rect: report.Rect{Top: 0, Bottom: 200}},
		{Value: "2", Rect: report.Rect{Top: 210, Bottom: 600}},
		{Value: "3", Rect: report.Rect{Top: 610, Bottom: 1200}},
		{Value: "4", Rect: report.Rect{Top: 1210, Bottom: 1500}},
	}
}

var _ = Describe("HeuristicSlices", func() {
	It("should cut right below the last block fitting on the page", func() {
		// Arrange
		boundaries := []report.BlockBoundary{
			{Top: 0, Bottom: 400, Height: 400},
			{Top: 410, Bottom: 900, Height: 490},
			{Top: 910, Bottom: 1400, Height: 490},
		}

		// Act
		slices := report.HeuristicSlices(1400, 1000, boundaries)

		// Assert
		Expect(slices).To(Equal([]report.Segment{{Top: 0, Height: 898}, {Top: 898, Height: 502}}))
	})

	It("should cut at the page height when a block spans the whole page", func() {
		// Arrange
		boundaries := []report.BlockBoundary{{Top: 0, Bottom: 2500, Height: 2500}}

		// Act
		slices := report.HeuristicSlices(2500, 1000, boundaries)

		// Assert
		Expect(slices).To(Equal([]report.Segment{{Top: 0, Height: 1000}, {Top: 1000, Height: 1000}, {Top: 2000, Height: 500}}))
	})

	It("should return a single slice for a bitmap shorter than a page", func() {
		slices := report.HeuristicSlices(300, 1000, nil)
		Expect(slices).To(Equal([]report.Segment{{Top: 0, Height: 300}}))
	})

	It("should return nothing for an empty bitmap", func() {
		Expect(report.HeuristicSlices(0, 1000, nil)).To(BeEmpty())
	})

	It("should cap the number of slices and still cover the bitmap", func() {
		// Act
		slices := report.HeuristicSlices(100000, 10, nil)

		// Assert
		Expect(slices).To(HaveLen(200))
		expectExactCover(slices, 100000)
	})

	// Given random bitmap heights, page heights and block layouts
	// When we slice them
	// Then every slice should be positive and the slices should cover the bitmap exactly
	It("should cover any bitmap exactly", func() {
		r := rand.New(rand.NewSource(42))
		for range 500 {
			// Arrange
			height := 1 + r.Intn(20000)
			page := 1 + r.Intn(3000)
			var boundaries []report.BlockBoundary
			for y := 0.0; y < float64(height); {
				h := 5 + r.Float64()*1500
				boundaries = append(boundaries, report.BlockBoundary{Top: y, Bottom: y + h, Height: h})
				y += h + r.Float64()*40
			}

			// Act
			slices := report.HeuristicSlices(height, page, boundaries)

			// Assert
			expectExactCover(slices, height)
		}
	})
})

var _ = Describe("ExplicitSegments", func() {
	It("should build three padded segments from four sequential markers", func() {
		// Act
		segments, ok := report.ExplicitSegments(sequentialMarkers(), 2, 4000)

		// Assert
		Expect(ok).To(BeTrue())
		Expect(segments).To(Equal([]report.Segment{
			{Top: 0, Height: 1224},
			{Top: 1196, Height: 1228},
			{Top: 2396, Height: 628},
		}))
	})

	It("should clamp segments to the bitmap", func() {
		// Act
		segments, ok := report.ExplicitSegments(sequentialMarkers(), 2, 2900)

		// Assert
		Expect(ok).To(BeTrue())
		Expect(segments[2]).To(Equal(report.Segment{Top: 2396, Height: 504}))
	})

	It("should be unavailable with three markers", func() {
		_, ok := report.ExplicitSegments(sequentialMarkers()[:3], 1, 4000)
		Expect(ok).To(BeFalse())
	})

	It("should be unavailable with five markers", func() {
		markers := append(sequentialMarkers(), report.Marker{Value: "5"})
		_, ok := report.ExplicitSegments(markers, 1, 4000)
		Expect(ok).To(BeFalse())
	})

	It("should be unavailable with a duplicate marker", func() {
		markers := sequentialMarkers()
		markers[3].Value = "3"
		_, ok := report.ExplicitSegments(markers, 1, 4000)
		Expect(ok).To(BeFalse())
	})

	It("should be unavailable when a segment is outside the bitmap", func() {
		_, ok := report.ExplicitSegments(sequentialMarkers(), 1, 1000)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("BuildPlan", func() {
	It("should use the explicit segments when the markers are complete", func() {
		// Arrange
		capture := &report.Capture{
			Bitmap:      solidBitmap(200, 3000, color.White),
			Markers:     sequentialMarkers(),
			ClientWidth: 100,
		}

		// Act
		plan := report.BuildPlan(capture, 500)

		// Assert
		Expect(plan.Kind).To(Equal(report.PlanExplicit))
		Expect(plan.Segments).To(HaveLen(3))
	})

	It("should fall back to heuristic slicing with incomplete markers", func() {
		// Arrange
		capture := &report.Capture{
			Bitmap:      solidBitmap(200, 3000, color.White),
			Markers:     sequentialMarkers()[:2],
			ClientWidth: 100,
		}

		// Act
		plan := report.BuildPlan(capture, 500)

		// Assert
		Expect(plan.Kind).To(Equal(report.PlanHeuristic))
		expectExactCover(plan.Segments, 3000)
	})

	It("should scale block boundaries to bitmap pixels", func() {
		// Arrange
		capture := &report.Capture{
			Bitmap:      solidBitmap(200, 1200, color.White),
			Boundaries:  []report.BlockBoundary{{Top: 0, Bottom: 200, Height: 200}, {Top: 210, Bottom: 600, Height: 390}},
			ClientWidth: 100,
		}

		// Act
		plan := report.BuildPlan(capture, 1000)

		// Assert
		Expect(plan.Segments).To(Equal([]report.Segment{{Top: 0, Height: 398}, {Top: 398, Height: 802}}))
	})
})
