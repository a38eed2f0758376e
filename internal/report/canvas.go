package report

import (
	"image"
	"image/draw"

	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
)

// CanvasFactory provides the intermediate canvases slices are drawn on.
type CanvasFactory interface {
	NewCanvas(width, height int) (draw.Image, error)
}

type rgbaCanvasFactory struct{}

func (rgbaCanvasFactory) NewCanvas(width, height int) (draw.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, srvErrors.NewDrawingContextError(width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

// DefaultCanvasFactory returns in-memory RGBA canvases.
func DefaultCanvasFactory() CanvasFactory {
	return rgbaCanvasFactory{}
}

// cropSlice copies the strip of bitmap covered by seg onto a white canvas.
func cropSlice(canvases CanvasFactory, bitmap image.Image, seg Segment) (image.Image, error) {
	b := bitmap.Bounds()
	canvas, err := canvases.NewCanvas(b.Dx(), seg.Height)
	if err != nil {
		return nil, err
	}
	if canvas == nil {
		return nil, srvErrors.NewDrawingContextError(b.Dx(), seg.Height)
	}

	dst := canvas.Bounds()
	draw.Draw(canvas, dst, image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, dst, bitmap, image.Pt(b.Min.X, b.Min.Y+seg.Top), draw.Over)
	return canvas, nil
}
