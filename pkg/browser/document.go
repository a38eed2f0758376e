package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/kubev2v/assessment-report-agent/internal/report"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
)

const (
	waitImagesJS = `(id) => {
		const root = document.getElementById(id);
		if (!root) throw new Error('container ' + id + ' not found');
		const pending = Array.from(root.querySelectorAll('img'))
			.filter((img) => !img.complete)
			.map((img) => new Promise((resolve) => {
				img.addEventListener('load', resolve, { once: true });
				img.addEventListener('error', resolve, { once: true });
			}));
		return Promise.all(pending).then(() => pending.length);
	}`

	boundsJS = `(id) => {
		const r = document.getElementById(id).getBoundingClientRect();
		return { top: r.top, bottom: r.bottom };
	}`

	measureJS = `(id, selector) => Array.from(document.getElementById(id).querySelectorAll(selector)).map((el) => {
		const r = el.getBoundingClientRect();
		return { top: r.top, bottom: r.bottom };
	})`

	markersJS = `(id, attr) => Array.from(document.getElementById(id).querySelectorAll('[' + attr + ']')).map((el) => {
		const r = el.getBoundingClientRect();
		return { value: el.getAttribute(attr), top: r.top, bottom: r.bottom };
	})`

	clientWidthJS = `(id) => document.getElementById(id).clientWidth`

	extentJS = `(id) => {
		const el = document.getElementById(id);
		const r = el.getBoundingClientRect();
		return { x: r.left + window.scrollX, y: r.top + window.scrollY, width: el.scrollWidth, height: el.scrollHeight };
	}`
)

type rectJSON struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

type markerJSON struct {
	Value  string  `json:"value"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

type extentJSON struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Document is a loaded page. It implements report.Container for the element
// with the configured id.
type Document struct {
	page        *rod.Page
	containerID string
}

func (d *Document) load(ctx context.Context, html string, cfg Config) error {
	page := d.page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.ViewportWidth,
		Height:            cfg.ViewportHeight,
		DeviceScaleFactor: cfg.DeviceScaleFactor,
	}); err != nil {
		return srvErrors.NewExternalLibraryError(library, err)
	}

	if err := page.SetDocumentContent(html); err != nil {
		return srvErrors.NewExternalLibraryError(library, err)
	}

	if cfg.LoadTimeout > 0 {
		page = page.Timeout(cfg.LoadTimeout)
	}
	if err := page.WaitLoad(); err != nil {
		return srvErrors.NewExternalLibraryError(library, err)
	}
	return nil
}

func (d *Document) eval(ctx context.Context, js string, out any, args ...any) error {
	res, err := d.page.Context(ctx).Evaluate(rod.Eval(js, args...).ByPromise())
	if err != nil {
		return srvErrors.NewExternalLibraryError(library, err)
	}
	if out == nil {
		return nil
	}

	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return srvErrors.NewExternalLibraryError(library, err)
	}
	return json.Unmarshal(raw, out)
}

func (d *Document) WaitForImages(ctx context.Context) error {
	return d.eval(ctx, waitImagesJS, nil, d.containerID)
}

func (d *Document) Bounds(ctx context.Context) (report.Rect, error) {
	var r rectJSON
	if err := d.eval(ctx, boundsJS, &r, d.containerID); err != nil {
		return report.Rect{}, err
	}
	return report.Rect{Top: r.Top, Bottom: r.Bottom}, nil
}

func (d *Document) Measure(ctx context.Context, selector string) ([]report.Rect, error) {
	var rects []rectJSON
	if err := d.eval(ctx, measureJS, &rects, d.containerID, selector); err != nil {
		return nil, err
	}
	return toRects(rects), nil
}

func (d *Document) Markers(ctx context.Context, attribute string) ([]report.Marker, error) {
	var markers []markerJSON
	if err := d.eval(ctx, markersJS, &markers, d.containerID, attribute); err != nil {
		return nil, err
	}
	return toMarkers(markers), nil
}

func (d *Document) ClientWidth(ctx context.Context) (float64, error) {
	var w float64
	if err := d.eval(ctx, clientWidthJS, &w, d.containerID); err != nil {
		return 0, err
	}
	return w, nil
}

// Rasterize captures the full scrollable extent of the container, beyond the viewport.
func (d *Document) Rasterize(ctx context.Context) (image.Image, error) {
	var extent extentJSON
	if err := d.eval(ctx, extentJS, &extent, d.containerID); err != nil {
		return nil, err
	}

	clip, err := clipFor(extent)
	if err != nil {
		return nil, err
	}

	shot, err := d.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:                proto.PageCaptureScreenshotFormatPng,
		Clip:                  clip,
		CaptureBeyondViewport: true,
	})
	if err != nil {
		return nil, srvErrors.NewExternalLibraryError(library, err)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, srvErrors.NewExternalLibraryError(library, fmt.Errorf("failed to decode screenshot: %w", err))
	}
	return img, nil
}

func (d *Document) Close() error {
	return d.page.Close()
}

func clipFor(e extentJSON) (*proto.PageViewport, error) {
	if e.Width <= 0 || e.Height <= 0 {
		return nil, srvErrors.NewDrawingContextError(int(e.Width), int(e.Height))
	}
	return &proto.PageViewport{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height, Scale: 1}, nil
}

func toRects(in []rectJSON) []report.Rect {
	out := make([]report.Rect, 0, len(in))
	for _, r := range in {
		out = append(out, report.Rect{Top: r.Top, Bottom: r.Bottom})
	}
	return out
}

func toMarkers(in []markerJSON) []report.Marker {
	out := make([]report.Marker, 0, len(in))
	for _, m := range in {
		out = append(out, report.Marker{Value: m.Value, Rect: report.Rect{Top: m.Top, Bottom: m.Bottom}})
	}
	return out
}
