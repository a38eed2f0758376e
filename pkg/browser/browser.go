// Package browser renders report documents in a headless Chrome driven by go-rod
// and exposes them as rasterizable containers.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
)

const library = "rod"

// Config holds the browser configuration.
type Config struct {
	// Bin is the Chrome binary. Empty lets the launcher find or download one.
	Bin string
	// ControlURL connects to an already running browser instead of launching one.
	ControlURL        string
	Headless          bool
	NoSandbox         bool
	ViewportWidth     int
	ViewportHeight    int
	DeviceScaleFactor float64
	// LoadTimeout bounds the wait for the document to load.
	LoadTimeout time.Duration
}

// Browser is a lazily started headless browser shared by the exports.
type Browser struct {
	cfg      Config
	launcher *launcher.Launcher
	browser  *rod.Browser
	mu       sync.Mutex
}

func New(cfg Config) *Browser {
	return &Browser{cfg: cfg}
}

// Start launches and connects the browser. It is a no-op when already connected.
func (b *Browser) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return nil
	}

	controlURL := b.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(b.cfg.Headless).NoSandbox(b.cfg.NoSandbox)
		if b.cfg.Bin != "" {
			l = l.Bin(b.cfg.Bin)
		}
		url, err := l.Launch()
		if err != nil {
			return srvErrors.NewExternalLibraryError(library, fmt.Errorf("failed to launch chrome: %w", err))
		}
		b.launcher = l
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		b.killLauncher()
		return srvErrors.NewExternalLibraryError(library, fmt.Errorf("failed to connect to chrome: %w", err))
	}
	// detach from the start context, pages get their own
	b.browser = browser.Context(context.Background())

	zap.S().Named("browser").Infow("browser connected", "control_url", controlURL, "headless", b.cfg.Headless)
	return nil
}

// Close disconnects the browser and stops it if it was launched by Start.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}

	err := b.browser.Close()
	b.browser = nil
	b.killLauncher()
	return err
}

func (b *Browser) killLauncher() {
	if b.launcher == nil {
		return
	}
	b.launcher.Kill()
	b.launcher.Cleanup()
	b.launcher = nil
}

// Open loads html in a new page and returns the element with id containerID as a Document.
// The caller must close the document.
func (b *Browser) Open(ctx context.Context, html string, containerID string) (*Document, error) {
	if err := b.Start(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	browser := b.browser
	b.mu.Unlock()
	if browser == nil {
		return nil, srvErrors.NewExternalLibraryError(library, fmt.Errorf("browser closed"))
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, srvErrors.NewExternalLibraryError(library, err)
	}

	doc := &Document{page: page, containerID: containerID}
	if err := doc.load(ctx, html, b.cfg); err != nil {
		_ = page.Close()
		return nil, err
	}

	return doc, nil
}
