package cmd

import (
	"github.com/spf13/pflag"

	"github.com/kubev2v/assessment-report-agent/internal/config"
	"github.com/kubev2v/assessment-report-agent/pkg/browser"
)

func registerBrowserFlags(flags *pflag.FlagSet, cfg *config.Configuration) {
	flags.StringVar(&cfg.Browser.Bin, "browser-bin", cfg.Browser.Bin, "Path of the Chrome binary. Empty downloads one when needed")
	flags.StringVar(&cfg.Browser.ControlURL, "browser-control-url", cfg.Browser.ControlURL, "DevTools URL of a running browser to use instead of launching one")
	flags.BoolVar(&cfg.Browser.Headless, "browser-headless", cfg.Browser.Headless, "Run the browser headless")
	flags.BoolVar(&cfg.Browser.NoSandbox, "browser-no-sandbox", cfg.Browser.NoSandbox, "Disable the Chrome sandbox (needed when running as root in a container)")
	flags.IntVar(&cfg.Browser.ViewportWidth, "browser-viewport-width", cfg.Browser.ViewportWidth, "Width of the page the report is rendered in")
	flags.IntVar(&cfg.Browser.ViewportHeight, "browser-viewport-height", cfg.Browser.ViewportHeight, "Height of the page the report is rendered in")
	flags.Float64Var(&cfg.Browser.DeviceScaleFactor, "browser-device-scale-factor", cfg.Browser.DeviceScaleFactor, "Device scale factor used to rasterize the report")
	flags.DurationVar(&cfg.Browser.LoadTimeout, "browser-load-timeout", cfg.Browser.LoadTimeout, "Maximum time to wait for the report to load")
}

func registerExportFlags(flags *pflag.FlagSet, cfg *config.Configuration) {
	flags.DurationVar(&cfg.Export.SettleDelay, "export-settle-delay", cfg.Export.SettleDelay, "Time waited after an HTML report was handed over")
}

func browserConfig(cfg config.Browser) browser.Config {
	return browser.Config{
		Bin:               cfg.Bin,
		ControlURL:        cfg.ControlURL,
		Headless:          cfg.Headless,
		NoSandbox:         cfg.NoSandbox,
		ViewportWidth:     cfg.ViewportWidth,
		ViewportHeight:    cfg.ViewportHeight,
		DeviceScaleFactor: cfg.DeviceScaleFactor,
		LoadTimeout:       cfg.LoadTimeout,
	}
}
