package config

import "time"

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration
type Configuration struct {
	Server    Server  `debugmap:"visible-format"`
	Agent     Agent   `debugmap:"visible-format"`
	Browser   Browser `debugmap:"visible-format"`
	Export    Export  `debugmap:"visible-format"`
	LogFormat string  `debugmap:"visible" default:"console"`
	LogLevel  string  `debugmap:"visible" default:"debug"`
}

type Server struct {
	HTTPPort      int    `default:"8000"`
	StaticsFolder string
	ServerMode    string `default:"dev"`
}

type Agent struct {
	Version    string `default:"v0.0.0"`
	NumWorkers int    `default:"3"`
	DataFolder string `default:"data"`
}

// Browser configures the headless Chrome used to rasterize reports.
type Browser struct {
	Bin               string
	ControlURL        string
	Headless          bool          `default:"true"`
	NoSandbox         bool          `default:"false"`
	ViewportWidth     int           `default:"1280"`
	ViewportHeight    int           `default:"900"`
	DeviceScaleFactor float64       `default:"2"`
	LoadTimeout       time.Duration `default:"30s"`
}

type Export struct {
	// SettleDelay is waited after an HTML document was handed to the sink.
	SettleDelay time.Duration `default:"500ms"`
}
