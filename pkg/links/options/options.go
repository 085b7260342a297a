// Package options centralizes the shared janus parameters used across
// detection, protection, and history modules.
package options

import (
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"
)

func BackendURL() cfg.Param {
	return cfg.NewParam[string]("backend-url", "Base URL of the detection backend").
		WithDefault("http://localhost:8000").WithShortcode("b")
}

func MediaFile() cfg.Param {
	return cfg.NewParam[string]("file", "Path to the media file to analyze").
		WithDefault("").AsRequired().WithShortcode("f")
}

func MediaURL() cfg.Param {
	return cfg.NewParam[string]("url", "Media URL to analyze").
		WithDefault("").AsRequired().WithShortcode("u")
}

func ContentHash() cfg.Param {
	return cfg.NewParam[string]("hash", "Content hash of the scan record").
		WithDefault("").AsRequired()
}

func OutputDir() cfg.Param {
	return cfg.NewParam[string]("output", "output directory").
		WithDefault("hackcrypt-output").WithShortcode("o")
}

func MaxUploadMB() cfg.Param {
	return cfg.NewParam[int]("max-upload-mb", "Maximum upload size in megabytes").
		WithDefault(100)
}

func HistoryDB() cfg.Param {
	return cfg.NewParam[string]("history-db", "Path to a local sqlite history database; empty uses the backend's history").
		WithDefault("")
}

func FramesDir() cfg.Param {
	return cfg.NewParam[string]("frames-dir", "Directory of captured video frames to analyze").
		WithDefault("").AsRequired().WithShortcode("d")
}

func FrameBatchSize() cfg.Param {
	return cfg.NewParam[int]("batch-size", "Number of frames per analysis batch").
		WithDefault(8)
}

func FrameIntervalMS() cfg.Param {
	return cfg.NewParam[int]("interval-ms", "Capture interval between frames in milliseconds").
		WithDefault(500)
}

func BackendOptions() []cfg.Param {
	return []cfg.Param{
		BackendURL(),
	}
}

func ScanOptions() []cfg.Param {
	return []cfg.Param{
		BackendURL(),
		MaxUploadMB(),
		HistoryDB(),
	}
}
