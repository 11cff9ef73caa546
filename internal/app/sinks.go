package app

import (
	"fmt"

	"github.com/vk/gridlevels/internal/artifact"
	"github.com/vk/gridlevels/internal/publish"
)

// BuildSinks creates the sinks enabled by cfg, in publish order: socket.io
// first, then the S3 upload.
func BuildSinks(cfg *Config) ([]Sink, error) {
	var sinks []Sink

	if cfg.EmitURL != "" {
		pub, err := publish.NewSocketIO(publish.Config{
			URL:                cfg.EmitURL,
			Namespace:          cfg.EmitNamespace,
			Event:              cfg.EmitEvent,
			InsecureSkipVerify: cfg.EmitInsecure,
			ConnectTimeout:     cfg.EmitTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("invalid socket.io configuration: %w", err)
		}
		sinks = append(sinks, pub)
	}

	if cfg.UploadKey != "" {
		store, err := artifact.NewS3Store(cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("invalid s3 configuration: %w", err)
		}
		sink, err := artifact.NewPlanSink(store, cfg.UploadKey)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}

	return sinks, nil
}
