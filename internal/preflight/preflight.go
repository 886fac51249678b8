package preflight

import (
	"context"

	"codesnippet/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every non-binary readiness check for the given config.
// Binary availability is reported separately by CheckSystemDeps.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Work directory", cfg.WorkDir()))
	results = append(results, CheckOCR(ctx, cfg))

	if cfg.OCR.TessdataDir != "" {
		results = append(results, CheckTessdata(cfg))
	}
	if cfg.Transcribe.ModelDir != "" {
		results = append(results, CheckDirectoryAccess("Model directory", cfg.Transcribe.ModelDir))
	}

	return results
}
