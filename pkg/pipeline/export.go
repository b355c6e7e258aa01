package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/flowline-dev/flowline/pkg/errors"
	"github.com/flowline-dev/flowline/pkg/model"
	"github.com/flowline-dev/flowline/pkg/observability"
)

// Export writes the resolved model to opts.Output as indented JSON.
// "-" writes to stdout.
func Export(ctx context.Context, m *model.Model, opts Options) error {
	if opts.Output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "output is required")
	}

	start := time.Now()
	observability.Pipeline().OnExportStart(ctx, opts.Output)

	var err error
	if opts.Output == "-" {
		err = model.WriteModel(m, os.Stdout)
	} else {
		err = model.WriteModelFile(m, opts.Output)
	}

	observability.Pipeline().OnExportComplete(ctx, opts.Output, time.Since(start), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", opts.Output)
	}
	return nil
}

// DefaultOutput derives the output path from the input path by replacing
// the .json extension with the resolved suffix. Stdin input maps to stdout.
func DefaultOutput(input string) string {
	if input == "-" || input == "" {
		return "-"
	}
	base := input
	if n := len(base) - len(".json"); n > 0 && base[n:] == ".json" {
		base = base[:n]
	}
	return base + OutputSuffix
}
