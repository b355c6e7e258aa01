package pipeline

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"time"

	"github.com/flowline-dev/flowline/pkg/errors"
	"github.com/flowline-dev/flowline/pkg/model"
	"github.com/flowline-dev/flowline/pkg/observability"
)

// Load reads and validates the model named by opts.Input.
// "-" reads from stdin.
func (r *Runner) Load(ctx context.Context, opts Options) (*model.Model, error) {
	if opts.Input == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input is required")
	}

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Input)

	var (
		m   *model.Model
		err error
	)
	if opts.Input == "-" {
		m, err = model.ReadModel(os.Stdin)
	} else {
		if err := errors.ValidatePath(opts.Input); err != nil {
			return nil, err
		}
		m, err = model.ReadModelFile(opts.Input)
	}
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, opts.Input, 0, time.Since(start), err)
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "model file not found: %s", opts.Input)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "load model from %s", opts.Input)
	}

	observability.Pipeline().OnLoadComplete(ctx, opts.Input, len(m.Shapes), time.Since(start), nil)
	return m, nil
}
