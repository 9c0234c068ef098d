package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/borelog/borelog/pkg/borehole"
	"github.com/borelog/borelog/pkg/errors"
)

// Draw runs the pipeline and persists every requested format next to
// Options.Path. It is the programmatic equivalent of the draw command.
//
// A single-format run writes exactly Options.Path. With several formats the
// path's extension is swapped per format, so "site.dxf" with formats
// dxf,svg,png produces site.dxf, site.svg and site.png. Written paths are
// recorded on the Result in format order.
func (r *Runner) Draw(ctx context.Context, table borehole.Table, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result, err := r.Execute(ctx, table, opts)
	if err != nil {
		return nil, err
	}

	formats, err := opts.ParsedFormats()
	if err != nil {
		return nil, err
	}

	multi := len(formats) > 1
	for _, format := range formats {
		dest := OutputPath(opts.Path, string(format), multi)
		if err := os.WriteFile(dest, result.Artifacts[string(format)], 0644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeWriteFailed, err, "writing %q", dest)
		}
		result.Written = append(result.Written, dest)
	}

	return result, nil
}

// OutputPath derives the destination file for one format. Single-format
// runs keep the configured path untouched, even when its extension names a
// different format; multi-format runs swap the extension.
func OutputPath(path, format string, multi bool) string {
	if !multi {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
}
