package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/borelog/borelog/pkg/borehole"
	"github.com/borelog/borelog/pkg/cache"
	"github.com/borelog/borelog/pkg/errors"
	"github.com/borelog/borelog/pkg/loader"
	"github.com/borelog/borelog/pkg/observability"
	"github.com/borelog/borelog/pkg/pipeline"
	"github.com/borelog/borelog/pkg/render"
)

// drawFlags holds the command-line flag values for the draw command.
type drawFlags struct {
	config     string
	sheet      string
	pickSheet  bool
	thickness  float64
	spacing    float64
	elevation  bool
	drawOnZero bool
	legend     bool
	names      bool
	dimensions bool
	colorscale string
	formats    string
	output     string
	pngScale   float64
	noCache    bool
	strict     bool
}

// drawCommand creates the draw command, the primary entry point: it loads a
// record table and renders the borehole section drawing.
func (c *CLI) drawCommand() *cobra.Command {
	f := &drawFlags{}

	cmd := &cobra.Command{
		Use:   "draw [input]",
		Short: "Draw a borehole section from a record table",
		Long: `Draw a borehole section from a record table.

The input file (XLSX, CSV or JSON) must carry the columns borehole_name,
start, end and material. Rows with unparseable start/end values are dropped
with a warning; layers that do not line up are flagged but still drawn.

Options can also come from a TOML config file via --config; flags set on the
command line win over config values.

Examples:
  borelog draw site.xlsx
  borelog draw site.xlsx --sheet "Phase 2" -o north-field.dxf
  borelog draw site.csv --format svg,png --colorscale Set2
  borelog draw site.json --elevation --config drawing.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}
			return c.runDraw(cmd.Context(), args[0], f, opts)
		},
	}

	f.register(cmd)

	return cmd
}

// register binds the draw flags onto the command. Flag defaults mirror the
// pipeline defaults so the help text documents real behavior.
func (f *drawFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.config, "config", "", "TOML file with drawing options")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "workbook sheet to read (first sheet if empty)")
	cmd.Flags().BoolVar(&f.pickSheet, "pick-sheet", false, "pick the workbook sheet interactively")

	cmd.Flags().Float64Var(&f.thickness, "thickness", pipeline.DefaultThickness, "borehole column width in drawing units")
	cmd.Flags().Float64Var(&f.spacing, "spacing", pipeline.DefaultSpacing, "gap between borehole columns in drawing units")
	cmd.Flags().BoolVar(&f.elevation, "elevation", false, "treat start/end values as elevations instead of depths")
	cmd.Flags().BoolVar(&f.drawOnZero, "draw-on-zero", true, "shift elevation drawings so every borehole starts at zero")

	cmd.Flags().BoolVar(&f.legend, "legend", true, "draw the material legend")
	cmd.Flags().BoolVar(&f.names, "names", true, "draw borehole name labels")
	cmd.Flags().BoolVar(&f.dimensions, "dimensions", true, "draw start/end dimension labels")
	cmd.Flags().StringVar(&f.colorscale, "colorscale", pipeline.DefaultColorscale, "palette for material colors (see 'borelog palettes')")

	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): dxf (default), svg, png, json (comma-separated)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().Float64Var(&f.pngScale, "png-scale", render.DefaultPNGScale, "PNG resolution in pixels per drawing unit")

	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on the first invalid record instead of dropping it")
}

// options assembles pipeline options: config file values first, then every
// flag the user explicitly set layered on top.
func (f *drawFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.config != "" {
		loaded, err := loadConfig(f.config)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("thickness") {
		opts.Thickness = f.thickness
	}
	if flags.Changed("spacing") {
		opts.Spacing = f.spacing
	}
	if flags.Changed("elevation") {
		opts.Elevation = f.elevation
	}
	if flags.Changed("draw-on-zero") {
		v := f.drawOnZero
		opts.DrawOnZero = &v
	}
	if flags.Changed("legend") {
		v := f.legend
		opts.Legend = &v
	}
	if flags.Changed("names") {
		v := f.names
		opts.Names = &v
	}
	if flags.Changed("dimensions") {
		v := f.dimensions
		opts.Dimensions = &v
	}
	if flags.Changed("colorscale") {
		opts.Colorscale = f.colorscale
	}
	if flags.Changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if flags.Changed("output") {
		opts.Path = f.output
	}
	if flags.Changed("png-scale") {
		opts.PNGScale = f.pngScale
	}
	if flags.Changed("strict") {
		opts.Strict = f.strict
	}

	return opts, nil
}

// loadConfig reads drawing options from a TOML file.
func loadConfig(path string) (pipeline.Options, error) {
	var opts pipeline.Options
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %q not found", path)
		}
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading config %q", path)
	}
	if err := toml.Unmarshal(data, &opts); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing config %q", path)
	}
	return opts, nil
}

// runDraw loads the input table and runs the drawing pipeline.
func (c *CLI) runDraw(ctx context.Context, input string, f *drawFlags, opts pipeline.Options) error {
	// Logger before Validate, otherwise validation installs a discard logger.
	opts.Logger = c.Logger
	if err := opts.Validate(); err != nil {
		return err
	}

	sheet := f.sheet
	if f.pickSheet {
		picked, ok, err := pickSheet(input)
		if err != nil {
			return err
		}
		if !ok {
			printDetail("No sheet selected")
			return nil
		}
		sheet = picked
	}

	runner, err := c.newRunner(f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	table, tableHit, err := loadTable(ctx, input, sheet, runner)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Drawing boreholes...")
	spinner.Start()

	result, err := runner.Draw(ctx, table, opts)
	if err != nil {
		spinner.StopWithError("Drawing failed")
		return err
	}
	spinner.Stop()
	result.CacheInfo.TableHit = tableHit

	printDrawSummary(input, result)
	return nil
}

// pickSheet lists the workbook's sheets and lets the user choose one. ok is
// false when the user left the picker without selecting.
func pickSheet(input string) (string, bool, error) {
	ext := strings.ToLower(filepath.Ext(input))
	if ext != ".xlsx" && ext != ".xlsm" {
		return "", false, errors.New(errors.ErrCodeInvalidInput,
			"--pick-sheet needs a workbook input, got %q", input)
	}

	sheets, err := loader.SheetNames(input)
	if err != nil {
		return "", false, err
	}
	if len(sheets) == 1 {
		return sheets[0], true, nil
	}

	p := tea.NewProgram(newSheetPicker(sheets))
	finalModel, err := p.Run()
	if err != nil {
		return "", false, fmt.Errorf("sheet picker: %w", err)
	}

	picker, ok := finalModel.(sheetPicker)
	if !ok || picker.selected == "" {
		return "", false, nil
	}
	return picker.selected, true, nil
}

// loadTable reads the input table, serving repeat loads of an unchanged file
// from the runner's cache. The table key carries the file's mtime and size,
// so edits invalidate naturally.
func loadTable(ctx context.Context, path, sheet string, runner *pipeline.Runner) (borehole.Table, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		// Uncacheable; let the loader produce its structured error.
		table, lerr := loader.Load(path, sheet)
		return table, false, lerr
	}

	key := runner.Keyer.TableKey(path, cache.TableKeyOpts{
		Sheet:   sheet,
		ModTime: info.ModTime().UnixNano(),
		Size:    info.Size(),
	})

	if data, hit, err := runner.Cache.Get(ctx, key); err == nil && hit {
		var table borehole.Table
		if err := json.Unmarshal(data, &table); err == nil {
			observability.Cache().OnCacheHit(ctx, "table")
			return table, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "table")

	table, err := loader.Load(path, sheet)
	if err != nil {
		return borehole.Table{}, false, err
	}
	if data, err := json.Marshal(table); err == nil {
		_ = runner.Cache.Set(ctx, key, data, cache.TTLTable)
		observability.Cache().OnCacheSet(ctx, "table", len(data))
	}
	return table, false, nil
}

// printDrawSummary reports diagnostics and written files after a successful
// draw.
func printDrawSummary(input string, result *pipeline.Result) {
	if result.Dropped > 0 {
		printWarning("Dropped %d rows with invalid start/end values", result.Dropped)
	}
	if n := len(result.Flagged); n > 0 {
		printWarning("%d layers do not continue the layer above them", n)
		printDetail("check the depth intervals for gaps or overlaps")
	}

	printSuccess("Drawing complete")
	for _, path := range result.Written {
		printFile(path)
	}
	printStats(result.Stats.LayerCount, result.Stats.BoreholeCount, result.CacheInfo.RenderHit)
	if len(result.Materials) > 0 {
		printDetail("materials: %s", strings.Join(result.Materials, ", "))
	}

	if len(result.Written) == 1 && strings.HasSuffix(result.Written[0], ".dxf") {
		printNextStep("Preview", fmt.Sprintf("borelog draw %s --format svg", input))
	}
}
