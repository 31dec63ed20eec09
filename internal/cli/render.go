package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhaertel/inkboard/pkg/errors"
	"github.com/mhaertel/inkboard/pkg/pipeline"
	"github.com/mhaertel/inkboard/pkg/scene"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string  // output file path (or base path for multiple formats)
	prompt    string  // text prompt (alternative to a scene file)
	sceneType string  // scene type hint for the analyzer
	model     string  // model name override
	theme     string  // theme name or alias
	width     int     // canvas width in pixels
	height    int     // canvas height in pixels
	cols      int     // forced grid column count
	seed      uint64  // layout seed for reproducibility
	scale     float64 // PNG export scaling
	noCrop    bool    // keep the full canvas instead of cropping to content
	detailed  bool    // include descriptions in DOT/SVG output
	refresh   bool    // bypass the scene cache
	noCache   bool    // disable caching entirely
}

// renderCommand creates the render command for generating infographics.
// It accepts either a scene JSON file or a --prompt, and writes one file
// per requested format.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		theme:  c.Config.Theme,
		width:  c.Config.Width,
		height: c.Config.Height,
	}

	cmd := &cobra.Command{
		Use:   "render [scene.json]",
		Short: "Render a scene or prompt to PNG, GIF, JSON, DOT, or SVG",
		Long: `Render draws an infographic from a scene JSON file, or straight from a
text prompt with --prompt. Multiple output formats can be requested at
once; each is written next to the input (or to the --output base path).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if input == "" && opts.prompt == "" {
				return errors.New(errors.ErrCodeInvalidInput, "provide a scene file or --prompt")
			}
			return c.runRender(cmd, input, parseFormats(formatsStr), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), gif, json, dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&opts.prompt, "prompt", "p", "", "render from a text prompt instead of a scene file")
	cmd.Flags().StringVarP(&opts.sceneType, "type", "t", "", "scene type hint when rendering from a prompt")
	cmd.Flags().StringVar(&opts.model, "model", "", "model name (overrides config)")
	cmd.Flags().StringVar(&opts.theme, "theme", opts.theme, "theme name: whiteboard (default), guidebook, dark (see 'inkboard themes')")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "canvas height in pixels")
	cmd.Flags().IntVar(&opts.cols, "cols", 0, "force the grid column count")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "layout seed (default 42)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "scale the PNG output (e.g. 2 for 2x)")
	cmd.Flags().BoolVar(&opts.noCrop, "no-crop", false, "keep the full canvas instead of cropping to content")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node descriptions in DOT/SVG output")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the scene cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching entirely")

	return cmd
}

// runRender assembles pipeline options, executes the runner, and writes
// every produced artifact to disk.
func (c *CLI) runRender(cmd *cobra.Command, input string, formats []string, opts *renderOpts) error {
	popts := pipeline.Options{
		Prompt:    opts.prompt,
		SceneType: opts.sceneType,
		Refresh:   opts.refresh,
		Theme:     opts.theme,
		Width:     opts.width,
		Height:    opts.height,
		Cols:      opts.cols,
		Seed:      opts.seed,
		Scale:     opts.scale,
		NoCrop:    opts.noCrop,
		Detailed:  opts.detailed,
		Formats:   formats,
		Logger:    c.Logger,
	}

	if input != "" {
		s, err := scene.ReadFile(input)
		if err != nil {
			return err
		}
		popts.Scene = s
	}

	runner, err := c.newRunner(opts.noCache, opts.model)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(cmd.Context()))
	sp := newSpinnerWithContext(cmd.Context(), "Rendering...")
	sp.Start()
	result, err := runner.Execute(cmd.Context(), popts)
	sp.Stop()
	if err != nil {
		return err
	}

	base := outputBase(opts.output, input)
	written := make([]string, 0, len(result.Artifacts))
	for _, format := range formats {
		data, ok := result.Artifacts[format]
		if !ok {
			printWarning("no %s output produced", format)
			continue
		}
		path := artifactPath(base, opts.output, format, len(formats))
		if err := writeArtifact(path, data); err != nil {
			return err
		}
		written = append(written, path)
	}

	prog.done(fmt.Sprintf("Rendered %d format(s)", len(written)))
	printSuccess("Rendered %s", result.Scene.Title)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.SceneHit && result.CacheInfo.RenderHit)
	for _, path := range written {
		printFile(path)
	}
	return nil
}

// outputBase derives the base output path from the --output flag and the
// input file. Rendering from a prompt with no --output falls back to
// "infographic" in the working directory.
func outputBase(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if input != "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	return "infographic"
}

// artifactPath builds the destination path for one format. A single
// requested format with an explicit matching --output keeps that exact
// path; otherwise the format becomes the extension.
func artifactPath(base, output, format string, formatCount int) string {
	if formatCount == 1 && output != "" && filepath.Ext(output) == "."+format {
		return output
	}
	return base + "." + format
}

// writeArtifact writes data to path, creating parent directories as needed.
func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
