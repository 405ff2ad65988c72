package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/posecfg/internal/cli/output"
	"github.com/leapstack-labs/posecfg/pkg/core"
)

// ShowOptions holds options for the show command.
type ShowOptions struct {
	Policy string
	Format string
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	opts := &ShowOptions{}
	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print a loaded project configuration",
		Long: `Load a configuration file and print its contents: project metadata,
body parts, skeleton edges, videos and training parameters.

Output adapts to environment:
  - Terminal: Styled output with tables
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Show the project config
  posecfg show

  # Show a config with dangling skeleton names
  posecfg show --policy lenient path/to/config.yaml

  # Output as JSON
  posecfg show --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runShow(cmd, path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Policy, "policy", "", "Validation policy: strict, lenient")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

func runShow(cmd *cobra.Command, path string, opts *ShowOptions) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.WithFormat(cmd, opts.Format); err != nil {
		return err
	}
	r := cmdCtx.Renderer

	policy, err := cmdCtx.Policy(opts.Policy)
	if err != nil {
		return err
	}
	path = cmdCtx.Cfg.DocumentPath(path)

	res, err := cmdCtx.Load(path, policy)
	if err != nil {
		return reportLoadError(r, path, err)
	}
	for _, w := range res.Warnings {
		r.Warning(w.String())
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(res.Config)
	}
	renderConfig(r, res.Config)
	return nil
}

func renderConfig(r *output.Renderer, cfg *core.ProjectConfig) {
	markdown := r.EffectiveMode() == output.ModeMarkdown
	kv := func(key, value string) {
		if markdown {
			r.Println(output.FormatKeyValue(key, value))
			return
		}
		r.Printf("   %s %s\n", r.Styles().Muted.Render(key+":"), value)
	}
	section := func(title string) {
		r.Println("")
		r.Header(2, title)
	}

	r.Header(1, cfg.Task)
	kv("Scorer", cfg.Scorer)
	kv("Date", cfg.Date)
	kv("Project path", cfg.ProjectPath)
	kv("Iteration", strconv.Itoa(cfg.Iteration))

	declared := make(map[string]bool)
	for _, n := range cfg.SkeletonNodes() {
		declared[n] = true
	}
	section(fmt.Sprintf("Body parts (%d)", len(cfg.BodyParts)))
	rows := make([][]string, 0, len(cfg.BodyParts))
	for i, bp := range cfg.BodyParts {
		inSkeleton := ""
		if declared[bp] {
			inSkeleton = "yes"
		}
		rows = append(rows, []string{strconv.Itoa(i), bp, inSkeleton})
	}
	r.Table([]string{"#", "Body part", "In skeleton"}, rows)

	section(fmt.Sprintf("Skeleton (%d edges)", len(cfg.Skeleton)))
	if len(cfg.Skeleton) == 0 {
		r.Muted("No skeleton edges")
	} else {
		known := cfg.BodyPartIndex()
		rows = make([][]string, 0, len(cfg.Skeleton))
		for i, e := range cfg.Skeleton {
			var missing []string
			for _, n := range e {
				if !known[n] {
					missing = append(missing, n)
				}
			}
			rows = append(rows, []string{strconv.Itoa(i), e[0], e[1], strings.Join(missing, ", ")})
		}
		r.Table([]string{"#", "From", "To", "Undeclared"}, rows)
	}
	kv("Color", cfg.SkeletonColor)

	section(fmt.Sprintf("Videos (%d)", len(cfg.VideoSets)))
	if len(cfg.VideoSets) == 0 {
		r.Muted("No videos")
	} else {
		videos := make([]string, 0, len(cfg.VideoSets))
		for v := range cfg.VideoSets {
			videos = append(videos, v)
		}
		sort.Strings(videos)
		rows = make([][]string, 0, len(videos))
		for _, v := range videos {
			rows = append(rows, []string{v, cfg.VideoSets[v].Crop.String()})
		}
		r.Table([]string{"Video", "Crop"}, rows)
	}

	section("Frame selection")
	kv("Frames to pick", strconv.Itoa(cfg.NumFramesPick))
	kv("Start", formatFloat(cfg.Start))
	kv("Stop", formatFloat(cfg.Stop))

	section("Training")
	fractions := make([]string, len(cfg.TrainingFraction))
	for i, f := range cfg.TrainingFraction {
		fractions[i] = formatFloat(f)
	}
	kv("Training fraction", strings.Join(fractions, ", "))
	kv("Network", cfg.NetType)
	kv("Augmenter", cfg.Augmenter)
	kv("Snapshot index", cfg.SnapshotIndex.String())
	kv("Batch size", strconv.Itoa(cfg.BatchSize))

	section("Plotting")
	kv("pcutoff", formatFloat(cfg.PCutoff))
	kv("Dot size", strconv.Itoa(cfg.DotSize))
	kv("Alpha", formatFloat(cfg.AlphaValue))
	kv("Colormap", cfg.Colormap)

	if cfg.Cropping.Enabled {
		section("Cropping")
		kv("Box", core.CropBox{X1: cfg.X1, X2: cfg.X2, Y1: cfg.Y1, Y2: cfg.Y2}.String())
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
