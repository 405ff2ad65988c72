package commands

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	intconfig "github.com/leapstack-labs/posecfg/internal/config"
	"github.com/leapstack-labs/posecfg/pkg/core"
)

// Default body parts and skeleton for a new project.
var (
	defaultBodyParts = []string{"bodypart1", "bodypart2", "bodypart3", "objectA"}
	defaultSkeleton  = []core.Edge{{"bodypart1", "bodypart2"}, {"objectA", "bodypart3"}}
)

// projectDirs are created next to config.yaml.
var projectDirs = []string{"videos", "labeled-data", "training-datasets", "dlc-models"}

// InitOptions holds options for the init command.
type InitOptions struct {
	Task      string
	Scorer    string
	Date      string
	BodyParts []string
	Force     bool
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a new project configuration",
		Long: `Create a project directory with a config.yaml and the standard
subdirectories:

  - videos/ for source videos
  - labeled-data/ for extracted and labeled frames
  - training-datasets/ and dlc-models/ for training output

When custom body parts are given the skeleton starts empty.`,
		Example: `  # Initialize in the current directory
  posecfg init --task reaching --scorer alice

  # Initialize a new directory with custom body parts
  posecfg init openfield --bodyparts nose,leftear,rightear,tailbase

  # Overwrite an existing config.yaml
  posecfg init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Task, "task", "", "Task name (default: directory name)")
	cmd.Flags().StringVar(&opts.Scorer, "scorer", "", "Scorer name (default: current user)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "Project date (default: today, e.g. Jan30)")
	cmd.Flags().StringSliceVar(&opts.BodyParts, "bodyparts", nil, "Comma-separated body part names")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts *InitOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	configPath := filepath.Join(absDir, intconfig.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", intconfig.ConfigFileName)
	}

	// Refuse to write a document that validate would reject.
	cfg := newProjectConfig(absDir, opts)
	data, err := intconfig.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}
	if _, err := intconfig.LoadBytes(data, intconfig.LoadOptions{Policy: core.PolicyStrict, Source: configPath}); err != nil {
		return reportLoadError(r, configPath, err)
	}

	if err := os.MkdirAll(absDir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := intconfig.SaveFile(configPath, cfg); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}
	r.StatusLine(intconfig.ConfigFileName, "success", "")

	for _, sub := range projectDirs {
		if err := os.MkdirAll(filepath.Join(absDir, sub), 0o750); err != nil {
			return fmt.Errorf("failed to create %s: %w", sub, err)
		}
		r.StatusLine(sub+"/", "success", "")
	}

	cmdCtx.Logger.Debug("project initialized", "dir", absDir, "bodyparts", len(cfg.BodyParts))

	r.Println("")
	r.Success(fmt.Sprintf("Project %q initialized!", cfg.Task))
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Add videos to video_sets in config.yaml")
	r.Println("  2. Edit bodyparts and skeleton")
	r.Println("  3. Run 'posecfg validate' to check the configuration")
	return nil
}

func newProjectConfig(dir string, opts *InitOptions) *core.ProjectConfig {
	task := opts.Task
	if task == "" {
		task = filepath.Base(dir)
	}
	scorer := opts.Scorer
	if scorer == "" {
		scorer = currentUser()
	}
	date := opts.Date
	if date == "" {
		date = time.Now().Format("Jan2")
	}

	bodyParts := opts.BodyParts
	skeleton := defaultSkeleton
	if len(bodyParts) == 0 {
		bodyParts = defaultBodyParts
	} else {
		skeleton = nil
	}

	cfg := intconfig.NewProject(task, scorer, date, dir, bodyParts)
	cfg.Skeleton = append([]core.Edge(nil), skeleton...)
	cfg.VideoSets = map[string]core.VideoSet{}
	return cfg
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return filepath.Base(u.Username)
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "scorer"
}
