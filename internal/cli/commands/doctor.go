package commands

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/posecfg/internal/cli/output"
	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
	_ "github.com/leapstack-labs/posecfg/pkg/lint/rules" // register health rules
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format  string   // Output format: text, markdown, json
	Disable []string // Rule IDs to disable
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor [file]",
		Short: "Run a configuration health check",
		Long: `Analyze a project configuration for likely mistakes.

The document is loaded with the lenient policy so that undeclared skeleton
names are reported as findings instead of stopping the check. The report
includes:
- Configuration summary (body parts, skeleton, videos)
- Health checks grouped by category (Skeleton, Training, Project)
- Health score (0-100)
- Actionable recommendations

Rules can be disabled or re-graded under lint: in posecfg.yaml.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  posecfg doctor

  # Output as JSON
  posecfg doctor --format json

  # Skip the unconnected body part check
  posecfg doctor --disable CS04`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runDoctor(cmd, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         ConfigSummary `json:"summary"`
	HealthChecks    []HealthCheck `json:"health_checks"`
	Score           int           `json:"score"`
	Recommendations []string      `json:"recommendations"`
	IssueCount      int           `json:"issue_count"`
}

// ConfigSummary contains document-level statistics.
type ConfigSummary struct {
	Path          string `json:"path"`
	Task          string `json:"task"`
	Scorer        string `json:"scorer"`
	BodyParts     int    `json:"bodyparts"`
	SkeletonEdges int    `json:"skeleton_edges"`
	Videos        int    `json:"videos"`
	LoadWarnings  int    `json:"load_warnings"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "info", "warn", "error"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, path string, opts *DoctorOptions) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.WithFormat(cmd, opts.Format); err != nil {
		return err
	}
	r := cmdCtx.Renderer
	path = cmdCtx.Cfg.DocumentPath(path)

	res, err := cmdCtx.Load(path, core.PolicyLenient)
	if err != nil {
		return reportLoadError(r, path, err)
	}

	analyzerCfg, err := cmdCtx.Cfg.Lint.AnalyzerConfig()
	if err != nil {
		return err
	}
	for _, id := range opts.Disable {
		analyzerCfg.Disable(strings.ToUpper(strings.TrimSpace(id)))
	}

	analyzer := lint.NewAnalyzer(analyzerCfg)
	diags := analyzer.Analyze(lint.NewContext(res.Config, path))
	cmdCtx.Logger.Debug("health analysis complete", "path", path, "diagnostics", len(diags))

	summary := ConfigSummary{
		Path:          path,
		Task:          res.Config.Task,
		Scorer:        res.Config.Scorer,
		BodyParts:     len(res.Config.BodyParts),
		SkeletonEdges: len(res.Config.Skeleton),
		Videos:        len(res.Config.VideoSets),
		LoadWarnings:  len(res.Warnings),
	}
	doctorOutput := buildDoctorOutput(summary, diags, analyzerCfg)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(doctorOutput)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, doctorOutput)
	default:
		return renderDoctorText(r, doctorOutput)
	}
}

func buildDoctorOutput(summary ConfigSummary, diags []lint.Diagnostic, cfg *lint.Config) *DoctorOutput {
	// Group diagnostics by rule
	diagsByRule := make(map[string][]lint.Diagnostic)
	for _, d := range diags {
		diagsByRule[d.RuleID] = append(diagsByRule[d.RuleID], d)
	}

	// Build health checks from all enabled rules
	rules := lint.GetAll()
	healthChecks := make([]HealthCheck, 0, len(rules))

	for _, rule := range rules {
		if cfg != nil && cfg.IsDisabled(rule.ID) {
			continue
		}
		ruleDiags := diagsByRule[rule.ID]

		details := make([]string, 0, len(ruleDiags))
		for _, d := range ruleDiags {
			details = append(details, d.Message)
		}

		healthChecks = append(healthChecks, HealthCheck{
			RuleID:     rule.ID,
			Name:       rule.Name,
			Group:      rule.Group,
			Status:     checkStatus(ruleDiags),
			IssueCount: len(ruleDiags),
			Details:    details,
		})
	}

	// Sort health checks by group then by rule ID
	sort.Slice(healthChecks, func(i, j int) bool {
		if healthChecks[i].Group != healthChecks[j].Group {
			return healthChecks[i].Group < healthChecks[j].Group
		}
		return healthChecks[i].RuleID < healthChecks[j].RuleID
	})

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    healthChecks,
		Score:           calculateHealthScore(healthChecks, summary.BodyParts),
		Recommendations: generateRecommendations(healthChecks),
		IssueCount:      len(diags),
	}
}

// checkStatus grades a rule by its most severe diagnostic.
func checkStatus(diags []lint.Diagnostic) string {
	if len(diags) == 0 {
		return "pass"
	}
	worst := core.SeverityHint
	for _, d := range diags {
		if d.Severity < worst {
			worst = d.Severity
		}
	}
	switch worst {
	case core.SeverityError:
		return "error"
	case core.SeverityWarning:
		return "warn"
	default:
		return "info"
	}
}

// calculateHealthScore computes a health score from 0-100.
// The scoring weights:
// - Errors cost twice as much as warnings
// - Info findings are free
// - Larger body part sets make each issue count for less
func calculateHealthScore(checks []HealthCheck, bodyPartCount int) int {
	if len(checks) == 0 {
		return 100
	}

	score := 100.0

	basePenalty := 5.0
	if bodyPartCount > 10 {
		basePenalty = 3.0
	}
	if bodyPartCount > 50 {
		basePenalty = 2.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2 // Errors count double
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	// Clamp to 0-100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return int(score)
}

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	seen := make(map[string]bool)

	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}

		rec := getRecommendation(check.RuleID)
		if rec != "" && !seen[rec] {
			recommendations = append(recommendations, rec)
			seen[rec] = true
		}
	}

	// Limit to top 5 recommendations
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}

	return recommendations
}

// getRecommendation returns a recommendation for a specific rule.
func getRecommendation(ruleID string) string {
	switch ruleID {
	case "CS01":
		return "Declare every skeleton endpoint under bodyparts, or fix the misspelled edge names"
	case "CS02":
		return "Remove repeated skeleton edges"
	case "CS03":
		return "Remove skeleton edges that connect a body part to itself"
	case "CS04":
		return "Connect the remaining body parts in the skeleton, or ignore this if they are tracked alone"
	case "CT01":
		return "Raise TrainingFraction so most labeled frames are used for training"
	case "CT02":
		return "Increase numframes2pick to label more frames per video"
	case "CP01":
		return "Set project_path to the directory holding config.yaml"
	case "CP02":
		return "Fix or remove video_sets entries whose files no longer exist"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	// Header
	r.Println("")
	r.Println(styles.Header1.Render("posecfg Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	// Config Summary
	r.Println(styles.Header2.Render("Configuration Summary"))
	r.Printf("   %s (scorer %s) | %s\n", out.Summary.Task, out.Summary.Scorer, out.Summary.Path)
	r.Printf("   Body parts: %d | Skeleton edges: %d | Videos: %d\n",
		out.Summary.BodyParts, out.Summary.SkeletonEdges, out.Summary.Videos)
	if out.Summary.LoadWarnings > 0 {
		r.Printf("   Load warnings: %d\n", out.Summary.LoadWarnings)
	}
	r.Println("")

	// Health Checks grouped by category
	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.StatusSuccess.Render("✓")
		switch check.Status {
		case "info":
			icon = styles.Info.Render("i")
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.StatusFailed.Render("✗")
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		// Show first 3 details for issues
		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	// Health Score
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# posecfg Health Report")
	r.Println("")

	// Config Summary
	r.Println("## Configuration Summary")
	r.Println("")
	r.Println(output.FormatKeyValue("File", out.Summary.Path))
	r.Println(output.FormatKeyValue("Task", out.Summary.Task))
	r.Println(output.FormatKeyValue("Scorer", out.Summary.Scorer))
	r.Println(output.FormatKeyValue("Body parts", fmt.Sprintf("%d", out.Summary.BodyParts)))
	r.Println(output.FormatKeyValue("Skeleton edges", fmt.Sprintf("%d", out.Summary.SkeletonEdges)))
	r.Println(output.FormatKeyValue("Videos", fmt.Sprintf("%d", out.Summary.Videos)))
	if out.Summary.LoadWarnings > 0 {
		r.Println(output.FormatKeyValue("Load warnings", fmt.Sprintf("%d", out.Summary.LoadWarnings)))
	}
	r.Println("")

	// Health Checks
	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := strings.ToUpper(check.Status)
		r.Printf("- **[%s]** %s: %s", status, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	// Health Score
	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}
