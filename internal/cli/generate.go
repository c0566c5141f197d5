package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/recforge/internal/config"
	"github.com/mrz1836/recforge/internal/errors"
	"github.com/mrz1836/recforge/internal/generator"
	"github.com/mrz1836/recforge/internal/locator"
	"github.com/mrz1836/recforge/internal/recording"
	"github.com/mrz1836/recforge/internal/tui"
)

// GenerateFlags holds flags specific to the generate command.
type GenerateFlags struct {
	Feature      string
	PagePath     string
	StoryID      string
	Scenario     string
	Merge        bool
	DryRun       bool
	PagesDir     string
	FeaturesDir  string
	StepsDir     string
	PagesPackage string
	StepsPackage string
	Concurrency  int
}

// featurePrompter asks for a feature name, suggesting def.
type featurePrompter func(def string) (string, error)

// generateEnv carries the collaborators runGenerate needs, so tests can swap them.
type generateEnv struct {
	fs     afero.Fs
	out    tui.Output
	w      io.Writer
	format string
	prompt featurePrompter
	runID  string
}

// AddGenerateCommand adds the generate command to the root command.
func AddGenerateCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &GenerateFlags{}

	cmd := &cobra.Command{
		Use:   "generate <recording>...",
		Short: "Generate a page object, feature file and step definitions from recordings",
		Long: `Generate turns each recording into three artifacts:

  <pages_dir>/<Class>.java          page object with fallback locators
  <features_dir>/<Class>.feature    Cucumber scenario
  <steps_dir>/<Class>Steps.java     step definitions

With one recording the class is named after --feature (prompted for on a
terminal when omitted). With several recordings each is named after its file
and they are generated concurrently.

Examples:
  recforge generate login.txt --feature login --story AUTH-12
  recforge generate recordings/*.txt --concurrency 8
  recforge generate checkout.txt --feature login --merge`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())
			cfg, err := loadConfig(ctx, flags.overrides())
			if err != nil {
				return err
			}
			env := &generateEnv{
				fs:     afero.NewOsFs(),
				out:    tui.NewOutput(cmd.OutOrStdout(), global.Output),
				w:      cmd.OutOrStdout(),
				format: global.Output,
				prompt: promptFeatureName,
				runID:  uuid.NewString(),
			}
			return runGenerate(ctx, env, cfg, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.Feature, "feature", "f", "", "feature name; the class is named after it")
	f.StringVar(&flags.PagePath, "page-path", "", "path the page object navigates to (default: first recorded URL)")
	f.StringVar(&flags.StoryID, "story", "", "story id tagged on the scenario, e.g. AUTH-12")
	f.StringVar(&flags.Scenario, "scenario", "", "scenario name (default: the feature title)")
	f.BoolVar(&flags.Merge, "merge", false, "append to existing artifacts for the same class instead of replacing them")
	f.BoolVar(&flags.DryRun, "dry-run", false, "print the artifacts instead of writing them")
	f.StringVar(&flags.PagesDir, "pages-dir", "", "directory for page objects")
	f.StringVar(&flags.FeaturesDir, "features-dir", "", "directory for feature files")
	f.StringVar(&flags.StepsDir, "steps-dir", "", "directory for step definitions")
	f.StringVar(&flags.PagesPackage, "pages-package", "", "Java package of page objects")
	f.StringVar(&flags.StepsPackage, "steps-package", "", "Java package of step definitions")
	f.IntVarP(&flags.Concurrency, "concurrency", "j", 0, "recordings generated in parallel")

	root.AddCommand(cmd)
}

func (f *GenerateFlags) overrides() *config.Config {
	return &config.Config{
		Output: config.OutputConfig{
			PagesDir:     f.PagesDir,
			FeaturesDir:  f.FeaturesDir,
			StepsDir:     f.StepsDir,
			PagesPackage: f.PagesPackage,
			StepsPackage: f.StepsPackage,
		},
		Generate: config.GenerateConfig{
			Concurrency: f.Concurrency,
			StoryID:     f.StoryID,
		},
	}
}

// generateJob is one recording and the feature it becomes.
type generateJob struct {
	path    string
	feature string
}

// generateResult reports one generated recording.
type generateResult struct {
	Recording string              `json:"recording"`
	Feature   string              `json:"feature"`
	ClassName string              `json:"class_name"`
	Actions   int                 `json:"actions"`
	Merged    bool                `json:"merged"`
	Paths     *generator.Paths    `json:"paths,omitempty"`
	Warnings  []recording.Warning `json:"warnings,omitempty"`
	Error     string              `json:"error,omitempty"`

	set *generator.ArtifactSet
	err error
}

// generateReport is the JSON form of a generate run.
type generateReport struct {
	RunID   string            `json:"run_id"`
	DryRun  bool              `json:"dry_run"`
	Results []*generateResult `json:"results"`
}

func runGenerate(ctx context.Context, env *generateEnv, cfg *config.Config, flags *GenerateFlags, paths []string) error {
	logger := zerolog.Ctx(ctx).With().Str("component", "generate").Str("run_id", env.runID).Logger()
	ctx = logger.WithContext(ctx)

	jobs, err := planJobs(flags, paths, env.prompt)
	if err != nil {
		return err
	}

	layout := generator.Layout{
		PagesDir:    cfg.Output.PagesDir,
		FeaturesDir: cfg.Output.FeaturesDir,
		StepsDir:    cfg.Output.StepsDir,
	}
	if !flags.DryRun {
		if err := layout.EnsureDirs(env.fs); err != nil {
			return errors.Wrapf(errors.ErrGeneration, "prepare output directories: %v", err)
		}
	}
	opts := generator.Options{
		PagesPackage:   cfg.Output.PagesPackage,
		StepsPackage:   cfg.Output.StepsPackage,
		SupportPackage: cfg.Output.SupportPackage,
	}
	writer := generator.NewWriter(env.fs, layout, logger)

	logger.Info().Int("recordings", len(jobs)).Int("concurrency", cfg.Generate.Concurrency).Msg("generation started")

	results := make([]*generateResult, len(jobs))
	var g errgroup.Group
	g.SetLimit(cfg.Generate.Concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			res := generateOne(ctx, env.fs, layout, writer, job, generator.Request{
				FeatureName:  job.feature,
				PagePath:     flags.PagePath,
				StoryID:      cfg.Generate.StoryID,
				ScenarioName: flags.Scenario,
			}, opts, flags)
			results[i] = res
			return res.err
		})
	}
	runErr := g.Wait()

	if err := reportGenerate(env, flags.DryRun, results); err != nil {
		return err
	}
	if runErr != nil && len(jobs) > 1 {
		return fmt.Errorf("%d of %d recordings failed: %w", countFailed(results), len(jobs), runErr)
	}
	return runErr
}

// planJobs names every recording and rejects batches two of which would
// write the same class.
func planJobs(flags *GenerateFlags, paths []string, prompt featurePrompter) ([]generateJob, error) {
	if len(paths) > 1 && flags.Feature != "" {
		return nil, errors.NewExitCode2Error(
			errors.Wrap(errors.ErrConflictingFlags, "--feature names a single recording; batches are named after their files"))
	}

	jobs := make([]generateJob, 0, len(paths))
	owners := make(map[string]string, len(paths))
	for _, path := range paths {
		feature := flags.Feature
		if feature == "" {
			derived := FeatureNameFromPath(path)
			if len(paths) == 1 {
				name, err := prompt(derived)
				if err != nil {
					return nil, errors.Wrap(err, "a feature name is required; pass --feature")
				}
				derived = name
			}
			feature = derived
		}
		if strings.TrimSpace(feature) == "" {
			return nil, errors.Wrapf(errors.ErrInvalidFeatureName, "cannot name %s", path)
		}

		class := generator.ClassName(feature)
		if prev, dup := owners[class]; dup {
			return nil, errors.Wrapf(errors.ErrInvalidArgument, "%s and %s both generate %s", prev, path, class)
		}
		owners[class] = path
		jobs = append(jobs, generateJob{path: path, feature: feature})
	}
	return jobs, nil
}

func generateOne(ctx context.Context, fs afero.Fs, layout generator.Layout, writer *generator.Writer,
	job generateJob, req generator.Request, opts generator.Options, flags *GenerateFlags,
) *generateResult {
	res := &generateResult{Recording: job.path, Feature: job.feature, ClassName: generator.ClassName(job.feature)}
	fail := func(err error) *generateResult {
		res.err = fmt.Errorf("%s: %w", job.path, err)
		res.Error = res.err.Error()
		return res
	}

	parsed, err := recording.ParseFile(ctx, fs, job.path)
	if err != nil {
		return fail(err)
	}
	res.Actions = len(parsed.Actions)
	res.Warnings = append(res.Warnings, parsed.Warnings...)
	req.Actions = parsed.Actions

	var existing generator.Existing
	if flags.Merge {
		if existing, err = layout.ReadExisting(fs, res.ClassName); err != nil {
			return fail(errors.Wrapf(errors.ErrGeneration, "read existing artifacts: %v", err))
		}
		res.Merged = !existing.Empty()
	}

	set, err := generator.GenerateMerged(ctx, req, opts, existing)
	if err != nil {
		return fail(err)
	}
	res.set = set
	res.Warnings = append(res.Warnings, set.Plan.Warnings...)

	if flags.DryRun {
		return res
	}
	written, err := writer.Write(ctx, set)
	if err != nil {
		return fail(err)
	}
	res.Paths = &written
	return res
}

func reportGenerate(env *generateEnv, dryRun bool, results []*generateResult) error {
	if env.format == OutputJSON {
		return env.out.JSON(generateReport{RunID: env.runID, DryRun: dryRun, Results: results})
	}

	for _, r := range results {
		if r == nil {
			continue
		}
		for _, w := range r.Warnings {
			env.out.Warning(formatWarning(r.Recording, w))
		}
		switch {
		case r.err != nil:
			env.out.Error(r.err)
		case dryRun:
			printArtifacts(env.w, r.set)
		default:
			verb := "generated"
			if r.Merged {
				verb = "merged"
			}
			env.out.Success(fmt.Sprintf("%s %s from %s (%d actions)", verb, r.ClassName, r.Recording, r.Actions))
			env.out.Info("  " + r.Paths.PageObject)
			env.out.Info("  " + r.Paths.Feature)
			env.out.Info("  " + r.Paths.StepDefinitions)
		}
	}
	return nil
}

func printArtifacts(w io.Writer, set *generator.ArtifactSet) {
	sections := []struct{ name, body string }{
		{set.ClassName + ".java", set.PageObject},
		{set.ClassName + ".feature", set.Feature},
		{set.ClassName + "Steps.java", set.StepDefinitions},
	}
	for _, s := range sections {
		_, _ = fmt.Fprintf(w, "// ===== %s =====\n%s\n", s.name, s.body)
	}
}

func formatWarning(path string, w recording.Warning) string {
	if w.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", path, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", path, w.Message)
}

func countFailed(results []*generateResult) int {
	n := 0
	for _, r := range results {
		if r != nil && r.err != nil {
			n++
		}
	}
	return n
}

// FeatureNameFromPath derives a lowerCamel feature name from a recording's
// file name: recordings/user-login.spec.txt becomes "userLogin".
func FeatureNameFromPath(path string) string {
	stem, _, _ := strings.Cut(filepath.Base(path), ".")
	words := locator.Words(stem)
	title := cases.Title(language.Und)
	for i := 1; i < len(words); i++ {
		words[i] = title.String(words[i])
	}
	return strings.Join(words, "")
}

// promptFeatureName asks for a feature name on a terminal.
func promptFeatureName(def string) (string, error) {
	return tui.InputWithValidation(
		"Feature name",
		"Names the generated page object, feature and steps classes.",
		def,
		func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.ErrInvalidFeatureName
			}
			return nil
		},
	)
}
