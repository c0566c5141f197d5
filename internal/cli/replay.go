package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mrz1836/recforge/internal/browser"
	"github.com/mrz1836/recforge/internal/config"
	"github.com/mrz1836/recforge/internal/recording"
	"github.com/mrz1836/recforge/internal/replay"
	"github.com/mrz1836/recforge/internal/resolver"
	"github.com/mrz1836/recforge/internal/tui"
)

// ReplayFlags holds flags specific to the replay command.
type ReplayFlags struct {
	BaseURL           string
	ControlURL        string
	Headed            bool
	KeepGoing         bool
	ProbeTimeout      time.Duration
	NavigationTimeout time.Duration
}

// replayBrowser is everything replay needs from a live browser.
type replayBrowser interface {
	resolver.Browser
	replay.Navigator
	Close() error
}

// browserLauncher starts the browser a replay runs against.
type browserLauncher func(ctx context.Context, opts browser.Options, logger zerolog.Logger) (replayBrowser, error)

func launchRod(ctx context.Context, opts browser.Options, logger zerolog.Logger) (replayBrowser, error) {
	b, err := browser.Launch(ctx, opts, logger)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// AddReplayCommand adds the replay command to the root command.
func AddReplayCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &ReplayFlags{}

	cmd := &cobra.Command{
		Use:   "replay <recording>",
		Short: "Replay a recording in Chromium using self-healing locators",
		Long: `Replay drives a real Chromium through every recorded action. Each element is
found through its ranked fallback locators, so the report shows which strategy
resolved it and which steps no longer resolve at all.

Examples:
  recforge replay login.txt --base-url https://staging.example.com
  recforge replay login.txt --headed --keep-going`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())
			cfg, err := loadConfig(ctx, flags.overrides())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("headed") {
				cfg.Browser.Headless = !flags.Headed
			}
			out := tui.NewOutput(cmd.OutOrStdout(), global.Output)
			return runReplay(ctx, out, global.Output, afero.NewOsFs(), launchRod, cfg, flags, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.BaseURL, "base-url", "", "resolve relative navigations against this URL")
	f.StringVar(&flags.ControlURL, "control-url", "", "attach to a running browser's DevTools URL instead of launching one")
	f.BoolVar(&flags.Headed, "headed", false, "show the browser window")
	f.BoolVar(&flags.KeepGoing, "keep-going", false, "continue after a failed step")
	f.DurationVar(&flags.ProbeTimeout, "probe-timeout", 0, "visibility wait per locator strategy")
	f.DurationVar(&flags.NavigationTimeout, "nav-timeout", 0, "page load timeout")

	root.AddCommand(cmd)
}

func (f *ReplayFlags) overrides() *config.Config {
	return &config.Config{
		Resolver: config.ResolverConfig{ProbeTimeout: f.ProbeTimeout},
		Browser: config.BrowserConfig{
			BaseURL:           f.BaseURL,
			ControlURL:        f.ControlURL,
			NavigationTimeout: f.NavigationTimeout,
		},
	}
}

func runReplay(ctx context.Context, out tui.Output, format string, fs afero.Fs, launch browserLauncher,
	cfg *config.Config, flags *ReplayFlags, path string,
) error {
	logger := zerolog.Ctx(ctx).With().Str("component", "replay").Str("recording", path).Logger()

	parsed, err := recording.ParseFile(ctx, fs, path)
	if err != nil {
		return err
	}
	if format != OutputJSON {
		for _, w := range parsed.Warnings {
			out.Warning(formatWarning(path, w))
		}
	}

	b, err := launch(ctx, browser.Options{
		Headless:          cfg.Browser.Headless,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
		ControlURL:        cfg.Browser.ControlURL,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close browser")
		}
	}()

	res := resolver.New(b, resolver.NewCache(cfg.Resolver.CacheSize),
		resolver.WithProbeTimeout(cfg.Resolver.ProbeTimeout),
		resolver.WithLogger(logger),
	)
	runner := replay.New(b, res,
		replay.WithBaseURL(cfg.Browser.BaseURL),
		replay.WithKeepGoing(flags.KeepGoing),
		replay.WithLogger(logger),
	)

	report, runErr := runner.Run(ctx, parsed.Actions)
	if err := reportReplay(out, format, report); err != nil {
		return err
	}
	return runErr
}

func reportReplay(out tui.Output, format string, report *replay.Report) error {
	if format == OutputJSON {
		return out.JSON(report)
	}

	for _, s := range report.Steps {
		line := fmt.Sprintf("%d. %s", s.Action.SequenceID, describeStep(s))
		if !s.OK() {
			out.Error(fmt.Errorf("%s: %w", line, s.Err))
			continue
		}
		out.Success(line)
	}
	summary := fmt.Sprintf("%d passed, %d failed, %d skipped in %s",
		report.Passed, report.Failed, report.Skipped, report.Elapsed.Round(time.Millisecond))
	if report.Failed > 0 {
		out.Warning(summary)
		return nil
	}
	out.Info(summary)
	return nil
}

func describeStep(s replay.StepResult) string {
	a := s.Action
	if a.Kind == recording.KindNavigate {
		return fmt.Sprintf("navigate %s", s.URL)
	}
	desc := fmt.Sprintf("%s %s", a.Kind, a.SelectorText())
	if s.Strategy == nil {
		return desc
	}
	via := s.Strategy.String()
	if s.FromCache {
		via += ", cached"
	}
	return fmt.Sprintf("%s via %s (%s)", desc, via, s.Elapsed.Round(time.Millisecond))
}
