package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mrz1836/recforge/internal/errors"
	"github.com/mrz1836/recforge/internal/locator"
	"github.com/mrz1836/recforge/internal/recording"
	"github.com/mrz1836/recforge/internal/tui"
)

// CandidatesFlags holds flags specific to the candidates command.
type CandidatesFlags struct {
	Action    string
	Recording string
}

// elementCandidates is the fallback list for one recorded element.
type elementCandidates struct {
	SequenceID int                `json:"sequence_id"`
	Kind       recording.Kind     `json:"kind"`
	Selector   string             `json:"selector"`
	Element    string             `json:"element"`
	Strategies []locator.Strategy `json:"strategies"`
}

// AddCandidatesCommand adds the candidates command to the root command.
func AddCandidatesCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &CandidatesFlags{}

	cmd := &cobra.Command{
		Use:   "candidates [selector]",
		Short: "List the ranked fallback locators for a selector or recording",
		Long: `Candidates shows the locator strategies generated code and replay try,
in priority order, for a single recorded selector or every element of a recording.

Examples:
  recforge candidates '#username' --action fill
  recforge candidates 'role=button[name="Sign in"]'
  recforge candidates --recording login.txt --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())
			out := tui.NewOutput(cmd.OutOrStdout(), global.Output)
			return runCandidates(ctx, cmd, out, global.Output, afero.NewOsFs(), flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.Action, "action", "a", string(recording.KindClick), "action kind the selector was recorded with")
	cmd.Flags().StringVarP(&flags.Recording, "recording", "r", "", "list candidates for every element of this recording")

	root.AddCommand(cmd)
}

func runCandidates(ctx context.Context, cmd *cobra.Command, out tui.Output, format string, fs afero.Fs,
	flags *CandidatesFlags, args []string,
) error {
	var elements []elementCandidates
	switch {
	case flags.Recording != "" && len(args) > 0:
		return errors.NewExitCode2Error(
			errors.Wrap(errors.ErrConflictingFlags, "pass a selector or --recording, not both"))
	case flags.Recording != "":
		parsed, err := recording.ParseFile(ctx, fs, flags.Recording)
		if err != nil {
			return err
		}
		for _, a := range parsed.Actions {
			if a.HasSelector() {
				elements = append(elements, candidatesFor(a))
			}
		}
	case len(args) == 1:
		kind := recording.Kind(flags.Action)
		if kind == recording.KindNavigate || !slices.Contains(recording.Kinds(), kind) {
			return errors.NewExitCode2Error(
				errors.Wrapf(errors.ErrInvalidArgument, "--action must be one of click, fill, select, check, press; got %q", flags.Action))
		}
		selector := args[0]
		elements = append(elements, candidatesFor(recording.Action{SequenceID: 1, Kind: kind, Selector: &selector}))
	default:
		return errors.NewExitCode2Error(
			errors.Wrap(errors.ErrInvalidArgument, "pass a selector or --recording"))
	}

	if format == OutputJSON {
		return out.JSON(elements)
	}
	for i, el := range elements {
		if i > 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
		}
		out.Info(fmt.Sprintf("%d. %s %s  (%s)", el.SequenceID, el.Kind, el.Selector, el.Element))
		table := tui.NewTable(cmd.OutOrStdout(), []tui.TableColumn{
			{Name: "PRI", Width: 5},
			{Name: "TYPE", Width: 20},
			{Name: "STABLE", Width: 6},
			{Name: "SELECTOR"},
		})
		table.WriteHeader()
		for _, s := range el.Strategies {
			table.WriteRow(strconv.Itoa(s.Priority), string(s.Type), strconv.FormatBool(s.Stable), s.PlaywrightSelector())
		}
	}
	return nil
}

func candidatesFor(a recording.Action) elementCandidates {
	attrs := locator.AttributesFromSelector(a.SelectorText())
	return elementCandidates{
		SequenceID: a.SequenceID,
		Kind:       a.Kind,
		Selector:   a.SelectorText(),
		Element:    locator.ElementName(attrs, a.SequenceID),
		Strategies: locator.ForAction(a),
	}
}
