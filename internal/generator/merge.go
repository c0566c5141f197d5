package generator

import (
	"strings"

	"github.com/mrz1836/recforge/internal/recording"
)

const cucumberImportPrefix = "import io.cucumber.java.en."

// Existing holds the current sources of an artifact set that new actions are
// merged into. Empty fields mean the file does not exist yet.
type Existing struct {
	PageObject      string
	Feature         string
	StepDefinitions string
}

// Empty reports whether there is no page object to merge into.
func (e Existing) Empty() bool {
	return strings.TrimSpace(e.PageObject) == ""
}

// MergeOptions numbers new constants and methods after the ones existing
// already declares, and skips re-binding the opening step when it is bound.
func MergeOptions(existing Existing, opts Options) Options {
	opts.StartIndex = NextElementIndex(existing.PageObject)
	opts.SequenceOffset = NextSequenceID(existing.PageObject) - 1
	opts.OmitOpening = strings.Contains(existing.StepDefinitions, `"`+recording.NavigateStepText+`"`)
	if path, ok := PagePathOf(existing.PageObject); ok {
		opts.ExistingPagePath = &path
	}
	return opts
}

// RenderMerged renders plan as additions to existing: constants and methods
// are appended to the page object, a new scenario to the feature and new
// bindings to the step class. Missing files are rendered whole.
func RenderMerged(plan *Plan, existing Existing) (*ArtifactSet, error) {
	full, err := Render(plan)
	if err != nil {
		return nil, err
	}
	if existing.Empty() {
		return full, nil
	}

	constantsSrc, err := execute(tmplPageConstants, plan)
	if err != nil {
		return nil, err
	}
	methodsSrc, err := execute(tmplPageMethods, plan)
	if err != nil {
		return nil, err
	}
	if full.PageObject, err = spliceBeforeClose(existing.PageObject, constantsSrc+methodsSrc); err != nil {
		return nil, err
	}

	if strings.TrimSpace(existing.Feature) != "" {
		scenario, err := execute(tmplScenario, plan)
		if err != nil {
			return nil, err
		}
		full.Feature = strings.TrimRight(existing.Feature, " \t\r\n") + "\n" + scenario + "\n"
	}

	if strings.TrimSpace(existing.StepDefinitions) != "" {
		bindings, err := execute(tmplStepMethods, plan)
		if err != nil {
			return nil, err
		}
		src := addCucumberImports(existing.StepDefinitions, plan.Keywords)
		if full.StepDefinitions, err = spliceBeforeClose(src, bindings); err != nil {
			return nil, err
		}
	}
	return full, nil
}

// addCucumberImports adds keyword annotation imports missing from src, after
// the last existing cucumber import or else after the package clause.
func addCucumberImports(src string, keywords []string) string {
	var missing []string
	for _, kw := range keywords {
		line := cucumberImportPrefix + kw + ";"
		if !strings.Contains(src, line) {
			missing = append(missing, line)
		}
	}
	if len(missing) == 0 {
		return src
	}

	lines := strings.Split(src, "\n")
	at := -1
	for i, l := range lines {
		trimmed := strings.TrimSpace(l)
		if strings.HasPrefix(trimmed, cucumberImportPrefix) || (at < 0 && strings.HasPrefix(trimmed, "package ")) {
			at = i
		}
	}
	out := make([]string, 0, len(lines)+len(missing))
	out = append(out, lines[:at+1]...)
	out = append(out, missing...)
	out = append(out, lines[at+1:]...)
	return strings.Join(out, "\n")
}
