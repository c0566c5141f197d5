package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mrz1836/recforge/internal/constants"
	rferrors "github.com/mrz1836/recforge/internal/errors"
	"github.com/mrz1836/recforge/internal/locator"
	"github.com/mrz1836/recforge/internal/recording"
)

// WarnFoldedNavigation is reported for navigations after the first, and for a
// merged recording whose first navigation differs from the existing page path;
// every scenario opens with a single navigation step.
const WarnFoldedNavigation = "folded_navigation"

// Gherkin keywords used by generated steps.
const (
	KeywordGiven = "Given"
	KeywordWhen  = "When"
	KeywordAnd   = "And"
)

// Request describes one generation run.
type Request struct {
	Actions     []recording.Action
	FeatureName string
	// PagePath is the path the page object navigates to. When empty the
	// target of the first recorded navigation is used.
	PagePath string
	StoryID  string
	// ScenarioName defaults to the feature title.
	ScenarioName string
}

// Options tune plan construction.
type Options struct {
	// StartIndex is the first ELEMENT_<n> number. Zero means 1.
	StartIndex int
	// SequenceOffset is added to every action sequence id, so merged methods
	// do not collide with existing ones.
	SequenceOffset int
	// OmitOpening leaves the opening navigation step unbound because the
	// target step class already binds it.
	OmitOpening bool
	// ExistingPagePath is the PAGE_PATH of the page object being merged into.
	// The first navigation is folded with a warning when it targets anything
	// else, since the existing constant is kept.
	ExistingPagePath *string

	PagesPackage   string
	StepsPackage   string
	SupportPackage string
}

func (o Options) withDefaults() Options {
	if o.StartIndex <= 0 {
		o.StartIndex = 1
	}
	if o.PagesPackage == "" {
		o.PagesPackage = constants.DefaultPagesPackage
	}
	if o.StepsPackage == "" {
		o.StepsPackage = constants.DefaultStepsPackage
	}
	if o.SupportPackage == "" {
		o.SupportPackage = constants.DefaultSupportPackage
	}
	return o
}

// Constant is one ELEMENT_<n> locator constant with its fallback selectors.
type Constant struct {
	Name       string
	Index      int
	Kind       recording.Kind
	Selector   string
	Candidates []locator.Strategy
	// Selectors are the candidates rendered for the generated project.
	Selectors []string
}

// Method is one page-object method.
type Method struct {
	Name  string
	Kind  recording.Kind
	Const string
	Param string
	Call  string
}

// Step is one scenario line and, when Bound, its step-definition method.
type Step struct {
	SequenceID int
	Keyword    string
	Text       string
	Value      string
	HasArg     bool
	Method     string
	StepMethod string
	Param      string
	Arg        string
	Bound      bool
}

// Plan is the intermediate representation all three artifacts render from.
type Plan struct {
	ClassName      string
	FeatureTitle   string
	ScenarioName   string
	PagePath       string
	StoryID        string
	PagesPackage   string
	StepsPackage   string
	SupportPackage string
	NavigateMethod string

	Constants []Constant
	Methods   []Method
	Steps     []Step
	// Keywords are the distinct keywords of bound steps, sorted for imports.
	Keywords []string
	Warnings []recording.Warning
}

// BuildPlan lays out constants, methods and steps for req.
func BuildPlan(req Request, opts Options) (*Plan, error) {
	if strings.TrimSpace(req.FeatureName) == "" {
		return nil, rferrors.ErrInvalidFeatureName
	}
	opts = opts.withDefaults()

	p := &Plan{
		ClassName:      ClassName(req.FeatureName),
		FeatureTitle:   FeatureTitle(req.FeatureName),
		ScenarioName:   req.ScenarioName,
		PagePath:       req.PagePath,
		StoryID:        req.StoryID,
		PagesPackage:   opts.PagesPackage,
		StepsPackage:   opts.StepsPackage,
		SupportPackage: opts.SupportPackage,
		NavigateMethod: recording.NavigateMethodName,
	}
	if p.ScenarioName == "" {
		p.ScenarioName = p.FeatureTitle
	}

	p.Steps = append(p.Steps, Step{
		Keyword:    KeywordGiven,
		Text:       recording.NavigateStepText,
		Method:     recording.NavigateMethodName,
		StepMethod: StepMethodName(recording.NavigateStepText),
		Bound:      !opts.OmitOpening,
	})

	next := opts.StartIndex
	navigations := 0
	for _, a := range req.Actions {
		a.SequenceID += opts.SequenceOffset

		if a.Kind == recording.KindNavigate {
			navigations++
			if navigations == 1 {
				if p.PagePath == "" {
					p.PagePath = a.ValueText()
				}
				if kept := opts.ExistingPagePath; kept != nil && *kept != a.ValueText() {
					p.Warnings = append(p.Warnings, recording.Warning{
						Code:    WarnFoldedNavigation,
						Line:    a.Line,
						Message: fmt.Sprintf("navigation to %q folded into the existing page path %q", a.ValueText(), *kept),
					})
				}
				continue
			}
			p.Warnings = append(p.Warnings, recording.Warning{
				Code:    WarnFoldedNavigation,
				Line:    a.Line,
				Message: fmt.Sprintf("navigation to %q folded into the opening step", a.ValueText()),
			})
			continue
		}

		if !a.HasSelector() {
			return nil, rferrors.Wrapf(rferrors.ErrUnsupportedAction, "%s action %d has no selector", a.Kind, a.SequenceID)
		}
		c := newConstant(a, next)
		next++
		p.Constants = append(p.Constants, c)

		param, arg := "", ""
		if a.Kind.TakesValue() {
			param, arg = valueParam(a.Kind)
		}
		p.Methods = append(p.Methods, Method{
			Name:  a.MethodName(),
			Kind:  a.Kind,
			Const: c.Name,
			Param: param,
			Call:  callFor(a.Kind, arg),
		})
		p.Steps = append(p.Steps, Step{
			SequenceID: a.SequenceID,
			Keyword:    keywordFor(a.Kind),
			Text:       a.StepText(),
			Value:      a.ValueText(),
			HasArg:     a.Kind.TakesValue(),
			Method:     a.MethodName(),
			StepMethod: StepMethodName(a.StepText()),
			Param:      param,
			Arg:        arg,
			Bound:      true,
		})
	}

	p.Keywords = boundKeywords(p.Steps)
	return p, nil
}

func newConstant(a recording.Action, index int) Constant {
	cands := locator.ForAction(a)

	selectors := make([]string, 0, len(cands))
	for _, c := range cands {
		selectors = append(selectors, c.PlaywrightSelector())
	}
	return Constant{
		Name:       fmt.Sprintf("%s%d", constants.ElementConstPrefix, index),
		Index:      index,
		Kind:       a.Kind,
		Selector:   a.SelectorText(),
		Candidates: cands,
		Selectors:  selectors,
	}
}

func keywordFor(k recording.Kind) string {
	switch k {
	case recording.KindClick, recording.KindPressKey:
		return KeywordWhen
	case recording.KindNavigate:
		return KeywordGiven
	case recording.KindFill, recording.KindSelect, recording.KindCheck:
		return KeywordAnd
	}
	return KeywordAnd
}

func valueParam(k recording.Kind) (param, arg string) {
	if k == recording.KindPressKey {
		return "String key", "key"
	}
	return "String value", "value"
}

func callFor(k recording.Kind, arg string) string {
	switch k {
	case recording.KindClick:
		return "click()"
	case recording.KindFill:
		return "fill(" + arg + ")"
	case recording.KindSelect:
		return "selectOption(" + arg + ")"
	case recording.KindCheck:
		return "check()"
	case recording.KindPressKey:
		return "press(" + arg + ")"
	case recording.KindNavigate:
	}
	return ""
}

func boundKeywords(steps []Step) []string {
	seen := make(map[string]struct{}, 3)
	for _, s := range steps {
		if s.Bound {
			seen[s.Keyword] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// stepLine is the feature-file form of a step, with the recorded value
// substituted for its {string} parameter.
func stepLine(s Step) string {
	if !s.HasArg {
		return s.Text
	}
	return strings.Replace(s.Text, "{string}", `"`+Escape(s.Value)+`"`, 1)
}
