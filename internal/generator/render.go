package generator

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	rferrors "github.com/mrz1836/recforge/internal/errors"
)

//go:embed templates/java/*.tmpl
var templateFS embed.FS

// Entry points defined by the embedded templates.
const (
	tmplPage          = "page"
	tmplPageConstants = "page.constants"
	tmplPageMethods   = "page.methods"
	tmplFeature       = "feature"
	tmplScenario      = "feature.scenario"
	tmplSteps         = "steps"
	tmplStepMethods   = "steps.methods"
	templatesPattern  = "templates/java/*.tmpl"
)

// templates is parsed once at package load; a parse failure is a build bug.
//
//nolint:gochecknoglobals // parsed embedded templates, read-only after init
var templates = template.Must(template.New("artifacts").Funcs(funcMap()).ParseFS(templateFS, templatesPattern))

func funcMap() template.FuncMap {
	return template.FuncMap{
		"escape":   Escape,
		"stepLine": stepLine,
	}
}

// ArtifactSet is the output of one generation run. Its three sources are
// always produced together.
type ArtifactSet struct {
	ClassName       string
	PageObject      string
	Feature         string
	StepDefinitions string
	Plan            *Plan
}

// Render produces all three artifacts from plan.
func Render(plan *Plan) (*ArtifactSet, error) {
	page, err := execute(tmplPage, plan)
	if err != nil {
		return nil, err
	}
	feature, err := execute(tmplFeature, plan)
	if err != nil {
		return nil, err
	}
	steps, err := execute(tmplSteps, plan)
	if err != nil {
		return nil, err
	}
	return &ArtifactSet{
		ClassName:       plan.ClassName,
		PageObject:      page,
		Feature:         feature,
		StepDefinitions: steps,
		Plan:            plan,
	}, nil
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", rferrors.ErrTemplateExecution, name, err)
	}
	return buf.String(), nil
}

// spliceBeforeClose inserts fragment before the last closing brace of a
// class source.
func spliceBeforeClose(src, fragment string) (string, error) {
	i := strings.LastIndex(src, "}")
	if i < 0 {
		return "", fmt.Errorf("%w: no class body to merge into", rferrors.ErrGeneration)
	}
	return strings.TrimRight(src[:i], " \t\r\n") + fragment + "\n}\n", nil
}
