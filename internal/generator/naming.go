// Package generator turns parsed recordings into a page object, a Gherkin
// feature and a step-definition class that reference each other by name.
//
// All three artifacts are rendered from one Plan, so a method that appears in
// the page object is always bound by exactly one step in the same run.
package generator

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/recforge/internal/constants"
	"github.com/mrz1836/recforge/internal/locator"
)

//nolint:gochecknoglobals // immutable replacer and patterns
var (
	escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

	elementConstRe  = regexp.MustCompile(regexp.QuoteMeta(constants.ElementConstPrefix) + `(\d+)\b`)
	elementMethodRe = regexp.MustCompile(`\b(?:click|fill|select|check|pressKey)Element(\d+)\s*\(`)
	pagePathRe      = regexp.MustCompile(`\bPAGE_PATH\s*=\s*"((?:[^"\\]|\\.)*)"`)
	unescaper       = strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\n`, "\n", `\r`, "\r", `\t`, "\t")
)

// Escape makes s safe inside a double-quoted string literal of any generated
// artifact. It is the only escaping function used by the templates.
func Escape(s string) string {
	return escaper.Replace(s)
}

// ClassName upper-cases the first letter of featureName. Nothing else is
// normalized; invalid names are the caller's problem.
func ClassName(featureName string) string {
	r, size := utf8.DecodeRuneInString(featureName)
	if r == utf8.RuneError {
		return featureName
	}
	return string(unicode.ToUpper(r)) + featureName[size:]
}

// FeatureTitle renders featureName as a title ("userLogin" -> "User Login").
func FeatureTitle(featureName string) string {
	words := locator.Words(featureName)
	if len(words) == 0 {
		return ClassName(featureName)
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// StepMethodName derives a step-definition method name from a Cucumber
// expression ("user clicks on element 3" -> "userClicksOnElement3").
func StepMethodName(stepText string) string {
	fields := strings.Fields(strings.ReplaceAll(stepText, "{string}", ""))
	var b strings.Builder
	for i, f := range fields {
		if i == 0 {
			b.WriteString(strings.ToLower(f))
			continue
		}
		b.WriteString(ClassName(f))
	}
	return b.String()
}

// PagePathOf returns the PAGE_PATH constant a generated page object declares.
func PagePathOf(pageObject string) (string, bool) {
	m := pagePathRe.FindStringSubmatch(pageObject)
	if m == nil {
		return "", false
	}
	return unescaper.Replace(m[1]), true
}

// NextElementIndex returns the highest ELEMENT_<n> in existing plus one, or 1
// when there is none. Merges number new constants from here so earlier
// constants are never shadowed.
func NextElementIndex(existing string) int {
	return highest(elementConstRe, existing) + 1
}

// NextSequenceID returns the highest sequence number used by an element method
// in existing plus one, or 1 when there is none.
func NextSequenceID(existing string) int {
	return highest(elementMethodRe, existing) + 1
}

func highest(re *regexp.Regexp, src string) int {
	maxN := 0
	for _, m := range re.FindAllStringSubmatch(src, -1) {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > maxN {
			maxN = n
		}
	}
	return maxN
}
