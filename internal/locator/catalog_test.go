package locator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/recforge/internal/locator"
	"github.com/mrz1836/recforge/internal/recording"
)

func expressions(list []locator.Strategy) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.Expression)
	}
	return out
}

func assertWellFormed(t *testing.T, list []locator.Strategy) {
	t.Helper()
	require.NotEmpty(t, list)
	seen := make(map[string]bool, len(list))
	for i, s := range list {
		assert.False(t, seen[s.Expression], "duplicate expression %q", s.Expression)
		seen[s.Expression] = true
		if i > 0 {
			assert.Greater(t, s.Priority, list[i-1].Priority, "priority must rise at position %d", i)
		}
	}
	assert.Equal(t, locator.TypeXPath, list[len(list)-1].Type, "list must end with an xpath fallback")
}

func TestCandidatesFor_ObservedIDInput(t *testing.T) {
	attrs := locator.AttributesFromSelector("#user")
	list := locator.CandidatesFor("user", locator.KindInput, attrs)
	assertWellFormed(t, list)

	assert.Equal(t, []string{
		`[data-testid="user"]`,
		`#user`,
		`[name="user"]`,
		`input[type="text"][name*="user"]`,
		`input[autocomplete="username"]`,
		`//*[@id='user' or @name='user']`,
	}, expressions(list))
	assert.Equal(t, 100, list[0].Priority)
	assert.Equal(t, 200, list[1].Priority)
	assert.Equal(t, 300, list[2].Priority)
	assert.Equal(t, 301, list[3].Priority)
	assert.Equal(t, 1000, list[len(list)-1].Priority)
}

func TestCandidatesFor_SlugVariantsAtSameTier(t *testing.T) {
	list := locator.CandidatesFor("firstName", locator.KindInput, nil)
	assertWellFormed(t, list)

	var ids, names []locator.Strategy
	for _, s := range list {
		switch s.Type {
		case locator.TypeID:
			ids = append(ids, s)
		case locator.TypeName:
			names = append(names, s)
		}
	}
	assert.Equal(t, []string{"#firstname", "#first-name", "#first_name"}, expressions(ids))
	assert.Equal(t, []string{`[name="firstname"]`, `[name="first-name"]`, `[name="first_name"]`}, expressions(names))
	for _, s := range ids {
		assert.Equal(t, 2, s.Priority/100)
	}
}

func TestCandidatesFor_PasswordAutocompleteAfterTypeCSS(t *testing.T) {
	attrs := locator.Attributes{locator.AttrName: "pwd", locator.AttrPlaceholder: "Your password"}
	list := locator.CandidatesFor("password", locator.KindInput, attrs)
	assertWellFormed(t, list)

	exprs := expressions(list)
	typeIdx := indexOf(exprs, `input[type="password"]`)
	acIdx := indexOf(exprs, `input[autocomplete="current-password"]`)
	require.NotEqual(t, -1, typeIdx)
	assert.Equal(t, typeIdx+1, acIdx)
	assert.Greater(t, typeIdx, indexOf(exprs, `[name="password"]`))
	assert.Less(t, acIdx, indexOf(exprs, `[placeholder="Your password"]`))
	assert.Equal(t, indexOf(exprs, `[placeholder="Your password"]`)+1, indexOf(exprs, `[placeholder*="Your password"]`))
}

func TestCandidatesFor_ButtonText(t *testing.T) {
	attrs := locator.AttributesFromSelector(`button:has-text("Sign in")`)
	list := locator.CandidatesFor(locator.ElementName(attrs, 3), locator.KindButton, attrs)
	assertWellFormed(t, list)

	types := make([]locator.StrategyType, 0, len(list))
	for _, s := range list {
		types = append(types, s.Type)
	}
	assert.Contains(t, types, locator.TypeRoleName)
	assert.Contains(t, types, locator.TypeTextExact)
	assert.Contains(t, types, locator.TypeTextContains)
	assert.Less(t, indexOfType(list, locator.TypeRoleName), indexOfType(list, locator.TypeTextExact))
	assert.Less(t, indexOfType(list, locator.TypeTextExact), indexOfType(list, locator.TypeTextContains))

	role := list[indexOfType(list, locator.TypeRoleName)]
	assert.Equal(t, "button", role.Role)
	assert.Equal(t, `role=button[name="Sign in"]`, role.PlaywrightSelector())
}

func TestCandidatesFor_TextOnlyForButtonsAndLinks(t *testing.T) {
	attrs := locator.Attributes{locator.AttrText: "Search"}
	list := locator.CandidatesFor("search", locator.KindInput, attrs)
	assert.Equal(t, -1, indexOfType(list, locator.TypeTextExact))
	assert.Equal(t, -1, indexOfType(list, locator.TypeTextContains))
}

func TestCandidatesFor_DynamicClassRejected(t *testing.T) {
	tests := []struct {
		name  string
		class string
		want  bool
	}{
		{"stable", "btn-primary large", true},
		{"digit run", "item-20931", false},
		{"hex suffix", "card-3fa9c01b", false},
		{"styled components", "sc-bdVaJa", false},
		{"emotion", "css-1x2y3z", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list := locator.CandidatesFor("go", locator.KindButton, locator.Attributes{locator.AttrClass: tc.class})
			assertWellFormed(t, list)
			assert.Equal(t, tc.want, indexOfType(list, locator.TypeClassName) >= 0)
		})
	}
}

func TestForAction_DynamicClassNeverCandidate(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		token    string
	}{
		{"bare generated class", ".css-1a2b3c4d", "css-1a2b3c4d"},
		{"generated class on button", "button.css-1a2b3c4d.primary", "css-1a2b3c4d"},
		{"hashed ancestor", "div.card-3fa9c01b > a.more", "card-3fa9c01b"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			selector := tc.selector
			list := locator.ForAction(recording.Action{SequenceID: 1, Kind: recording.KindClick, Selector: &selector})
			assertWellFormed(t, list)
			for _, s := range list {
				assert.NotContains(t, s.Expression, tc.token, "%s candidate keeps the dynamic class", s.Type)
			}
		})
	}
}

func TestCandidatesFor_RawCSSBeforeXPath(t *testing.T) {
	attrs := locator.AttributesFromSelector("form.login > input[name='q']")
	list := locator.CandidatesFor(locator.ElementName(attrs, 1), locator.KindInput, attrs)
	assertWellFormed(t, list)

	raw := indexOf(expressions(list), "form.login > input[name='q']")
	require.NotEqual(t, -1, raw)
	assert.Equal(t, 900, list[raw].Priority)
	assert.Equal(t, locator.TypeRawCSS, list[raw].Type)
	assert.Equal(t, locator.TypeXPath, list[raw+1].Type)
}

func TestCandidatesFor_NothingKnownFallsBackToXPath(t *testing.T) {
	list := locator.CandidatesFor("", locator.KindLink, nil)
	require.Len(t, list, 1)
	assert.Equal(t, locator.TypeXPath, list[0].Type)
	assert.Equal(t, locator.QueryXPath, list[0].Query())
	assert.Equal(t, "(//*[self::a or @role='link'])[1]", list[0].Expression)
}

func TestCandidatesFor_Deterministic(t *testing.T) {
	inputs := []struct {
		name  string
		kind  locator.ElementKind
		attrs locator.Attributes
	}{
		{"email", locator.KindInput, locator.Attributes{locator.AttrType: "email", locator.AttrClass: "field"}},
		{"", locator.KindButton, nil},
		{"Checkout", locator.KindLink, locator.AttributesFromSelector(`a:has-text("Checkout")`)},
	}
	for _, in := range inputs {
		first := locator.CandidatesFor(in.name, in.kind, in.attrs)
		for range 5 {
			assert.Equal(t, first, locator.CandidatesFor(in.name, in.kind, in.attrs))
		}
		assert.Equal(t, locator.CacheKey(first), locator.CacheKey(locator.CandidatesFor(in.name, in.kind, in.attrs)))
	}
}

func TestCandidatesFor_QuotesInValues(t *testing.T) {
	attrs := locator.Attributes{locator.AttrText: `Say "it's ok"`}
	list := locator.CandidatesFor("say", locator.KindButton, attrs)
	exact := list[indexOfType(list, locator.TypeTextExact)]
	assert.Contains(t, exact.Expression, `concat('Say "it', "'", 's ok"')`)
}

func TestCacheKey_OrderSensitive(t *testing.T) {
	a := locator.Strategy{Expression: "#a"}
	b := locator.Strategy{Expression: "#b"}
	assert.NotEqual(t, locator.CacheKey([]locator.Strategy{a, b}), locator.CacheKey([]locator.Strategy{b, a}))
	assert.Empty(t, locator.CacheKey(nil))
}

func TestStrategy_PlaywrightSelector(t *testing.T) {
	tests := []struct {
		s    locator.Strategy
		want string
		q    locator.QueryKind
	}{
		{locator.Strategy{Type: locator.TypeID, Expression: "#user"}, "#user", locator.QueryCSS},
		{locator.Strategy{Type: locator.TypeXPath, Expression: "//a"}, "xpath=//a", locator.QueryXPath},
		{locator.Strategy{Type: locator.TypeTextExact, Expression: "//x", Value: "Go"}, `text="Go"`, locator.QueryXPath},
		{locator.Strategy{Type: locator.TypeTextContains, Expression: "//x", Value: "Go"}, "text=Go", locator.QueryXPath},
		{locator.Strategy{Type: locator.TypeRoleName, Role: "link", Value: `a"b`}, `role=link[name="a\"b"]`, locator.QueryXPath},
	}
	for _, tc := range tests {
		t.Run(string(tc.s.Type), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.s.PlaywrightSelector())
			assert.Equal(t, tc.q, tc.s.Query())
		})
	}
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

func indexOfType(list []locator.Strategy, t locator.StrategyType) int {
	for i, s := range list {
		if s.Type == t {
			return i
		}
	}
	return -1
}
