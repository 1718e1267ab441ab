package platform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hirehand/formfill/internal/classify"
	"github.com/hirehand/formfill/internal/dom"
	"github.com/hirehand/formfill/internal/types"
)

func memPage(t *testing.T, html, url string) *dom.MemoryPage {
	t.Helper()
	page, err := dom.NewMemoryPage(html, url)
	require.NoError(t, err)
	return page
}

// fastConfig keeps every bounded wait near-instant for tests.
func fastConfig() Config {
	return Config{
		LoadTimeout:    1,
		PollInterval:   1,
		OverlayTimeout: 1,
		DropdownSettle: 1,
		ParseSettle:    1,
	}
}

func intp(v int) *int { return &v }

func testProfile() *types.ProfileData {
	return &types.ProfileData{
		FirstName:         "Jane",
		LastName:          "Doe",
		Email:             "jane@example.com",
		Phone:             "555-0100",
		LinkedIn:          "https://linkedin.com/in/janedoe",
		GitHub:            "https://github.com/janedoe",
		CurrentCompany:    "Acme",
		City:              "Austin",
		State:             "TX",
		YearsExperience:   intp(4),
		WorkAuthorization: true,
		CoverLetter:       "I build reliable systems.",
		AnswerTemplates: types.AnswerTemplates{
			{Keyword: "hear about", Answer: "A former colleague referred me"},
		},
		Resume: &types.ResumeFile{FileName: "jane-doe.pdf", Data: []byte("pdf-bytes")},
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://jobs.lever.co/acme/123", "lever"},
		{"https://www.linkedin.com/jobs/view/456", "linkedin"},
		{"https://acme.wd5.myworkdayjobs.com/careers/job/789", "workday"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			page := memPage(t, "<body></body>", tt.url)
			adapter, err := Detect(page, fastConfig(), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, adapter.Name())
		})
	}
}

func TestDetect_Unsupported(t *testing.T) {
	page := memPage(t, "<body></body>", "https://careers.example.com/apply")
	_, err := Detect(page, fastConfig(), nil)

	var unsupported *UnsupportedPlatformError
	require.ErrorAs(t, err, &unsupported)
	assert.Contains(t, unsupported.Error(), "careers.example.com")
}

func TestConfigWithDefaults(t *testing.T) {
	defaults := leverDefaults
	cfg := Config{LoadTimeout: 42}.withDefaults(defaults)

	assert.Equal(t, int64(42), int64(cfg.LoadTimeout), "explicit value kept")
	assert.Equal(t, defaults.PollInterval, cfg.PollInterval, "zero fields take defaults")
	assert.Equal(t, defaults.DropdownSettle, cfg.DropdownSettle)
}

func testSession(t *testing.T, profile *types.ProfileData) *session {
	t.Helper()
	page := memPage(t, "<body></body>", "https://jobs.lever.co/acme/123")
	result := types.NewFillResult("lever", "run")
	return newSession(page, fastConfig(), profile, result, map[string]bool{}, zap.NewNop())
}

func TestDeriveAnswer_TemplateHitsAreTagged(t *testing.T) {
	s := testSession(t, testProfile())

	answer, _, category, ok := s.deriveAnswer(classify.HearAboutUs, "How did you hear about us?")
	require.True(t, ok)
	assert.Equal(t, "A former colleague referred me", answer)
	assert.Equal(t, classify.TemplateMatch, category)

	answer, _, category, ok = s.deriveAnswer(classify.Unclassified, "Where did you hear about this role?")
	require.True(t, ok)
	assert.Equal(t, "A former colleague referred me", answer)
	assert.Equal(t, classify.TemplateMatch, category)

	_, _, category, ok = s.deriveAnswer(classify.YearsExperience, "Years of experience?")
	require.True(t, ok)
	assert.Equal(t, classify.YearsExperience, category, "fixed categories pass through")

	_, _, category, ok = s.deriveAnswer(classify.Unclassified, "Favorite color?")
	assert.False(t, ok)
	assert.Equal(t, classify.Unclassified, category)
}

func TestDeriveAnswer_ZeroYearsIsAnswerable(t *testing.T) {
	profile := testProfile()
	profile.YearsExperience = intp(0)
	s := testSession(t, profile)

	answer, _, _, ok := s.deriveAnswer(classify.YearsExperience, "How many years of experience?")
	require.True(t, ok)
	assert.Equal(t, "0", answer)
}

func TestRecordedLabel(t *testing.T) {
	assert.Equal(t, "Do you agree", recordedLabel("  Do you \n\t agree  "))

	got := recordedLabel(strings.Repeat("a", maxRecordedLabel+10))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, []rune(got), maxRecordedLabel+3)
}

func TestGuard_ConvertsPanicToGeneralFailure(t *testing.T) {
	result := types.NewFillResult("lever", "run")

	func() {
		defer guard(result, zap.NewNop())()
		panic("selector engine exploded")
	}()

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, types.ErrorGeneral, result.Errors[0].Type)
	assert.Contains(t, result.Errors[0].Message, "selector engine exploded")
}
