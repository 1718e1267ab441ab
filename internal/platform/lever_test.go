package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirehand/formfill/internal/dom"
)

const leverPosting = `
<html><body>
<div class="posting-headline"><h2>Senior Backend Engineer</h2></div>
<div class="posting-categories">
	<div class="posting-category location">Austin, TX</div>
	<div class="posting-category commitment">Full-time</div>
</div>
<form>
	<input name="name" type="text">
	<input name="email" type="email">
	<input name="phone" type="tel">
	<input name="org" type="text">
	<input name="location" type="text">
	<input name="urls[LinkedIn]" type="url">
	<input name="urls[GitHub]" type="url">
	<input name="resume" type="file">
	<textarea name="comments"></textarea>
	<li class="application-question">
		<div class="application-label">How many years of experience do you have?</div>
		<select>
			<option value="">Select...</option>
			<option value="0-2">0-2 years</option>
			<option value="3-5">3-5 years</option>
			<option value="6+">6+ years</option>
		</select>
	</li>
	<li class="application-question">
		<div class="application-label">Are you legally authorized to work in the United States?</div>
		<input type="radio" name="q-auth" value="yes" id="auth-yes">
		<input type="radio" name="q-auth" value="no" id="auth-no">
	</li>
	<li class="application-question">
		<div class="application-label">How did you hear about this job?</div>
		<input type="text" name="q-referral">
	</li>
	<li class="application-question">
		<div class="application-label">Describe your proudest achievement</div>
		<input type="text" name="q-achievement">
	</li>
</form>
</body></html>`

func newLeverFixture(t *testing.T) (*Lever, *dom.MemoryPage) {
	t.Helper()
	page := memPage(t, leverPosting, "https://jobs.lever.co/acme/123")
	return NewLever(page, fastConfig(), nil), page
}

func TestLeverFill(t *testing.T) {
	adapter, page := newLeverFixture(t)
	result := adapter.Fill(testProfile())

	assert.True(t, result.Success)
	assert.Equal(t, "lever", result.Platform)
	assert.NotEmpty(t, result.RunID)

	valueOf := func(selector string) string {
		el, err := page.Query(selector)
		require.NoError(t, err)
		require.NotNil(t, el)
		v, err := el.Value()
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Jane Doe", valueOf(`input[name="name"]`))
	assert.Equal(t, "jane@example.com", valueOf(`input[name="email"]`))
	assert.Equal(t, "555-0100", valueOf(`input[name="phone"]`))
	assert.Equal(t, "Acme", valueOf(`input[name="org"]`))
	assert.Equal(t, "Austin, TX", valueOf(`input[name="location"]`))

	// Links fill the existing empty rows in profile order.
	assert.Equal(t, "https://linkedin.com/in/janedoe", valueOf(`input[name="urls[LinkedIn]"]`))
	assert.Equal(t, "https://github.com/janedoe", valueOf(`input[name="urls[GitHub]"]`))

	// Comments carry the cover letter.
	assert.Equal(t, "I build reliable systems.", valueOf(`textarea[name="comments"]`))

	// Resume bytes reached the file input.
	resumeInput, err := page.Query(`input[name="resume"]`)
	require.NoError(t, err)
	uploaded, ok := page.Uploaded(resumeInput)
	require.True(t, ok)
	assert.Equal(t, "jane-doe.pdf", uploaded.Name)
	assert.True(t, result.Filled("resume"))

	// Years question matched the 3-5 bucket via range parsing.
	assert.Equal(t, "3-5", valueOf(`li.application-question select`))

	// Authorization radio picked the yes option.
	yes, err := page.Query("#auth-yes")
	require.NoError(t, err)
	checked, err := yes.Checked()
	require.NoError(t, err)
	assert.True(t, checked)

	// Referral question answered from the template.
	assert.Equal(t, "A former colleague referred me", valueOf(`input[name="q-referral"]`))

	// Unclassifiable question with no template stays untouched.
	assert.Empty(t, valueOf(`input[name="q-achievement"]`))
}

func TestLeverFill_DispatchesHostNotifications(t *testing.T) {
	adapter, page := newLeverFixture(t)
	adapter.Fill(testProfile())

	name, err := page.Query(`input[name="name"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"input", "change", "blur"}, page.Events(name))
}

func TestLeverFill_Idempotent(t *testing.T) {
	adapter, page := newLeverFixture(t)

	first := adapter.Fill(testProfile())
	require.True(t, first.Success)
	require.NotEmpty(t, first.FilledFields)

	second := adapter.Fill(testProfile())
	assert.True(t, second.Success)
	assert.Empty(t, second.FilledFields, "a second pass writes nothing new")

	// The radio group was processed exactly once across both passes.
	yes, err := page.Query("#auth-yes")
	require.NoError(t, err)
	assert.Equal(t, 1, page.ClickCount(yes))
}

func TestLeverFill_NeverClobbersUserEdits(t *testing.T) {
	edited := `<form><input name="name" type="text" value="Janet Smith"><input name="email" type="email"></form>`
	page := memPage(t, edited, "https://jobs.lever.co/acme/123")
	adapter := NewLever(page, fastConfig(), nil)

	result := adapter.Fill(testProfile())
	assert.True(t, result.Success)
	assert.False(t, result.Filled("full_name"))

	name, err := page.Query(`input[name="name"]`)
	require.NoError(t, err)
	v, err := name.Value()
	require.NoError(t, err)
	assert.Equal(t, "Janet Smith", v)
	assert.True(t, result.Filled("email"), "other fields still fill")
}

func TestLeverFill_EmptyPageIsSuccessfulNoOp(t *testing.T) {
	page := memPage(t, `<html><body><p>Nothing here</p></body></html>`, "https://jobs.lever.co/acme/123")
	adapter := NewLever(page, fastConfig(), nil)

	result := adapter.Fill(testProfile())
	assert.True(t, result.Success, "zero matches is a valid outcome")
	assert.Empty(t, result.FilledFields)
	assert.Empty(t, result.Errors)
}

func TestLeverExtractJobDetails(t *testing.T) {
	adapter, _ := newLeverFixture(t)

	details, err := adapter.ExtractJobDetails()
	require.NoError(t, err)

	assert.Equal(t, "Senior Backend Engineer", details.Title)
	assert.Equal(t, "acme", details.Company)
	assert.Equal(t, "Austin, TX", details.Location)
	assert.Equal(t, "Full-time", details.JobType)
	assert.Equal(t, "https://jobs.lever.co/acme/123", details.URL)
}
