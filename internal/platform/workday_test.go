package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirehand/formfill/internal/types"
)

func TestWorkdayFill_PersonalSection(t *testing.T) {
	page := memPage(t, `
		<div data-automation-id="pageHeader">My Information</div>
		<input data-automation-id="legalNameSection_firstName" type="text">
		<input data-automation-id="legalNameSection_lastName" type="text">`,
		"https://acme.wd5.myworkdayjobs.com/careers/job/apply/myInformation")
	adapter := NewWorkday(page, fastConfig(), nil)

	result := adapter.Fill(testProfile())
	assert.True(t, result.Success)
	assert.True(t, result.Filled("first_name"))
	assert.True(t, result.Filled("last_name"))

	first, err := page.Query(`input[data-automation-id="legalNameSection_firstName"]`)
	require.NoError(t, err)
	v, err := first.Value()
	require.NoError(t, err)
	assert.Equal(t, "Jane", v)
}

func TestWorkdayFill_ContactSection(t *testing.T) {
	page := memPage(t, `
		<div data-automation-id="pageHeader">Contact Information</div>
		<input data-automation-id="email" type="text">
		<input data-automation-id="phone-number" type="text">
		<input data-automation-id="addressSection_city" type="text">`,
		"https://acme.wd5.myworkdayjobs.com/careers/job/apply/contactInformation")
	adapter := NewWorkday(page, fastConfig(), nil)

	result := adapter.Fill(testProfile())
	assert.True(t, result.Filled("email"))
	assert.True(t, result.Filled("phone"))
	assert.True(t, result.Filled("city"))
}

func TestWorkdayFill_ResumeSection(t *testing.T) {
	page := memPage(t, `
		<div data-automation-id="pageHeader">Resume/CV</div>
		<button data-automation-id="autofillWithResume">Autofill with Resume</button>
		<input data-automation-id="file-upload-input-ref" type="file">`,
		"https://acme.wd5.myworkdayjobs.com/careers/job/apply/resume")
	adapter := NewWorkday(page, fastConfig(), nil)

	result := adapter.Fill(testProfile())
	assert.True(t, result.Success)
	assert.True(t, result.Filled("resume"))

	// The autofill affordance is surfaced but never clicked.
	button, err := page.Query(`button[data-automation-id="autofillWithResume"]`)
	require.NoError(t, err)
	assert.Zero(t, page.ClickCount(button))

	found := false
	for _, e := range result.Errors {
		if e.Type == types.ErrorUpload && e.Field == "resume_import" {
			found = true
		}
	}
	assert.True(t, found, "import affordance recorded as a soft outcome")

	input, err := page.Query(`input[type="file"]`)
	require.NoError(t, err)
	uploaded, ok := page.Uploaded(input)
	require.True(t, ok)
	assert.Equal(t, "jane-doe.pdf", uploaded.Name)
}

func TestWorkdayFill_QuestionsSection(t *testing.T) {
	page := memPage(t, `
		<div data-automation-id="pageHeader">Application Questions</div>
		<div data-automation-id="formField-sponsorship">
			<label>Will you now or in the future require sponsorship?</label>
			<input type="radio" name="sponsor" value="Yes" id="s-yes">
			<input type="radio" name="sponsor" value="No" id="s-no">
		</div>
		<div data-automation-id="formField-experience">
			<label>How many years of professional experience do you have?</label>
			<select>
				<option value="">Select One</option>
				<option value="junior">Less than 3 years</option>
				<option value="mid">3-5 years</option>
			</select>
		</div>`,
		"https://acme.wd5.myworkdayjobs.com/careers/job/apply/questions")
	adapter := NewWorkday(page, fastConfig(), nil)

	result := adapter.Fill(testProfile())
	assert.True(t, result.Success)
	assert.Len(t, result.FilledFields, 2)

	// Sponsorship is false on the profile, so the No radio is picked.
	no, err := page.Query("#s-no")
	require.NoError(t, err)
	checked, err := no.Checked()
	require.NoError(t, err)
	assert.True(t, checked)

	sel, err := page.Query("select")
	require.NoError(t, err)
	v, err := sel.Value()
	require.NoError(t, err)
	assert.Equal(t, "mid", v, "4 years lands in the 3-5 bucket")
}

func TestWorkdayFill_UnknownSectionBestEffort(t *testing.T) {
	page := memPage(t, `
		<input data-automation-id="legalNameSection_firstName" type="text">
		<input data-automation-id="email" type="text">`,
		"https://acme.wd5.myworkdayjobs.com/careers/step7")
	adapter := NewWorkday(page, fastConfig(), nil)

	result := adapter.Fill(testProfile())
	assert.True(t, result.Success)
	assert.True(t, result.Filled("first_name"), "unknown pages get a best-effort pass")
	assert.True(t, result.Filled("email"))
}

func TestWorkdayExtractJobDetails(t *testing.T) {
	page := memPage(t, `
		<h2 data-automation-id="jobPostingHeader">Staff Engineer</h2>
		<dl data-automation-id="locations"><dt>locations</dt><dd>Austin, TX</dd></dl>
		<dl data-automation-id="postedOn"><dt>posted on</dt><dd>Posted 3 Days Ago</dd></dl>
		<dl data-automation-id="time"><dt>time type</dt><dd>Full time</dd></dl>
		<div data-automation-id="jobPostingDescription">Build things.</div>`,
		"https://acme.wd5.myworkdayjobs.com/en-US/careers/job/Staff-Engineer_R123")
	adapter := NewWorkday(page, fastConfig(), nil)

	details, err := adapter.ExtractJobDetails()
	require.NoError(t, err)

	assert.Equal(t, "Staff Engineer", details.Title)
	assert.Equal(t, "acme", details.Company)
	assert.Equal(t, "Austin, TX", details.Location)
	assert.Equal(t, "Posted 3 Days Ago", details.PostedDate)
	assert.Equal(t, "Full time", details.JobType)
	assert.Equal(t, "Build things.", details.Description)
}
