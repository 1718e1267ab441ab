package fill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirehand/formfill/internal/dom"
)

func mustPage(t *testing.T, src string) *dom.MemoryPage {
	t.Helper()
	page, err := dom.NewMemoryPage(src, "https://jobs.example.com/apply")
	require.NoError(t, err)
	return page
}

func mustQuery(t *testing.T, page *dom.MemoryPage, selector string) dom.Element {
	t.Helper()
	el, err := page.Query(selector)
	require.NoError(t, err)
	require.NotNil(t, el, "selector %s did not match", selector)
	return el
}

func TestFillText_DispatchesNotificationsInOrder(t *testing.T) {
	page := mustPage(t, `<input type="text" name="email">`)
	el := mustQuery(t, page, `input[name="email"]`)

	f := New(page, nil)
	require.NoError(t, f.FillText(el, "jane@example.com"))

	v, err := el.Value()
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", v)
	assert.Equal(t, []string{"input", "change", "blur"}, page.Events(el))
}

func TestFillTextIfEmpty(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		value     string
		wantWrote bool
		wantValue string
	}{
		{
			name:      "writes into empty input",
			html:      `<input type="text" name="city">`,
			value:     "Austin",
			wantWrote: true,
			wantValue: "Austin",
		},
		{
			name:      "never clobbers existing value",
			html:      `<input type="text" name="city" value="Boston">`,
			value:     "Austin",
			wantWrote: false,
			wantValue: "Boston",
		},
		{
			name:      "whitespace counts as empty",
			html:      `<input type="text" name="city" value="   ">`,
			value:     "Austin",
			wantWrote: true,
			wantValue: "Austin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := mustPage(t, tt.html)
			el := mustQuery(t, page, `input[name="city"]`)

			wrote, err := New(page, nil).FillTextIfEmpty(el, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWrote, wrote)

			v, err := el.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, v)
		})
	}
}

func TestFillSelect(t *testing.T) {
	const experienceSelect = `
		<select name="experience">
			<option value="">Select an option...</option>
			<option value="0-2">0-2 years</option>
			<option value="3-5">3-5 years</option>
			<option value="6+">6+ years</option>
		</select>`

	tests := []struct {
		name        string
		html        string
		value       string
		wantMatched bool
		wantValue   string
	}{
		{
			name: "tier 1 exact value match",
			html: `<select name="q"><option value="">Choose</option><option value="yes">Yes</option><option value="no">No</option></select>`,
			value:       "yes",
			wantMatched: true,
			wantValue:   "yes",
		},
		{
			name: "tier 1 exact text match case insensitive",
			html: `<select name="q"><option value="1">Yes</option><option value="2">No</option></select>`,
			value:       "YES",
			wantMatched: true,
			wantValue:   "1",
		},
		{
			name: "tier 2 substring match skips placeholder",
			html: `<select name="q"><option value="">Select a country...</option><option value="us">United States of America</option></select>`,
			value:       "United States",
			wantMatched: true,
			wantValue:   "us",
		},
		{
			name:        "tier 3 numeric range contains target",
			html:        experienceSelect,
			value:       "4",
			wantMatched: true,
			wantValue:   "3-5",
		},
		{
			name:        "tier 3 open ended range",
			html:        experienceSelect,
			value:       "8 years",
			wantMatched: true,
			wantValue:   "6+",
		},
		{
			name: "no tier matches",
			html: `<select name="q"><option value="">Select</option><option value="a">Alpha</option></select>`,
			value:       "Zulu",
			wantMatched: false,
			wantValue:   "",
		},
		{
			name:        "empty value is a no-op",
			html:        experienceSelect,
			value:       "  ",
			wantMatched: false,
			wantValue:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := mustPage(t, tt.html)
			el := mustQuery(t, page, "select")

			matched, err := New(page, nil).FillSelect(el, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatched, matched)

			v, err := el.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, v)
		})
	}
}

func TestSelectBooleanChoice(t *testing.T) {
	tests := []struct {
		name         string
		html         string
		desired      bool
		wantSelected bool
		wantChecked  string
	}{
		{
			name: "value attribute polarity",
			html: `<input type="radio" name="auth" value="yes" id="y"><input type="radio" name="auth" value="no" id="n">`,
			desired:      true,
			wantSelected: true,
			wantChecked:  "#y",
		},
		{
			name: "aria-label polarity",
			html: `<input type="radio" name="auth" value="opt1" aria-label="Yes" id="y"><input type="radio" name="auth" value="opt2" aria-label="No" id="n">`,
			desired:      false,
			wantSelected: true,
			wantChecked:  "#n",
		},
		{
			name: "associated label polarity",
			html: `<input type="radio" name="auth" id="a"><label for="a">Yes</label><input type="radio" name="auth" id="b"><label for="b">No</label>`,
			desired:      false,
			wantSelected: true,
			wantChecked:  "#b",
		},
		{
			name: "unclassifiable group left untouched",
			html: `<input type="radio" name="auth" value="maybe"><input type="radio" name="auth" value="sometimes">`,
			desired:      true,
			wantSelected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := mustPage(t, tt.html)
			radios, err := page.QueryAll(`input[type="radio"]`)
			require.NoError(t, err)

			selected, err := New(page, nil).SelectBooleanChoice(radios, tt.desired)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSelected, selected)

			if tt.wantChecked != "" {
				el := mustQuery(t, page, tt.wantChecked)
				checked, err := el.Checked()
				require.NoError(t, err)
				assert.True(t, checked)
			}
		})
	}
}

func TestSetCheckbox(t *testing.T) {
	page := mustPage(t, `<input type="checkbox" id="consent">`)
	el := mustQuery(t, page, "#consent")
	f := New(page, nil)

	clicked, err := f.SetCheckbox(el, true)
	require.NoError(t, err)
	assert.True(t, clicked)

	checked, err := el.Checked()
	require.NoError(t, err)
	assert.True(t, checked)

	// Already in the desired state: no second click.
	clicked, err = f.SetCheckbox(el, true)
	require.NoError(t, err)
	assert.False(t, clicked)
	assert.Equal(t, 1, page.ClickCount(el))
}

func TestFillCustomDropdown(t *testing.T) {
	const widget = `
		<button id="trigger" aria-haspopup="listbox">Select one</button>
		<ul role="listbox">
			<li role="option">0-2 years</li>
			<li role="option">3-5 years</li>
		</ul>`

	t.Run("clicks first matching option", func(t *testing.T) {
		page := mustPage(t, widget)
		trigger := mustQuery(t, page, "#trigger")

		matched, err := New(page, nil).FillCustomDropdown(trigger, DropdownSpec{
			OptionSelector: `li[role="option"]`,
		}, "3-5 years")
		require.NoError(t, err)
		assert.True(t, matched)

		option := mustQuery(t, page, `ul li:nth-child(2)`)
		assert.Equal(t, 1, page.ClickCount(option))
		assert.Equal(t, 1, page.ClickCount(trigger))
	})

	t.Run("no match closes the widget again", func(t *testing.T) {
		page := mustPage(t, widget)
		trigger := mustQuery(t, page, "#trigger")

		matched, err := New(page, nil).FillCustomDropdown(trigger, DropdownSpec{
			OptionSelector: `li[role="option"]`,
		}, "20 years")
		require.NoError(t, err)
		assert.False(t, matched)
		assert.Equal(t, 2, page.ClickCount(trigger), "open then close")
	})
}

func TestUploadFile(t *testing.T) {
	t.Run("attaches to a file input", func(t *testing.T) {
		page := mustPage(t, `<input type="file" name="resume">`)
		el := mustQuery(t, page, `input[type="file"]`)

		err := New(page, nil).UploadFile(el, []byte("pdf-bytes"), "resume.pdf")
		require.NoError(t, err)

		uploaded, ok := page.Uploaded(el)
		require.True(t, ok)
		assert.Equal(t, "resume.pdf", uploaded.Name)
		assert.Equal(t, []byte("pdf-bytes"), uploaded.Data)
		assert.Equal(t, []string{"change", "input"}, page.Events(el))
	})

	t.Run("reports a mechanism error on a non-file element", func(t *testing.T) {
		page := mustPage(t, `<div id="dropzone"></div>`)
		el := mustQuery(t, page, "#dropzone")

		err := New(page, nil).UploadFile(el, []byte("pdf"), "resume.pdf")
		var upErr *dom.UploadMechanismError
		assert.ErrorAs(t, err, &upErr)
	})
}
