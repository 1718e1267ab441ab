package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hirehand/formfill/internal/types"
)

func TestPrintFillResult(t *testing.T) {
	result := types.NewFillResult("lever", "run-1")
	result.AddField("full_name", "text", "Jane Doe")
	result.AddField("email", "email", "jane@example.com")
	result.AddError(types.ErrorUpload, "resume", "mechanism unavailable")

	var buf bytes.Buffer
	NewPrinter(&buf).PrintFillResult(result)
	out := buf.String()

	assert.Contains(t, out, "FILL REPORT")
	assert.Contains(t, out, "lever")
	assert.Contains(t, out, "full_name")
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "upload")
}

func TestPrintFillResult_Failed(t *testing.T) {
	result := types.NewFillResult("workday", "run-2")
	result.Fail("page never loaded")

	var buf bytes.Buffer
	NewPrinter(&buf).PrintFillResult(result)

	assert.Contains(t, buf.String(), "failed")
	assert.Contains(t, buf.String(), "No fields written")
}

func TestPrintFillResult_NilIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintFillResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintFillResult_TruncatesLongLists(t *testing.T) {
	result := types.NewFillResult("lever", "run-3")
	for i := 0; i < 15; i++ {
		result.AddField("field", "text", "value")
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintFillResult(result)
	assert.Contains(t, buf.String(), "and 5 more")
}

func TestPrintJobDetails(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintJobDetails(&types.JobDetails{
		Title:    "Senior Backend Engineer",
		Company:  "Acme",
		Location: "Austin, TX",
	})
	out := buf.String()

	assert.Contains(t, out, "JOB DETAILS")
	assert.Contains(t, out, "Senior Backend Engineer")
	assert.Contains(t, out, "Acme")
}

func TestPrintProfileSummary(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProfileSummary(&types.ProfileData{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Resume:    &types.ResumeFile{FileName: "jane.pdf", Data: []byte("pdf")},
	})
	out := buf.String()

	assert.Contains(t, out, "PROFILE")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "jane.pdf")
}

func TestBoxLinesStayWithinWidth(t *testing.T) {
	result := types.NewFillResult("lever", "run-4")
	result.AddField("a_really_long_field_name_that_keeps_going", "text",
		strings.Repeat("x", 200))

	var buf bytes.Buffer
	NewPrinter(&buf).PrintFillResult(result)

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth+2, "line: %s", line)
	}
}
