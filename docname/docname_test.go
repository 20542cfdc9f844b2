package docname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"Report_2023-01-05.pdf":  "Report",
		"Report.pdf":             "Report",
		"/tmp/abc/Notes 2024-12-31.md": "Notes",
		"minutes_20230105.docx":  "minutes",
		"no_date_here.txt":       "no_date_here",
	}

	for in, want := range cases {
		assert.Equal(t, want, DisplayName(in), "input %q", in)
	}
}

func TestSanitizeToolName(t *testing.T) {
	assert.Equal(t, "Jaarverslag--concept-", SanitizeToolName("Jaarverslag (concept)"))
	assert.Equal(t, "plain_name-1", SanitizeToolName("plain_name-1"))
}

// Sanitization is a pure function of the document name: applying it twice
// must equal applying it once.
func TestSanitizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"Report_2023-01-05.pdf",
		"Jaarverslag (concept).pdf",
		"weird náme &*#.txt",
		"already-safe_name",
	}

	for _, in := range inputs {
		once := SanitizeToolName(DisplayName(in))
		twice := SanitizeToolName(DisplayName(once))
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestStripDateIsIdempotent(t *testing.T) {
	for _, in := range []string{"Report_2023-01-05", "a_20230105_b", "nodate"} {
		once := StripDate(in)
		assert.Equal(t, once, StripDate(once), "input %q", in)
	}
}
