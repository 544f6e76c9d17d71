package extract

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"coursewatch/internal/watch"
)

const sampleHTML = `<html><body><div>Availability no: 1</div></body></html>`

func TestExtract_SampleCoursePage(t *testing.T) {
	t.Parallel()

	got, err := New().Extract(sampleHTML, "Availability no", false)
	require.NoError(t, err)
	require.Equal(t, 1, got)
}

func TestExtract_RoundTrip(t *testing.T) {
	t.Parallel()

	// prefix + keyword + separator + digits + suffix, with a digit-free
	// separator shorter than the lookahead window.
	tests := []struct {
		separator string
		digits    string
		want      int
	}{
		{": ", "7", 7},
		{" # ", "12", 12},
		{":\n", "0", 0},
		{" - seats left ", "305", 305},
		{"", "42", 42},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(fmt.Sprintf("sep=%q", tc.separator), func(t *testing.T) {
			t.Parallel()

			text := "<p>Course CS101</p><p>Availability no" + tc.separator + tc.digits + " total</p>"
			got, err := New().Extract(text, "Availability no", false)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExtract_KeywordMissing(t *testing.T) {
	t.Parallel()

	_, err := New().Extract("<html><body>Enrolment closed</body></html>", "Availability no", false)

	var exErr *watch.ExtractError
	require.ErrorAs(t, err, &exErr)
	require.Equal(t, watch.ExtractKeywordNotFound, exErr.Kind)
}

func TestExtract_NumberBeyondLookahead(t *testing.T) {
	t.Parallel()

	body := "Availability no" + strings.Repeat(".", 30) + "5"
	_, err := New().Extract(body, "Availability no", false)

	var exErr *watch.ExtractError
	require.ErrorAs(t, err, &exErr)
	require.Equal(t, watch.ExtractNumberNotFound, exErr.Kind)
}

func TestExtract_NoDigitsAtAll(t *testing.T) {
	t.Parallel()

	_, err := New().Extract("Availability no: none", "Availability no", false)

	var exErr *watch.ExtractError
	require.ErrorAs(t, err, &exErr)
	require.Equal(t, watch.ExtractNumberNotFound, exErr.Kind)
}

func TestExtract_FirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	body := "<div>Availability no: 3</div><div>Availability no: 9</div>"
	got, err := New().Extract(body, "Availability no", false)
	require.NoError(t, err)
	require.Equal(t, 3, got)
}

func TestExtract_MaximalDigitRun(t *testing.T) {
	t.Parallel()

	got, err := New().Extract("Availability no: 1234 seats", "Availability no", false)
	require.NoError(t, err)
	require.Equal(t, 1234, got)
}

func TestExtract_CaseSensitivity(t *testing.T) {
	t.Parallel()

	body := "AVAILABILITY NO: 4"

	_, err := New().Extract(body, "Availability no", false)
	require.Error(t, err)

	got, err := New().Extract(body, "Availability no", true)
	require.NoError(t, err)
	require.Equal(t, 4, got)
}

func TestExtract_MarkupSpacingNormalized(t *testing.T) {
	t.Parallel()

	body := "<td>Availability \t no:</td><td>6</td>"
	got, err := New().Extract(body, "Availability no", false)
	require.NoError(t, err)
	require.Equal(t, 6, got)
}

func TestExtract_OverlongDigitRunRejected(t *testing.T) {
	t.Parallel()

	_, err := New().Extract("Availability no: 99999999999999999999999", "Availability no", false)

	var exErr *watch.ExtractError
	require.True(t, errors.As(err, &exErr))
	require.Equal(t, watch.ExtractNumberNotFound, exErr.Kind)
}
