package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"name,email,department",
		"Ada Lovelace,ada@acme.test,Engineering",
		"",
		"Grace Hopper, grace@acme.test ,Security",
		"Short Row,short@acme.test",
	}, "\n")

	table, err := ParseCSV(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Equal(t, []string{"name", "email", "department"}, table.Headers)
	assert.Len(t, table.Rows, 3, "blank lines are skipped")

	assert.Equal(t, "Ada Lovelace", table.Rows[0]["name"])
	assert.Equal(t, "grace@acme.test", table.Rows[1]["email"], "cell whitespace is trimmed")
	assert.Equal(t, "", table.Rows[2]["department"], "short rows pad with empty strings")
}

func TestParseCSVQuotedFields(t *testing.T) {
	input := "name,email\n\"Lovelace, Ada\",ada@acme.test\n"
	table, err := ParseCSV(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Equal(t, "Lovelace, Ada", table.Rows[0]["name"])
}

func TestParseCSVEmpty(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestRenderCSVRoundTrip(t *testing.T) {
	headers := []string{"name", "email"}
	rows := []map[string]string{
		{"name": "Lovelace, Ada", "email": "ada@acme.test"},
		{"name": "Hopper Grace", "email": "grace@acme.test"},
	}

	var buf bytes.Buffer
	assert.NoError(t, RenderCSV(&buf, headers, rows))

	table, err := ParseCSV(&buf)
	assert.NoError(t, err)
	assert.Equal(t, headers, table.Headers)
	assert.Equal(t, rows[0], table.Rows[0])
	assert.Equal(t, rows[1], table.Rows[1])
}
