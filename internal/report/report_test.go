package report

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONEmitter(t *testing.T) {
	var buf bytes.Buffer
	e := NewJSONEmitter(&buf)

	require.NoError(t, e.Emit(Summary{Project: "/src/app", Day: "2024-03-15", Summary: "Fixed the login page."}))
	require.NoError(t, e.Emit(Summary{Project: "/src/lib", Day: "2024-03-15", Summary: "Sped up reports."}))

	want := `{
  "project": "/src/app",
  "day": "2024-03-15",
  "summary": "Fixed the login page."
}
{
  "project": "/src/lib",
  "day": "2024-03-15",
  "summary": "Sped up reports."
}
`
	assert.Equal(t, want, buf.String())
}

func TestJSONEmitter_Decodable(t *testing.T) {
	var buf bytes.Buffer
	e := NewJSONEmitter(&buf)
	require.NoError(t, e.Emit(Summary{Project: "a", Day: "2024-01-01", Summary: "x \"quoted\""}))
	require.NoError(t, e.Emit(Summary{Project: "b", Day: "2024-01-02", Summary: "y"}))

	dec := json.NewDecoder(&buf)
	var got []Summary
	for {
		var s Summary
		err := dec.Decode(&s)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, s)
	}
	assert.Equal(t, []Summary{
		{Project: "a", Day: "2024-01-01", Summary: "x \"quoted\""},
		{Project: "b", Day: "2024-01-02", Summary: "y"},
	}, got)
}

func TestJSONEmitter_KeepsMarkupCharacters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONEmitter(&buf).Emit(Summary{
		Project: "/src/r&d",
		Day:     "2024-03-15",
		Summary: "Made search <faster> & simpler.",
	}))

	out := buf.String()
	assert.Contains(t, out, `"summary": "Made search <faster> & simpler."`)
	assert.Contains(t, out, `"project": "/src/r&d"`)
	assert.NotContains(t, out, `\u00`)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestJSONEmitter_WriteError(t *testing.T) {
	err := NewJSONEmitter(failingWriter{}).Emit(Summary{})
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestMarkdownEmitter(t *testing.T) {
	var buf bytes.Buffer
	e, err := NewMarkdownEmitter(&buf, "notty", 80)
	require.NoError(t, err)

	require.NoError(t, e.Emit(Summary{Project: "/src/webshop", Day: "2024-03-15", Summary: "Fixed checkout."}))

	out := buf.String()
	assert.Contains(t, out, "2024-03-15")
	assert.Contains(t, out, "webshop")
	assert.Contains(t, out, "Fixed checkout.")
}
