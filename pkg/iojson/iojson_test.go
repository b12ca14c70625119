package iojson

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func TestFileReader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"a"}`), 0o644))

	var fr FileReader[item]
	fr.SetPath(path)

	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
}

func TestFileReader_MissingFile(t *testing.T) {
	var fr FileReader[item]
	fr.SetPath(filepath.Join(t.TempDir(), "missing.json"))

	_, err := fr.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open file")
}

func TestFileReader_PipedStdinWithDecoder(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	_, err = io.WriteString(w, "one\ntwo\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	fr := FileReader[[]string]{
		Stdin: r,
		Decode: func(in io.Reader) ([]string, error) {
			var lines []string
			sc := bufio.NewScanner(in)
			for sc.Scan() {
				lines = append(lines, sc.Text())
			}
			return lines, sc.Err()
		},
	}

	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, got)
}

func TestFileReader_DecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

	fr := FileReader[item]{}
	fr.SetPath(path)

	_, err := fr.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode JSON")
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, item{Name: "x"}))
	assert.Equal(t, "{\n  \"name\": \"x\"\n}\n", out.String())

	require.NoError(t, WriteWith(&out, &errOut, map[string]any{"bad": func() {}}))
	assert.Contains(t, errOut.String(), "json_error")
}

func TestWriteLines(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteLines(&out, []item{{Name: "a"}, {Name: "b"}}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{`{"name":"a"}`, `{"name":"b"}`}, lines)
}

func TestMarshalError(t *testing.T) {
	got := MarshalError("boom", map[string]any{"field": "x"})
	assert.Contains(t, got, `"message": "boom"`)

	got = MarshalError("boom", map[string]any{"ch": make(chan int)})
	assert.Contains(t, got, "json_error")

	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, "bad", nil))
	assert.Equal(t, "{\n  \"message\": \"bad\"\n}\n", buf.String())
}
