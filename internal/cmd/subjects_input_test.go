package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestResolveSubjectsFromPositional(t *testing.T) {
	subjects, err := resolveSubjects([]string{"Acme Lending", "  ", "Globex"}, "")
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	require.Equal(t, "Acme Lending", subjects[0].Name)
	require.Equal(t, "Globex", subjects[1].Name)
}

func TestResolveSubjectsRejectsMixedInput(t *testing.T) {
	_, err := resolveSubjects([]string{"Acme"}, "subjects.txt")
	require.Error(t, err)
}

func TestResolveSubjectsRequiresInput(t *testing.T) {
	_, err := resolveSubjects(nil, "")
	require.Error(t, err)
}

func TestReadSubjectsFileJSON(t *testing.T) {
	path := writeTempFile(t, "subjects.json", `[
		{"name": "Acme Lending", "location": "Austin, TX", "industry": "fintech"},
		{"name": "Globex", "website": "https://globex.example.com"}
	]`)

	subjects, err := readSubjectsFile(path)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	require.Equal(t, "Acme Lending", subjects[0].Name)
	require.Equal(t, "Austin, TX", subjects[0].Location)
	require.Equal(t, "https://globex.example.com", subjects[1].Website)
}

func TestReadSubjectsFileJSONMissingName(t *testing.T) {
	path := writeTempFile(t, "subjects.json", `[{"location": "Austin, TX"}]`)

	_, err := readSubjectsFile(path)
	require.Error(t, err)
}

func TestReadSubjectsFileLines(t *testing.T) {
	path := writeTempFile(t, "subjects.txt", `# portfolio companies
Acme Lending | Austin, TX

Globex
`)

	subjects, err := readSubjectsFile(path)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	require.Equal(t, "Acme Lending", subjects[0].Name)
	require.Equal(t, "Austin, TX", subjects[0].Location)
	require.Equal(t, "Globex", subjects[1].Name)
	require.Empty(t, subjects[1].Location)
}

func TestReadSubjectsFileEmpty(t *testing.T) {
	path := writeTempFile(t, "subjects.txt", "# only comments\n")

	_, err := readSubjectsFile(path)
	require.Error(t, err)
}
