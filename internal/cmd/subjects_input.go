package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lendlens/lendlens/internal/core"
)

// resolveSubjects builds the subject list from positional company names or
// a --subjects-file, but not both.
func resolveSubjects(positional []string, subjectsFile string) ([]core.Subject, error) {
	trimmed := strings.TrimSpace(subjectsFile)
	if trimmed != "" {
		if len(positional) > 0 {
			return nil, fmt.Errorf("cannot combine positional company names with --subjects-file")
		}
		return readSubjectsFile(trimmed)
	}

	subjects := make([]core.Subject, 0, len(positional))
	for _, raw := range positional {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		subjects = append(subjects, core.Subject{Name: name})
	}
	if len(subjects) == 0 {
		return nil, fmt.Errorf("at least one company name is required")
	}
	return subjects, nil
}

// readSubjectsFile reads subjects from a file or stdin ("-"). A JSON array
// of subject objects is accepted; anything else is treated as plain lines
// of "Name" or "Name | Location" with # comments.
func readSubjectsFile(path string) ([]core.Subject, error) {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close() // nolint:errcheck
		reader = file
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if looksLikeJSONArray(data) {
		return parseSubjectsJSON(data)
	}
	return parseSubjectLines(data)
}

func looksLikeJSONArray(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("["))
}

func parseSubjectsJSON(data []byte) ([]core.Subject, error) {
	var subjects []core.Subject
	if err := json.Unmarshal(data, &subjects); err != nil {
		return nil, fmt.Errorf("parse subjects JSON: %w", err)
	}

	cleaned := make([]core.Subject, 0, len(subjects))
	for i, subject := range subjects {
		subject.Name = strings.TrimSpace(subject.Name)
		if subject.Name == "" {
			return nil, fmt.Errorf("subject %d is missing a name", i)
		}
		cleaned = append(cleaned, subject)
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("no subjects found in file")
	}
	return cleaned, nil
}

func parseSubjectLines(data []byte) ([]core.Subject, error) {
	subjects := make([]core.Subject, 0)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		subject := core.Subject{Name: raw}
		if name, location, found := strings.Cut(raw, "|"); found {
			subject.Name = strings.TrimSpace(name)
			subject.Location = strings.TrimSpace(location)
		}
		if subject.Name == "" {
			continue
		}
		subjects = append(subjects, subject)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, fmt.Errorf("no subjects found in file")
	}
	return subjects, nil
}
