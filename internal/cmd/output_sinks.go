package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lendlens/lendlens/internal/output"
)

type outputSink struct {
	writer io.Writer
	close  func() error
	path   string
}

func outputExtension(format output.Format) string {
	switch format {
	case output.FormatJSON:
		return "json"
	case output.FormatMarkdown:
		return "md"
	case output.FormatCSV:
		return "csv"
	default:
		return "txt"
	}
}

var nonFilename = regexp.MustCompile(`[^a-z0-9._-]+`)

func sanitizeFilename(value string) string {
	clean := strings.ToLower(strings.TrimSpace(value))
	clean = nonFilename.ReplaceAllString(clean, "-")
	clean = strings.Trim(clean, "-.")
	if clean == "" {
		return "output"
	}
	return clean
}

func resolveOutputFormat(cmd *cobra.Command) (output.Format, error) {
	value, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}
	return output.ParseFormat(value)
}

// openSink opens the output target. An empty or "-" path means stdout; a
// directory means a timestamped file inside it.
func openSink(path string, dir string, stem string, format output.Format) (*outputSink, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" && strings.TrimSpace(dir) == "" {
		return &outputSink{writer: os.Stdout, close: func() error { return nil }, path: "-"}, nil
	}
	if trimmed == "-" {
		return &outputSink{writer: os.Stdout, close: func() error { return nil }, path: "-"}, nil
	}

	if trimmed == "" {
		filename := fmt.Sprintf("%s_%s.%s",
			sanitizeFilename(stem),
			time.Now().Format("20060102_150405"),
			outputExtension(format))
		trimmed = filepath.Join(strings.TrimSpace(dir), filename)
	}

	if err := os.MkdirAll(filepath.Dir(trimmed), 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(trimmed)
	if err != nil {
		return nil, err
	}
	return &outputSink{writer: file, close: file.Close, path: trimmed}, nil
}
