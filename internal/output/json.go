package output

import (
	"encoding/json"

	"github.com/lendlens/lendlens/internal/core"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

type jsonDocument struct {
	Summary core.BatchSummary `json:"summary"`
	Result  *core.BatchResult `json:"result"`
}

// FormatBatch renders a batch result, summary first, as JSON.
func (f *JSONFormatter) FormatBatch(result *core.BatchResult, summary core.BatchSummary) (string, error) {
	if result == nil {
		return "", nil
	}

	doc := jsonDocument{Summary: summary, Result: result}

	var (
		data []byte
		err  error
	)
	if f.Indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
