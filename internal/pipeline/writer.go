package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"trsi/internal/normalizer"
	"trsi/pkg/metadata"
)

// encodeDocument renders v as two-space indented JSON without HTML escaping.
func encodeDocument(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writeResults writes one <category>.json per result into dir, replacing
// previous files. Each file is read back and checked against the hash of the
// encoded document.
func writeResults(dir string, results []normalizer.Result) ([]CategorySummary, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}

	summaries := make([]CategorySummary, 0, len(results))

	for _, result := range results {
		data, err := encodeDocument(result.Document())
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", result.Category, err)
		}

		path := filepath.Join(dir, result.Category+".json")
		if err := writeFileAtomic(path, data); err != nil {
			return nil, err
		}

		hash := metadata.CalculateHash(data)
		if err := metadata.Verify(path, hash); err != nil {
			return nil, fmt.Errorf("verify %s: %w", path, err)
		}

		summaries = append(summaries, CategorySummary{
			Name:    result.Category,
			Path:    path,
			Hash:    hash,
			Items:   len(result.Items),
			Skipped: result.Skipped,
		})
	}

	return summaries, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, 0644)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}
