package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Normalize joins lines that were wrapped mid-sentence in the raw statute
// text while keeping intentional breaks: all-caps title lines, sentence
// ends, blank lines, and lines followed by a capitalized start all keep
// their line break. Article markers are never left split across a joined
// boundary.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	var b strings.Builder

	for i, line := range lines {
		line = strings.TrimSpace(line)
		next := ""
		if i+1 < len(lines) {
			next = strings.TrimSpace(lines[i+1])
		}

		b.WriteString(line)
		if keepBreak(line, next) {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}

	return b.String()
}

// NormalizeFile normalizes inputPath and writes the result next to the
// given output directory as <name>_preprocessed.txt.
func NormalizeFile(inputPath, outputDir string) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoInput, inputPath)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(outputDir, base+"_preprocessed.txt")

	if err := os.WriteFile(outputPath, []byte(Normalize(string(data))), 0644); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	return outputPath, nil
}

// keepBreak reports whether the break after current should be preserved
// instead of joining with next.
func keepBreak(current, next string) bool {
	return isAllCaps(current) ||
		isAllCaps(next) ||
		strings.HasSuffix(current, ".") ||
		current == "" ||
		startsUpper(next) ||
		startsUpper(strings.ReplaceAll(next, `"`, ""))
}

// isAllCaps reports whether the line contains cased letters and none of
// them is lowercase. Used to detect headers and article titles.
func isAllCaps(line string) bool {
	hasUpper := false
	for _, r := range strings.TrimSpace(line) {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
