package converter

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/pkg/errors"
)

// saveContent merges lines into the output file of ticker and returns its path.
func (x *Converter) saveContent(ticker string, lines []string) (string, error) {
	symbol := models.NewSymbol(ticker)
	finalPath := x.dataset.SourcePath(x.cfg.OutputRoot, symbol, time.Time{})

	srcPath := finalPath
	if x.cfg.DataFolder != "" {
		processed := x.dataset.SourcePath(x.cfg.DataFolder, symbol, time.Time{})
		if fileExists(processed) {
			srcPath = processed
		}
	}

	var existing []string
	if fileExists(srcPath) {
		var err error
		if existing, err = readLines(srcPath); err != nil {
			return "", err
		}
	}

	if err := writeLines(finalPath, MergeLines(lines, existing)); err != nil {
		return "", err
	}

	return finalPath, nil
}

// MergeLines returns the union of both sets without duplicates, ordered by
// the 8 character date prefix. Lines of the same date keep their order with
// lines of fresh first.
func MergeLines(fresh, existing []string) []string {
	seen := map[string]bool{}
	var merged []string
	for _, set := range [][]string{fresh, existing} {
		for _, line := range set {
			if !seen[line] {
				seen[line] = true
				merged = append(merged, line)
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return datePrefix(merged[i]) < datePrefix(merged[j])
	})
	return merged
}

func datePrefix(line string) string {
	if len(line) < 8 {
		return line
	}
	return line[:8]
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func readLines(path string) ([]string, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to open file: %s", path)
	}
	defer fd.Close()

	var lines []string
	scanner := bufio.NewScanner(fd)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "Fail to read file: %s", path)
	}

	return lines, nil
}

func writeLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "Fail to create directory for %s", path)
	}

	fd, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Fail to create file: %s", path)
	}

	w := bufio.NewWriter(fd)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			fd.Close()
			return errors.Wrapf(err, "Fail to write file: %s", path)
		}
	}

	if err := w.Flush(); err != nil {
		fd.Close()
		return errors.Wrapf(err, "Fail to flush file: %s", path)
	}
	return fd.Close()
}
