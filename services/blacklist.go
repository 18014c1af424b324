package services

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadPasswordBlacklist reads one forbidden password per line. Blank lines
// are skipped.
func LoadPasswordBlacklist(path string) (map[string]bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening password blacklist: %w", err)
	}
	defer file.Close()

	blacklist := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			blacklist[line] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading password blacklist: %w", err)
	}
	return blacklist, nil
}
