// Package template supplies the program template compiled sources are woven
// into.
package template

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
)

//go:embed bale.py
var bale string

// Default returns the built-in Bale messenger bot template.
func Default() string { return bale }

// Load returns the template at path, or the built-in one when path is empty.
func Load(path string) (string, error) {
	if path == "" {
		return bale, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

var startMarker = regexp.MustCompile(`(?m)^[ \t]*# ([A-Za-z0-9_]+)[ \t]*$`)

// Blocks lists the names of the marker pairs in tmpl, in template order. A
// start marker without a matching end marker is not a block.
func Blocks(tmpl string) []string {
	var names []string
	for _, m := range startMarker.FindAllStringSubmatch(tmpl, -1) {
		name := m[1]
		if strings.HasPrefix(name, "end_") {
			continue
		}
		end := regexp.MustCompile(`(?m)^[ \t]*# end_` + regexp.QuoteMeta(name) + `[ \t]*$`)
		if end.MatchString(tmpl) {
			names = append(names, name)
		}
	}
	return names
}
