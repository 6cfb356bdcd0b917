// Package testutil gives tests access to the shared CML fixtures.
package testutil

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// TestdataFS holds the embedded test data files.
//
//go:embed testdata
var TestdataFS embed.FS

// Dir is the path of the fixtures relative to the repository root.
const Dir = "internal/testutil/testdata"

// ReadTestData reads and returns the content of an embedded test file.
func ReadTestData(name string) ([]byte, error) {
	data, err := fs.ReadFile(TestdataFS, path.Join("testdata", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read test data file '%s': %w", name, err)
	}
	return data, nil
}

// Sources returns the names of all embedded .cml fixtures.
func Sources() ([]string, error) {
	matches, err := fs.Glob(TestdataFS, "testdata/*.cml")
	if err != nil {
		return nil, err
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = path.Base(m)
	}
	return names, nil
}

// GoldenName returns the golden file name belonging to a .cml fixture.
func GoldenName(name string) string {
	return strings.TrimSuffix(name, ".cml") + ".golden"
}
