package cml_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	cml "github.com/KimNorgaard/go-cml"
	"github.com/KimNorgaard/go-cml/internal/testutil"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

func TestGolden(t *testing.T) {
	files, err := testutil.Sources()
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			src, err := testutil.ReadTestData(file)
			require.NoError(t, err)

			doc, err := cml.Parse(src)

			var actual []byte
			if err != nil {
				// For documents that are expected to fail parsing,
				// the golden file will contain the error message.
				actual = []byte(err.Error())
			} else {
				// Valid documents are formatted to their canonical layout.
				actual, err = cml.Format(doc, cml.Indent(2))
				require.NoError(t, err)

				// The canonical layout is a fixed point.
				again, err := cml.Parse(actual)
				require.NoError(t, err)
				require.True(t, doc.Equal(again), "re-parsed document differs")
				reformatted, err := cml.Format(again, cml.Indent(2))
				require.NoError(t, err)
				require.Equal(t, string(actual), string(reformatted))
			}

			goldenFile := filepath.Join(testutil.Dir, testutil.GoldenName(file))
			// To refresh the golden files, run: go test -run TestGolden -update
			if *update {
				err := os.WriteFile(goldenFile, actual, 0o644)
				require.NoError(t, err)
			}

			expected, err := os.ReadFile(goldenFile)
			require.NoError(t, err, "Golden file not found. Run with -update to create it.")

			require.Equal(t, string(expected), string(actual), "Output does not match golden file.")
		})
	}
}
