package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/scopevm/cas"
	"github.com/timewinder-dev/scopevm/model"
)

// TestSpecs runs every run spec in testdata as a subtest and checks its
// expectations.
func TestSpecs(t *testing.T) {
	testdataDir := filepath.Join("..", "testdata")
	found := 0

	err := filepath.Walk(testdataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !model.IsSpecFile(path) {
			return nil
		}
		found++

		relPath, _ := filepath.Rel(testdataDir, path)
		testName := strings.TrimSuffix(relPath, filepath.Ext(relPath))
		testName = strings.ReplaceAll(testName, string(filepath.Separator), "/")

		t.Run(testName, func(t *testing.T) {
			spec, err := model.LoadSpecFromFile(path)
			require.NoError(t, err, "Failed to load spec file")

			store := cas.NewLRUCache(cas.NewMemoryCAS(), spec.Limits.CacheSize)
			exec, err := spec.BuildExecutor(store)
			require.NoError(t, err, "Failed to build executor")

			result := exec.Run()
			t.Logf("Stats: %d steps, max stack %d, max scopes %d, %d unique states",
				result.Statistics.Steps,
				result.Statistics.MaxValueDepth,
				result.Statistics.MaxScopeDepth,
				result.Statistics.UniqueStates)
			require.NoError(t, result.Check(spec.Expect))
		})
		return nil
	})
	require.NoError(t, err, "Error walking testdata directory")
	require.Positive(t, found, "no specs found")
}
