package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func writeContent(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "curriculum.yaml"), `
years:
  - number: 1
    title: Basics
    modules:
      - name: Budgeting
        description: Where the money goes
        resources:
          readings: [Household budgets]
`)
}
