//go:build integration

package itest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

const modulePath = "github.com/forPelevin/vismanifest"

// findRepoRoot walks up from the working directory to the go.mod declaring
// this module.
func findRepoRoot() (string, error) {
	start, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for dir := start; ; {
		b, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil && bytes.Contains(b, []byte("module "+modulePath+"\n")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod for %s above %s", modulePath, start)
		}
		dir = parent
	}
}

func testdataDir(repoRoot string) string {
	return filepath.Join(repoRoot, "internal", "itest", "testdata")
}
