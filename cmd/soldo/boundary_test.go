package main

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

func TestCmdImportBoundary(t *testing.T) {
	t.Parallel()

	allowedImports := map[string]struct{}{
		"github.com/crmarques/soldo/config":       {},
		"github.com/crmarques/soldo/core":         {},
		"github.com/crmarques/soldo/internal/cli": {},
		"github.com/crmarques/soldo/soldo":        {},
		"go.opentelemetry.io/otel":                {},
	}

	fset := token.NewFileSet()
	err := filepath.WalkDir(".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		parsedFile, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if parseErr != nil {
			return parseErr
		}

		for _, imported := range parsedFile.Imports {
			importPath := strings.Trim(imported.Path.Value, "\"")
			if !strings.Contains(importPath, ".") {
				// Standard library import.
				continue
			}
			if _, allowed := allowedImports[importPath]; !allowed {
				t.Fatalf("forbidden import %q in %s", importPath, path)
			}
		}

		return nil
	})
	if err != nil {
		t.Fatalf("boundary scan failed: %v", err)
	}
}
