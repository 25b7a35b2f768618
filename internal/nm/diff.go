package nm

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

type treeEntry struct {
	dir  bool
	data []byte
}

func readTree(root string) (map[string]treeEntry, error) {
	entries := map[string]treeEntry{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return err
		}

		if d.IsDir() {
			entries[rel] = treeEntry{dir: true}

			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		entries[rel] = treeEntry{data: data}

		return nil
	})

	if errors.Is(err, fs.ErrNotExist) {
		return map[string]treeEntry{}, nil
	}

	return entries, err
}

// DiffTrees compares two directory trees the way diff -r does. It returns
// whether they are identical and, if not, a human readable explanation.
func DiffTrees(a, b string) (bool, string, error) {
	left, err := readTree(a)
	if err != nil {
		return false, "", fmt.Errorf("failed to read %s: %w", a, err)
	}

	right, err := readTree(b)
	if err != nil {
		return false, "", fmt.Errorf("failed to read %s: %w", b, err)
	}

	names := make([]string, 0, len(left)+len(right))
	for name := range left {
		names = append(names, name)
	}

	for name := range right {
		if _, ok := left[name]; !ok {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	var report strings.Builder

	for _, name := range names {
		l, inLeft := left[name]
		r, inRight := right[name]

		switch {
		case !inRight:
			fmt.Fprintf(&report, "Only in %s: %s\n", a, name)
		case !inLeft:
			fmt.Fprintf(&report, "Only in %s: %s\n", b, name)
		case l.dir != r.dir:
			fmt.Fprintf(&report, "File type differs: %s\n", name)
		case !l.dir && !bytes.Equal(l.data, r.data):
			text, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(string(l.data)),
				B:        difflib.SplitLines(string(r.data)),
				FromFile: filepath.Join(a, name),
				ToFile:   filepath.Join(b, name),
				Context:  3,
			})
			report.WriteString(text)
		}
	}

	return report.Len() == 0, report.String(), nil
}
