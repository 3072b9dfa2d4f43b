// Package store scans a local mirror of the phone usage export tree,
// laid out as <root>/YYYY-MM-DD/*.csv.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ErrNoExport is returned when no dated directory or CSV export exists under the root.
var ErrNoExport = errors.New("no usage export found")

var (
	datedDir     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	preferredCSV = regexp.MustCompile(`(?i)dailyusage`)
)

// ExportFile describes one CSV file inside a dated export directory.
type ExportFile struct {
	Directory string
	File      string
	Path      string
	Size      int64
	ModTime   time.Time
}

// Export is the chosen usage export together with its contents.
type Export struct {
	Directory string
	File      string
	Path      string
	Text      string
}

// ListOptions controls how exports are enumerated.
type ListOptions struct {
	Root  string
	Limit int
}

// ListResult contains export files and non-fatal warnings.
type ListResult struct {
	Files    []ExportFile
	Warnings []error
}

// ListExports enumerates CSV files in dated directories directly under Root,
// newest directory first and by file name within a directory.
func ListExports(opts ListOptions) (ListResult, error) {
	root := opts.Root
	if root == "" {
		return ListResult{}, errors.New("root directory is required")
	}

	var result ListResult
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			result.Warnings = append(result.Warnings, fmt.Errorf("walk %s: %w", path, walkErr))
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}
		depth := strings.Count(rel, string(filepath.Separator))
		if d.IsDir() {
			if depth > 0 || !datedDir.MatchString(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if depth != 1 || !isCSV(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Errorf("stat %s: %w", path, err))
			return nil
		}
		result.Files = append(result.Files, ExportFile{
			Directory: filepath.Base(filepath.Dir(path)),
			File:      d.Name(),
			Path:      path,
			Size:      info.Size(),
			ModTime:   info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("list exports: %w", err)
	}

	sort.SliceStable(result.Files, func(i, j int) bool {
		a, b := result.Files[i], result.Files[j]
		if a.Directory != b.Directory {
			return a.Directory > b.Directory
		}
		return a.File < b.File
	})

	if opts.Limit > 0 && len(result.Files) > opts.Limit {
		result.Files = result.Files[:opts.Limit]
	}
	return result, nil
}

// LatestDatedDirectory returns the name of the lexically greatest YYYY-MM-DD
// directory under root, or "" when there is none.
func LatestDatedDirectory(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("read export root: %w", err)
	}
	latest := ""
	for _, entry := range entries {
		if entry.IsDir() && datedDir.MatchString(entry.Name()) && entry.Name() > latest {
			latest = entry.Name()
		}
	}
	return latest, nil
}

// LatestUsageExport reads the usage CSV from the newest dated directory.
// Files whose name contains DailyUsage are preferred over other CSV files; the
// lexically last candidate wins. Unreadable entries are reported as warnings.
func LatestUsageExport(root string) (Export, []error, error) {
	if root == "" {
		return Export{}, nil, errors.New("root directory is required")
	}
	dir, err := LatestDatedDirectory(root)
	if err != nil {
		return Export{}, nil, err
	}
	if dir == "" {
		return Export{}, nil, fmt.Errorf("scan %s: %w", root, ErrNoExport)
	}

	dirPath := filepath.Join(root, dir)
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return Export{}, nil, fmt.Errorf("read export directory: %w", err)
	}

	var (
		warnings   []error
		candidates []string
		preferred  []string
	)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			if entry.Type()&fs.ModeSymlink != 0 {
				warnings = append(warnings, fmt.Errorf("skip symlink %s", filepath.Join(dirPath, entry.Name())))
			}
			continue
		}
		if !isCSV(entry.Name()) {
			continue
		}
		candidates = append(candidates, entry.Name())
		if preferredCSV.MatchString(entry.Name()) {
			preferred = append(preferred, entry.Name())
		}
	}
	if len(preferred) > 0 {
		candidates = preferred
	}
	if len(candidates) == 0 {
		return Export{}, warnings, fmt.Errorf("scan %s: %w", dirPath, ErrNoExport)
	}
	sort.Strings(candidates)
	file := candidates[len(candidates)-1]

	data, err := os.ReadFile(filepath.Join(dirPath, file))
	if err != nil {
		return Export{}, warnings, fmt.Errorf("read export: %w", err)
	}
	return Export{
		Directory: dir,
		File:      file,
		Path:      dirPath,
		Text:      string(data),
	}, warnings, nil
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
