package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Supported input extensions (lowercase, with leading dot).
var videoExtensions = map[string]bool{
	".webm": true,
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".avi":  true,
	".m4v":  true,
}

// Job pairs one input file with its output path.
type Job struct {
	Input  string
	Output string
}

// OutputPath derives the default output for an input: the same path with its
// extension replaced by .gif.
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".gif"
}

// IsVideoFile reports whether path has a supported input extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// Discover walks dir collecting convertible files, resolving symlinks, and
// returns jobs sorted by input path for deterministic processing order.
// Inputs whose output counterpart already exists non-empty are skipped
// unless force is set; skipped counts them.
func Discover(dir string, force bool) (jobs []Job, skipped int, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsVideoFile(path) {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil // dangling link
			}
			fi, err := os.Stat(resolved)
			if err != nil || !fi.Mode().IsRegular() {
				return nil
			}
		}

		output := OutputPath(path)
		if !force && outputExists(output) {
			skipped++
			return nil
		}
		jobs = append(jobs, Job{Input: path, Output: output})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Input < jobs[j].Input })
	return jobs, skipped, nil
}

// outputExists reports whether a non-empty output file is already present.
// Zero-size leftovers do not count: a failed run must be redoable.
func outputExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Size() > 0
}
