// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation for ffmpeg and ffprobe.
package check

import (
	"errors"
	"os"
	"os/exec"
	"strings"
)

// Sentinel errors returned by CheckDeps when a required tool is missing or
// unusable.
var (
	ErrFfmpegNotFound   = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound  = errors.New("ffprobe not found on PATH")
	ErrPaletteUnusable  = errors.New("ffmpeg palettegen/paletteuse test failed")
	ErrRawvideoUnusable = errors.New("ffmpeg rawvideo pipe test failed")
)

// Logger is the minimal logging interface needed by RunCheck. Defined here
// (rather than importing the logging package) so that check remains
// dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of ffmpeg
// and ffprobe and verifies the two capabilities the pipeline depends on,
// raw pixel streaming and palette-based GIF encoding. Informational only;
// it does not stop on failure.
func RunCheck(log Logger) {
	log.Info("=== System Check ===")

	checkTool(log, "ffmpeg")
	checkTool(log, "ffprobe")
	checkRawvideo(log)
	checkPalette(log)
}

// checkTool verifies a binary is on PATH and logs its version line.
func checkTool(log Logger, name string) {
	if _, err := exec.LookPath(name); err != nil {
		log.Error("%s not found", name)
		return
	}
	out, err := exec.Command(name, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", name, firstLine)
}

func checkRawvideo(log Logger) {
	log.Info("Testing rawvideo decode...")
	if runSilent("ffmpeg", rawvideoTestArgs()...) {
		log.Success("rawvideo decode works")
	} else {
		log.Error("rawvideo decode test failed")
	}
}

func checkPalette(log Logger) {
	log.Info("Testing palette GIF encode...")
	if runSilent("ffmpeg", paletteTestArgs()...) {
		log.Success("palettegen/paletteuse works")
	} else {
		log.Error("palette test encode failed")
	}
}

// CheckDeps is the pre-pipeline validation: ffmpeg and ffprobe must be on
// PATH and both capability tests must pass. Returns a sentinel error on the
// first failure.
func CheckDeps() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	if !runSilent("ffmpeg", rawvideoTestArgs()...) {
		return ErrRawvideoUnusable
	}
	if !runSilent("ffmpeg", paletteTestArgs()...) {
		return ErrPaletteUnusable
	}
	return nil
}

// rawvideoTestArgs decodes a tiny synthetic clip to a raw rgba stream on
// stdout, discarded. Verifies the decode side of the pipeline contract.
func rawvideoTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=64x64:d=0.1",
		"-f", "rawvideo", "-pix_fmt", "rgba", "-",
	}
}

// paletteTestArgs runs a minimal palettegen/paletteuse graph into a discarded
// GIF. Verifies the encode side of the pipeline contract.
func paletteTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-y", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=64x64:d=0.1",
		"-filter_complex", "[0:v] split [a][b];[a] palettegen [p];[b][p] paletteuse",
		"-f", "gif", os.DevNull,
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
