// Package pipeline orchestrates file discovery, the per-file conversion
// state machine, and batch summary reporting. Files in a batch are processed
// strictly one at a time; one file's failure cleans up its partial output
// and never aborts the batch.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gifsmith/internal/config"
	"gifsmith/internal/display"
	"gifsmith/internal/logging"
)

// Run is the top-level batch entry point: build the job list from the
// configured inputs, convert each file sequentially, and report aggregate
// stats with a summary table.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	jobs, skipped, single, err := BuildJobs(cfg)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.Failed++
		return stats
	}

	stats.Total = len(jobs)
	stats.Skipped = skipped
	stats.SingleFile = single

	if len(jobs) == 0 {
		if skipped > 0 {
			log.Info("Nothing to do: %d file(s) already converted", skipped)
		} else {
			log.Info("No files found to convert")
		}
		return stats
	}

	log.Info("Found %d file(s) to convert", stats.Total)
	if skipped > 0 {
		log.Info("Skipping %d already-converted file(s)", skipped)
	}
	fmt.Println()

	conv := NewConverter(cfg, log)

	for i, job := range jobs {
		stats.Current = i + 1

		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}

		processFile(ctx, conv, log, job, &stats)
	}

	logSummary(log, cfg, &stats)
	return stats
}

// processFile handles one job: validate -> convert -> account.
func processFile(ctx context.Context, conv *Converter, log *logging.Logger, job Job, stats *RunStats) {
	basename := filepath.Base(job.Input)
	log.Info("[%d/%d] %s", stats.Current, stats.Total, basename)

	if _, err := os.Stat(job.Input); err != nil {
		log.Error("File not found: %s", job.Input)
		stats.Failed++
		fmt.Println()
		return
	}

	res, err := conv.Convert(ctx, job.Input, job.Output)
	if err != nil {
		log.Error("Error processing %s: %v", basename, err)
		stats.Failed++
		fmt.Println()
		return
	}

	stats.Converted++
	stats.TotalOutputBytes += res.OutputBytes
	log.Success("Finished %s in %ds, %s (%d frames)",
		filepath.Base(job.Output),
		int(res.Elapsed.Seconds()),
		display.FormatBytes(res.OutputBytes),
		res.Frames)
	fmt.Println()
}

// BuildJobs expands the configured inputs into a job list. No inputs means
// "discover the current directory"; directory inputs are discovered
// recursively; file inputs are converted unconditionally (the skip-existing
// rule applies only to discovery). single reports whether the run names
// exactly one input file.
func BuildJobs(cfg *config.Config) (jobs []Job, skipped int, single bool, err error) {
	if len(cfg.Inputs) == 0 {
		jobs, skipped, err = Discover(".", cfg.Force)
		return jobs, skipped, false, err
	}

	single = len(cfg.Inputs) == 1
	for _, arg := range cfg.Inputs {
		fi, statErr := os.Stat(arg)
		if statErr != nil {
			// Missing named inputs stay in the job list so the runner
			// reports them as failures instead of silently dropping them.
			jobs = append(jobs, Job{Input: arg, Output: OutputPath(arg)})
			continue
		}

		if fi.IsDir() {
			single = false
			dirJobs, dirSkipped, derr := Discover(config.NormalizeDirArg(arg), cfg.Force)
			if derr != nil {
				return nil, 0, false, derr
			}
			jobs = append(jobs, dirJobs...)
			skipped += dirSkipped
			continue
		}

		output := OutputPath(arg)
		if cfg.Output != "" && len(cfg.Inputs) == 1 {
			output = cfg.Output
		}
		jobs = append(jobs, Job{Input: arg, Output: output})
	}
	if len(jobs) != 1 {
		single = false
	}
	return jobs, skipped, single, nil
}

func logSummary(log *logging.Logger, cfg *config.Config, stats *RunStats) {
	log.Info("Conversion complete: %d converted, %d skipped, %d failed",
		stats.Converted, stats.Skipped, stats.Failed)
	if cfg.DryRun {
		log.Info("Dry run: no files were written")
		return
	}
	fmt.Println(display.SummaryTable(stats.Converted, stats.Skipped, stats.Failed, stats.TotalOutputBytes))
}
