package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total            int
	Current          int
	Converted        int
	Skipped          int
	Failed           int
	TotalOutputBytes int64

	// SingleFile is set when the run consisted of exactly one explicitly
	// named input; its failure should surface as a non-zero process exit.
	SingleFile bool
}
