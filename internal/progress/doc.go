// Package progress provides progress reporting for pipeline runs.
//
// The reporter tracks task and artifact counters and periodically
// prints a single human-readable status line.
//
// # Usage
//
//	reporter := progress.NewReporter(Options{
//	    TotalTasks: len(tasks),
//	    Output:     os.Stderr,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// Update as tasks and artifacts finish
//	reporter.TaskCompleted()
//	reporter.ArtifactDownloaded(bytes)
//
// # Output Format
//
//	[geofetch] Fetching: MODIS/061/MCD12Q1 (LC_Type1)
//	[geofetch] Tasks: 12/40 done | 1 failed | Artifacts: 31 downloaded, 4 skipped | 1.2 GB
package progress
