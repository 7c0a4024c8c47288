// Package doctor runs diagnose-and-fix passes over a set of paths.
//
// A [Runner] fans paths out to a bounded pool of goroutines. Each path is
// evaluated by an [Evaluator]; fixable diagnostics are offered to an
// [Approver] and, when approved, applied by a [Fixer]. Every path ends
// with exactly one [OutcomeKind]:
//
//   - [OutcomeClean]: no diagnostics
//   - [OutcomeFixedApplied]: every diagnostic was fixed
//   - [OutcomeFixesDeclined]: at least one diagnostic was left in place
//     (declined, dry run, or no fix available)
//   - [OutcomeFailed]: analysis or a fix application failed
//   - [OutcomeSkipped]: never started (fail-fast or stop)
//
// Results flow into an [Aggregator], which rejects duplicate records and
// derives the [OverallStatus] once the run completes.
//
// # Usage
//
//	r := doctor.New(lintEngine, fixApplier,
//	    doctor.WithApprover(gate),
//	    doctor.WithOutput(out),
//	)
//	res, err := r.Run(ctx, paths, doctor.Options{Concurrency: 4, FailFast: true})
//
// # Concurrency
//
// Path runs share only the output writer, the approver and the aggregator.
// Fail-fast and [Runner.Stop] only prevent new path runs from starting; a
// path that is already running finishes normally so fixes are never left
// half-applied.
package doctor
