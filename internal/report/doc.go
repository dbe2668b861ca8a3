// Package report provides the sinks and formatters that present probe results.
//
// # Sinks
//
//   - CountingSink counts distinct probe names and OK results
//   - ConsoleSink prints "name => STATUS(retries)" lines as results arrive
//   - Recorder keeps the latest result of each probe for the final report
//   - Tee fans results out to several sinks
//
// # Basic Usage
//
//	console := report.NewConsoleSink(os.Stdout, report.DefaultConsoleOptions())
//	recorder := report.NewRecorder()
//	engine := probe.NewEngine(report.Tee(console, recorder))
//
//	// ... run probes ...
//
//	console.PrintSummary()
//	formatter := report.NewFormatter(report.FormatTable)
//	formatter.FormatOutcomes(os.Stdout, recorder.Outcomes())
//
// # Formatters
//
// Table Formatter (kubectl-style):
//   - Borderless tables with tab-separated columns
//   - Optional color highlighting for status and probe names
//   - Summary line with success and failure counts
//   - Wide mode adds the first line of each probe's message
//
// JSON and YAML formatters write a document with a summary and one entry
// per probe, suitable for scripting.
//
// # Color Support
//
// Colors are automatically enabled for TTY outputs and can be disabled with
// WithNoColor(true), ConsoleOptions.NoColor or non-TTY output.
package report
