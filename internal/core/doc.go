// Package core provides the file operations behind every command and
// endpoint: reading text tables of unknown encoding and merging CSV exports
// with drifting columns.
//
// It is independent of any transport layer and can be used by the CLI, the
// HTTP server or tests without modification.
//
// # Encoding Fallback
//
// A [Reader] tries each configured encoding in order (UTF-8, then CP949 by
// default). A candidate only wins when it decodes every byte; a wrong guess
// never yields a table with replacement characters. When every candidate
// fails the Reader logs one diagnostic and returns a [DecodeError].
//
// # Merging
//
// A [Merger] loads all files matching *<suffix>.csv in a directory, unions
// their columns in first-seen order, zero-fills missing cells before and
// after concatenation, and writes the result atomically:
//
//	m := core.NewMerger(nil, logger)
//	res, err := m.Merge("exports", "_data", "merged.csv")
//
// A failed source aborts the run with a [SourceReadError] and leaves no
// output file.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE006: File errors (missing, syntax, encoding, permissions)
//   - MRG001-MRG003: Merge errors (source read, output write, path scope)
//   - NET001-NET003: Request errors (timeout, busy, bad body)
//   - DB001-DB002: Export errors
package core
