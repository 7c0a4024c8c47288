// Package analyze classifies the lines of a text document against a set of
// rules.
//
// Rules are checked line by line. A [FileRule] additionally inspects the
// last line once the whole input has been read. Fixable rules implement
// [Fixable] and can rewrite the offending line.
//
// Input that looks binary (a NUL byte in the first 8 KiB) is reported as
// [StatusBinary] with no findings.
package analyze
