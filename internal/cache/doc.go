// Package cache stores analysis findings on disk so unchanged files are not
// re-analyzed.
//
// Entries live under the user cache directory (~/.cache/doclint on Linux)
// and are keyed by a hash of the file content and the active rule set, so a
// changed file or a changed configuration is always a miss:
//
//	~/.cache/doclint/
//	  .lock
//	  3f/3fa1...e9.msgpack
//
// Entries are msgpack-encoded and written atomically. Writers hold an
// exclusive lock on .lock so concurrent doclint processes do not race a
// [Store.Clear]. A corrupt or unreadable entry is treated as a miss.
//
// The cache only short-circuits analysis. Fixes always re-read the file.
package cache
