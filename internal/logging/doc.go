// Package logging provides opt-in, per-run file logging for folder2index.
// When the --debug flag is set, each run writes JSON records to a fresh
// ~/.folder2index/logs/folder2index.log, mirrored to stderr. The logs of
// the previous runs are kept as folder2index.log.1 to .5.
//
// By default (without --debug), log records are discarded: standard output
// carries the progress messages and nothing else.
package logging
