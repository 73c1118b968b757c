// Package inbox watches a directory for new recordings and hands each
// completed file to a handler.
//
// A file counts as complete once it has gone Settle without another write
// event. Handlers run on a bounded worker pool; a failing handler is logged
// and does not stop the watcher.
package inbox
