// Package docview maintains ordered query results over documents and
// explains every new result as a minimal, ordered list of changes.
//
// A result is a DocumentSet: documents ordered by the query's comparator,
// with key lookup and positional access. Diff compares two results and
// reports each document as Added, Removed, Modified or (when only its
// pending-write state changed) Metadata, together with the positions that
// let a UI list replay the change list. A Snapshot bundles a result with
// its change list and sync metadata.
//
// The default adapter reads a directory of YAML/JSON files as a collection
// and streams snapshots as the files change.
//
// Usage:
//
//	src, err := docview.Open("./rooms",
//		docview.WithOrderBy("rank", docview.Descending),
//		docview.WithLogger(logger),
//	)
//
//	snaps, err := src.Watch(ctx)
//	for snap := range snaps {
//		for _, c := range snap.Changes() {
//			fmt.Println(c)
//		}
//	}
package docview
