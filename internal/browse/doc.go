// Package browse sequences what each view needs from the catalog and the
// favorites store.
//
// A list view loads the saved favorites for its category, fetches one page
// and reconciles the two. A detail view fetches one record and resolves its
// cross-references as a single batch: every reference must resolve or the
// whole detail fails. A favorites view collects the liked ids and fetches
// each record by id.
//
// Fetch errors are returned wrapped and are never partially applied. Storage
// problems never surface from loads; only a failed Toggle persist reports an
// error, alongside the map the view should still adopt.
package browse
