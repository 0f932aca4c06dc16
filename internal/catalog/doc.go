// Package catalog provides an HTTP client for the Rick and Morty catalog API.
//
// # Overview
//
// The catalog is an external, read-only, paginated JSON API with three entity
// categories: character, location and episode. Every entity carries a stable
// positive integer id and fully qualified cross-reference URLs to related
// entities. This package treats the API as an opaque data source: only the
// fields rickview displays are decoded, everything else is ignored.
//
// # Endpoints
//
//   - GET {base}/{category}?page=N: one page of a listing, {info, results}
//   - GET {base}/{category}/{id}: a single record
//   - GET <cross-reference URL>: a record linked from another record
//
// The default base is https://rickandmortyapi.com/api.
//
// # Error Handling
//
// Any non-2xx status and any transport failure wrap ErrResourceUnavailable:
//
//	page, err := client.ListPage(ctx, catalog.CategoryCharacter, 1)
//	if errors.Is(err, catalog.ErrResourceUnavailable) {
//		// show the error, stop populating the view
//	}
//
// There is no retry. A failure ends the fetch and the caller decides whether
// the user may try again.
//
// # Reference URLs
//
// IDFromReferenceURL and ParseReference are pure helpers: the id is the last
// path segment, the category the one before it. Unknown origins are reported
// by the API as an empty URL and fail to parse.
//
// # Pacing
//
// WithRateLimit installs a token bucket in front of every request. The
// favorites view resolves each favorite by id in parallel, so pacing keeps a
// large favorites list from bursting the public API.
package catalog
