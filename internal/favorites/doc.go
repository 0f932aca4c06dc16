// Package favorites persists the user's liked flags per catalog entity.
//
// Each category (character, location, episode) owns one Map stored under its
// own key in a textual key-value Backend. The value is a JSON object mapping
// decimal id strings to booleans:
//
//	{"1": true, "5": false, "42": true}
//
// The map is loaded in full, flipped in memory and rewritten in full on every
// toggle. Entries toggled off stay as false; nothing is ever deleted.
//
// Load never fails. Missing keys, read errors and corrupt JSON all produce an
// empty map so that broken storage cannot block browsing.
//
// Reconcile and CollectFavoriteIDs are pure functions over a Map and do not
// touch the Backend.
package favorites
