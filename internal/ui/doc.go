// Package ui provides the Bubble Tea terminal interface for rickview.
//
// # Package Structure
//
//   - app.go: Model, Update loop, fetch commands and the Run function
//   - navigation.go: Navigation stack, cursor movement and per-view key handling
//   - header.go: Header, command bar, home menu, loading and error states
//   - list.go: Category pages and favorites listings
//   - detail.go: Record detail with related entities in a viewport
//   - theme.go, style_helpers.go, layout.go: Colors, backgrounds and boxes
//
// # View Types
//
//   - Home: Menu of categories and favorites listings
//   - List: One page of a category with favorite markers and a name filter
//   - Favorites: Every favorited entity of a category
//   - Detail: One record and its resolved cross-references
//
// # Event Flow
//
//  1. Entering a view pushes it on the navigation stack and starts a fetch
//  2. The fetch runs as a tea.Cmd and returns a message tagged with a sequence
//  3. Messages with an outdated sequence are dropped, so only the latest
//     navigation populates the view
//  4. A failed fetch replaces the content with an error until "r" retries or
//     "esc" leaves the view
//
// Going back refetches the restored view.
//
// # Key Bindings
//
//   - 1/2/3: Characters, locations, episodes
//   - f: Favorites of the current category
//   - j/k, g/G: Move the cursor
//   - enter: Open the selected row or follow the selected reference
//   - space: Toggle favorite
//   - n/p: Next and previous page
//   - /: Filter the current page by name
//   - r: Reload
//   - T: Cycle theme
//   - esc: Clear filter or go back
//   - q or Ctrl+C: Exit
package ui
