package browse

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/five82/rickview/internal/catalog"
	"github.com/five82/rickview/internal/favorites"
)

// Service sequences catalog fetches and favorites bookkeeping for the views.
type Service struct {
	catalog   catalog.Fetcher
	favorites *favorites.Store
}

// New returns a Service. Both collaborators are required.
func New(fetcher catalog.Fetcher, store *favorites.Store) *Service {
	return &Service{catalog: fetcher, favorites: store}
}

// ListResult is everything a list view renders for one page.
type ListResult struct {
	Page      catalog.Page
	Favorites favorites.Map
}

// LoadList loads the persisted favorites, fetches one page and reconciles the
// two. A failed fetch returns the error and nothing else is fetched.
func (s *Service) LoadList(ctx context.Context, category catalog.Category, page int) (ListResult, error) {
	saved := s.favorites.Load(category)
	p, err := s.catalog.ListPage(ctx, category, page)
	if err != nil {
		return ListResult{}, fmt.Errorf("load %s page %d: %w", category, page, err)
	}
	return ListResult{
		Page:      p,
		Favorites: favorites.Reconcile(saved, p.IDs()),
	}, nil
}

// Related is one cross-referenced entity shown on a detail view. Record is
// nil for references listed by id only.
type Related struct {
	Label  string
	Ref    Ref
	Record catalog.Record
}

// Ref identifies an entity without its data.
type Ref struct {
	Category catalog.Category
	ID       int
}

// Detail is a record and its resolved cross-references.
type Detail struct {
	Record  catalog.Record
	Related []Related
	Liked   bool
}

// LoadDetail fetches a record and resolves its references as one batch. Any
// failed reference fails the whole detail.
func (s *Service) LoadDetail(ctx context.Context, category catalog.Category, id int) (Detail, error) {
	rec, err := s.catalog.GetByID(ctx, category, id)
	if err != nil {
		return Detail{}, fmt.Errorf("load %s %d: %w", category, id, err)
	}
	detail := Detail{Record: rec, Liked: s.favorites.Load(category)[id]}

	switch r := rec.(type) {
	case catalog.Character:
		labels, urls := characterPlaces(r)
		resolved, err := s.ResolveAll(ctx, urls)
		if err != nil {
			return Detail{}, fmt.Errorf("resolve places of %s: %w", r.Name, err)
		}
		for i, rr := range resolved {
			detail.Related = append(detail.Related, related(labels[i], rr))
		}
		for _, epID := range catalog.IDsFromReferenceURLs(r.Episode) {
			detail.Related = append(detail.Related, Related{
				Label: "Episode",
				Ref:   Ref{Category: catalog.CategoryEpisode, ID: epID},
			})
		}
	case catalog.Location:
		resolved, err := s.ResolveAll(ctx, r.Residents)
		if err != nil {
			return Detail{}, fmt.Errorf("resolve residents of %s: %w", r.Name, err)
		}
		for _, rr := range resolved {
			detail.Related = append(detail.Related, related("Resident", rr))
		}
	case catalog.Episode:
		resolved, err := s.ResolveAll(ctx, r.Characters)
		if err != nil {
			return Detail{}, fmt.Errorf("resolve characters of %s: %w", r.Name, err)
		}
		for _, rr := range resolved {
			detail.Related = append(detail.Related, related("Character", rr))
		}
	}
	return detail, nil
}

// characterPlaces returns origin and last known location, skipping unknowns.
func characterPlaces(c catalog.Character) (labels, urls []string) {
	for _, p := range []struct {
		label string
		ref   catalog.Reference
	}{{"Origin", c.Origin}, {"Location", c.Location}} {
		if strings.TrimSpace(p.ref.URL) == "" {
			continue
		}
		labels = append(labels, p.label)
		urls = append(urls, p.ref.URL)
	}
	return labels, urls
}

func related(label string, r catalog.Record) Related {
	return Related{
		Label:  label,
		Ref:    Ref{Category: r.Category(), ID: r.EntityID()},
		Record: r,
	}
}

// ResolveAll fetches every URL concurrently and waits for all of them. The
// result order matches urls. The first failure cancels the rest and is
// returned; no partial result is produced.
func (s *Service) ResolveAll(ctx context.Context, urls []string) ([]catalog.Record, error) {
	out := make([]catalog.Record, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			r, err := s.catalog.GetByURL(ctx, u)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FavoritesResult is what a favorites listing renders.
type FavoritesResult struct {
	Records   []catalog.Record
	Favorites favorites.Map
}

// LoadFavorites fetches every favorited entity of a category by id. Records
// are ordered by id. Any failed fetch fails the whole listing.
func (s *Service) LoadFavorites(ctx context.Context, category catalog.Category) (FavoritesResult, error) {
	saved := s.favorites.Load(category)
	liked := favorites.CollectFavoriteIDs(saved)
	ids := slices.Sorted(liked.All())
	if len(ids) == 0 {
		return FavoritesResult{Favorites: saved}, nil
	}

	records := make([]catalog.Record, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			r, err := s.catalog.GetByID(gctx, category, id)
			if err != nil {
				return err
			}
			records[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return FavoritesResult{}, fmt.Errorf("load favorite %s: %w", category.Label(), err)
	}
	slog.Debug("Loaded favorites", "category", category, "count", len(records))
	return FavoritesResult{Records: records, Favorites: saved}, nil
}

// Toggle flips the favorite flag for id and returns the map the view should
// adopt, reconciled with the ids it currently shows. On a persist failure the
// flipped map is still returned together with the error.
func (s *Service) Toggle(category catalog.Category, id int, visibleIDs []int) (favorites.Map, error) {
	m, err := s.favorites.Toggle(category, id)
	return favorites.Reconcile(m, visibleIDs), err
}

// Favorites returns the persisted map for a category.
func (s *Service) Favorites(category catalog.Category) favorites.Map {
	return s.favorites.Load(category)
}

// Filter keeps records whose display name contains term, ignoring case.
func Filter(records []catalog.Record, term string) []catalog.Record {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	out := make([]catalog.Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.DisplayName()), term) {
			out = append(out, r)
		}
	}
	return out
}
