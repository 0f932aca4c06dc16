package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/rickview/internal/catalog"
	"github.com/five82/rickview/internal/favorites"
)

// fakeFetcher serves records from memory and counts calls.
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[catalog.Category]map[int]catalog.Page
	records map[string]catalog.Record
	fail    map[string]error
	calls   []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:   map[catalog.Category]map[int]catalog.Page{},
		records: map[string]catalog.Record{},
		fail:    map[string]error{},
	}
}

func recordKey(category catalog.Category, id int) string {
	return fmt.Sprintf("%s/%d", category, id)
}

func (f *fakeFetcher) addPage(category catalog.Category, number int, records ...catalog.Record) {
	if f.pages[category] == nil {
		f.pages[category] = map[int]catalog.Page{}
	}
	f.pages[category][number] = catalog.Page{Number: number, Info: catalog.PageInfo{Pages: 1}, Records: records}
	for _, r := range records {
		f.add(r)
	}
}

func (f *fakeFetcher) add(records ...catalog.Record) {
	for _, r := range records {
		f.records[recordKey(r.Category(), r.EntityID())] = r
	}
}

func (f *fakeFetcher) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) ListPage(_ context.Context, category catalog.Category, page int) (catalog.Page, error) {
	key := fmt.Sprintf("%s?page=%d", category, page)
	f.record(key)
	if err := f.fail[key]; err != nil {
		return catalog.Page{}, err
	}
	p, ok := f.pages[category][page]
	if !ok {
		return catalog.Page{}, fmt.Errorf("%w: status 404", catalog.ErrResourceUnavailable)
	}
	return p, nil
}

func (f *fakeFetcher) GetByID(_ context.Context, category catalog.Category, id int) (catalog.Record, error) {
	key := recordKey(category, id)
	f.record(key)
	if err := f.fail[key]; err != nil {
		return nil, err
	}
	r, ok := f.records[key]
	if !ok {
		return nil, fmt.Errorf("%w: status 404", catalog.ErrResourceUnavailable)
	}
	return r, nil
}

func (f *fakeFetcher) GetByURL(ctx context.Context, rawURL string) (catalog.Record, error) {
	category, id, err := catalog.ParseReference(rawURL)
	if err != nil {
		return nil, err
	}
	return f.GetByID(ctx, category, id)
}

func refURL(category catalog.Category, id int) string {
	return fmt.Sprintf("https://rickandmortyapi.com/api/%s/%d", category, id)
}

func newService(f *fakeFetcher) (*Service, *favorites.Store) {
	store := favorites.New(&favorites.MemoryBackend{})
	return New(f, store), store
}

func TestLoadList_ReconcilesWithSavedFavorites(t *testing.T) {
	f := newFakeFetcher()
	f.addPage(catalog.CategoryCharacter, 2,
		catalog.Character{ID: 9, Name: "Annie"},
		catalog.Character{ID: 10, Name: "Antenna Morty"},
	)
	svc, store := newService(f)
	_, err := store.Toggle(catalog.CategoryCharacter, 3)
	require.NoError(t, err)
	_, err = store.Toggle(catalog.CategoryCharacter, 9)
	require.NoError(t, err)
	_, err = store.Toggle(catalog.CategoryCharacter, 9)
	require.NoError(t, err)

	res, err := svc.LoadList(context.Background(), catalog.CategoryCharacter, 2)
	require.NoError(t, err)
	assert.Equal(t, favorites.Map{3: true, 9: false, 10: false}, res.Favorites)
	assert.Equal(t, []int{9, 10}, res.Page.IDs())
}

func TestLoadList_ShowsToggledFavorite(t *testing.T) {
	f := newFakeFetcher()
	f.addPage(catalog.CategoryCharacter, 1,
		catalog.Character{ID: 4, Name: "Alan Rails"},
		catalog.Character{ID: 5, Name: "Alien Googah"},
	)
	svc, _ := newService(f)

	m, err := svc.Toggle(catalog.CategoryCharacter, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, favorites.Map{5: true}, m)

	res, err := svc.LoadList(context.Background(), catalog.CategoryCharacter, 1)
	require.NoError(t, err)
	assert.True(t, res.Favorites[5])
	assert.False(t, res.Favorites[4])
}

func TestLoadList_ServerErrorStopsFurtherFetches(t *testing.T) {
	f := newFakeFetcher()
	f.fail["character?page=1"] = fmt.Errorf("%w: status 500", catalog.ErrResourceUnavailable)
	svc, store := newService(f)
	_, err := store.Toggle(catalog.CategoryCharacter, 1)
	require.NoError(t, err)

	res, err := svc.LoadList(context.Background(), catalog.CategoryCharacter, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrResourceUnavailable)
	assert.Empty(t, res.Page.Records)
	assert.Nil(t, res.Favorites)
	assert.Equal(t, 1, f.callCount())
}

func TestLoadDetail_LocationResolvesResidentsInOrder(t *testing.T) {
	f := newFakeFetcher()
	f.add(
		catalog.Character{ID: 38, Name: "Beth Smith"},
		catalog.Character{ID: 45, Name: "Bill"},
		catalog.Character{ID: 71, Name: "Conroy"},
		catalog.Location{ID: 1, Name: "Earth (C-137)", Residents: []string{
			refURL(catalog.CategoryCharacter, 71),
			refURL(catalog.CategoryCharacter, 38),
			refURL(catalog.CategoryCharacter, 45),
		}},
	)
	svc, _ := newService(f)

	d, err := svc.LoadDetail(context.Background(), catalog.CategoryLocation, 1)
	require.NoError(t, err)
	require.Len(t, d.Related, 3)
	var names []string
	for _, r := range d.Related {
		assert.Equal(t, "Resident", r.Label)
		names = append(names, r.Record.DisplayName())
	}
	assert.Equal(t, []string{"Conroy", "Beth Smith", "Bill"}, names)
	assert.False(t, d.Liked)
}

func TestLoadDetail_OneMissingResidentFailsWholeDetail(t *testing.T) {
	f := newFakeFetcher()
	f.add(
		catalog.Character{ID: 1, Name: "Rick Sanchez"},
		catalog.Character{ID: 2, Name: "Morty Smith"},
		catalog.Location{ID: 20, Name: "Earth (Replacement Dimension)", Residents: []string{
			refURL(catalog.CategoryCharacter, 1),
			refURL(catalog.CategoryCharacter, 404),
			refURL(catalog.CategoryCharacter, 2),
		}},
	)
	svc, _ := newService(f)

	d, err := svc.LoadDetail(context.Background(), catalog.CategoryLocation, 20)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrResourceUnavailable)
	assert.Nil(t, d.Record)
	assert.Empty(t, d.Related)
}

func TestLoadDetail_CharacterPlacesAndEpisodeRefs(t *testing.T) {
	f := newFakeFetcher()
	f.add(
		catalog.Location{ID: 1, Name: "Earth (C-137)"},
		catalog.Location{ID: 3, Name: "Citadel of Ricks"},
		catalog.Character{
			ID:       1,
			Name:     "Rick Sanchez",
			Origin:   catalog.Reference{Name: "Earth (C-137)", URL: refURL(catalog.CategoryLocation, 1)},
			Location: catalog.Reference{Name: "Citadel of Ricks", URL: refURL(catalog.CategoryLocation, 3)},
			Episode:  []string{refURL(catalog.CategoryEpisode, 1), refURL(catalog.CategoryEpisode, 2)},
		},
		catalog.Character{ID: 2, Name: "Morty Smith", Origin: catalog.Reference{Name: "unknown"}},
	)
	svc, store := newService(f)
	_, err := store.Toggle(catalog.CategoryCharacter, 1)
	require.NoError(t, err)

	d, err := svc.LoadDetail(context.Background(), catalog.CategoryCharacter, 1)
	require.NoError(t, err)
	assert.True(t, d.Liked)
	require.Len(t, d.Related, 4)
	assert.Equal(t, "Origin", d.Related[0].Label)
	assert.Equal(t, "Earth (C-137)", d.Related[0].Record.DisplayName())
	assert.Equal(t, "Location", d.Related[1].Label)
	assert.Equal(t, Ref{Category: catalog.CategoryLocation, ID: 3}, d.Related[1].Ref)
	assert.Nil(t, d.Related[2].Record, "episodes are listed by id only")
	assert.Equal(t, Ref{Category: catalog.CategoryEpisode, ID: 2}, d.Related[3].Ref)

	calls := f.callCount()
	d, err = svc.LoadDetail(context.Background(), catalog.CategoryCharacter, 2)
	require.NoError(t, err)
	assert.Empty(t, d.Related)
	assert.Equal(t, calls+1, f.callCount(), "unknown origin is not fetched")
}

func TestLoadDetail_EpisodeResolvesCharacters(t *testing.T) {
	f := newFakeFetcher()
	f.add(
		catalog.Character{ID: 1, Name: "Rick Sanchez"},
		catalog.Episode{ID: 1, Name: "Pilot", Code: "S01E01", Characters: []string{refURL(catalog.CategoryCharacter, 1)}},
	)
	svc, _ := newService(f)

	d, err := svc.LoadDetail(context.Background(), catalog.CategoryEpisode, 1)
	require.NoError(t, err)
	require.Len(t, d.Related, 1)
	assert.Equal(t, "Character", d.Related[0].Label)
	assert.Equal(t, "Rick Sanchez", d.Related[0].Record.DisplayName())
}

func TestLoadDetail_PrimaryFetchFailure(t *testing.T) {
	f := newFakeFetcher()
	svc, _ := newService(f)
	_, err := svc.LoadDetail(context.Background(), catalog.CategoryEpisode, 99)
	assert.ErrorIs(t, err, catalog.ErrResourceUnavailable)
	assert.Equal(t, 1, f.callCount())
}

func TestResolveAll_Empty(t *testing.T) {
	svc, _ := newService(newFakeFetcher())
	got, err := svc.ResolveAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadFavorites_FetchesOnlyLikedIDsInOrder(t *testing.T) {
	f := newFakeFetcher()
	f.add(
		catalog.Episode{ID: 3, Name: "Anatomy Park"},
		catalog.Episode{ID: 12, Name: "A Rickle in Time"},
		catalog.Episode{ID: 7, Name: "Raising Gazorpazorp"},
	)
	svc, store := newService(f)
	for _, id := range []int{12, 3, 7, 7} {
		_, err := store.Toggle(catalog.CategoryEpisode, id)
		require.NoError(t, err)
	}

	res, err := svc.LoadFavorites(context.Background(), catalog.CategoryEpisode)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 3, res.Records[0].EntityID())
	assert.Equal(t, 12, res.Records[1].EntityID())
	assert.Equal(t, 2, f.callCount(), "false entries are not fetched")
	assert.False(t, res.Favorites[7])
}

func TestLoadFavorites_EmptyMakesNoCalls(t *testing.T) {
	f := newFakeFetcher()
	svc, _ := newService(f)
	res, err := svc.LoadFavorites(context.Background(), catalog.CategoryLocation)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, 0, f.callCount())
}

func TestLoadFavorites_AnyFailureFailsListing(t *testing.T) {
	f := newFakeFetcher()
	f.add(catalog.Location{ID: 1, Name: "Earth (C-137)"})
	svc, store := newService(f)
	for _, id := range []int{1, 2} {
		_, err := store.Toggle(catalog.CategoryLocation, id)
		require.NoError(t, err)
	}
	res, err := svc.LoadFavorites(context.Background(), catalog.CategoryLocation)
	require.Error(t, err)
	assert.Empty(t, res.Records)
}

type brokenBackend struct{ favorites.MemoryBackend }

func (b *brokenBackend) Write(string, []byte) error { return errors.New("read-only") }

func TestToggle_ReconcilesVisibleIDsAndReportsPersistFailure(t *testing.T) {
	svc := New(newFakeFetcher(), favorites.New(&brokenBackend{}))
	m, err := svc.Toggle(catalog.CategoryLocation, 2, []int{1, 2, 3})
	assert.Error(t, err)
	assert.Equal(t, favorites.Map{1: false, 2: true, 3: false}, m)
}

func TestFilter(t *testing.T) {
	records := []catalog.Record{
		catalog.Character{ID: 1, Name: "Rick Sanchez"},
		catalog.Character{ID: 2, Name: "Morty Smith"},
		catalog.Character{ID: 8, Name: "Adjudicator Rick"},
	}
	tests := []struct {
		term string
		want []int
	}{
		{"", []int{1, 2, 8}},
		{"  ", []int{1, 2, 8}},
		{"rick", []int{1, 8}},
		{"SMITH", []int{2}},
		{" morty ", []int{2}},
		{"jerry", nil},
	}
	for _, tt := range tests {
		var got []int
		for _, r := range Filter(records, tt.term) {
			got = append(got, r.EntityID())
		}
		assert.Equal(t, tt.want, got, "term %q", tt.term)
	}
}
