package catalog

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://rickandmortyapi.com/api"

func newMockedClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	mock := httpmock.NewMockTransport()
	c, err := NewClient(testBase, WithHTTPClient(&http.Client{Transport: mock}))
	require.NoError(t, err)
	return c, mock
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "rickandmortyapi.com", u.Host)
	assert.Equal(t, "/api", u.Path)

	u, err = parseBaseURL("localhost:8080/api/?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "https://localhost:8080/api", u.String())

	_, err = parseBaseURL("https://")
	assert.Error(t, err)
}

func TestClient_ListPage(t *testing.T) {
	c, mock := newMockedClient(t)
	mock.RegisterResponder(http.MethodGet, testBase+"/character?page=2",
		httpmock.NewStringResponder(http.StatusOK, `{
			"info": {"count": 826, "pages": 42, "next": "https://rickandmortyapi.com/api/character?page=3", "prev": "https://rickandmortyapi.com/api/character?page=1"},
			"results": [
				{"id": 21, "name": "Aqua Morty", "status": "unknown", "origin": {"name": "unknown", "url": ""}},
				{"id": 22, "name": "Aqua Rick", "status": "unknown"}
			]
		}`))

	page, err := c.ListPage(context.Background(), CategoryCharacter, 2)
	require.NoError(t, err)
	assert.Equal(t, 42, page.Info.Pages)
	assert.True(t, page.Info.HasNext())
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, []int{21, 22}, page.IDs())
	ch, ok := page.Records[0].(Character)
	require.True(t, ok)
	assert.Equal(t, "Aqua Morty", ch.Name)
	assert.Equal(t, CategoryCharacter, ch.Category())
}

func TestClient_ListPageDecodesEachCategory(t *testing.T) {
	c, mock := newMockedClient(t)
	mock.RegisterResponder(http.MethodGet, testBase+"/location?page=1",
		httpmock.NewStringResponder(http.StatusOK, `{"info": {"pages": 7, "next": null}, "results": [{"id": 3, "name": "Citadel of Ricks", "residents": ["https://rickandmortyapi.com/api/character/8"]}]}`))
	mock.RegisterResponder(http.MethodGet, testBase+"/episode?page=1",
		httpmock.NewStringResponder(http.StatusOK, `{"info": {"pages": 3}, "results": [{"id": 28, "name": "The Ricklantis Mixup", "episode": "S03E07", "air_date": "September 10, 2017"}]}`))

	locations, err := c.ListPage(context.Background(), CategoryLocation, 1)
	require.NoError(t, err)
	assert.False(t, locations.Info.HasNext())
	loc := locations.Records[0].(Location)
	assert.Equal(t, []string{"https://rickandmortyapi.com/api/character/8"}, loc.Residents)

	episodes, err := c.ListPage(context.Background(), CategoryEpisode, 1)
	require.NoError(t, err)
	ep := episodes.Records[0].(Episode)
	assert.Equal(t, "S03E07", ep.Code)
	assert.Equal(t, "September 10, 2017", ep.AirDate)
}

func TestClient_ListPageRejectsBadInput(t *testing.T) {
	c, mock := newMockedClient(t)
	_, err := c.ListPage(context.Background(), CategoryCharacter, 0)
	assert.Error(t, err)
	_, err = c.ListPage(context.Background(), Category("planet"), 1)
	assert.Error(t, err)
	assert.Zero(t, mock.GetTotalCallCount())
}

func TestClient_GetByIDAndURL(t *testing.T) {
	c, mock := newMockedClient(t)
	mock.RegisterResponder(http.MethodGet, testBase+"/location/3",
		httpmock.NewStringResponder(http.StatusOK, `{"id": 3, "name": "Citadel of Ricks", "type": "Space station", "dimension": "unknown"}`))
	mock.RegisterResponder(http.MethodGet, testBase+"/episode/28",
		httpmock.NewStringResponder(http.StatusOK, `{"id": 28, "name": "The Ricklantis Mixup"}`))

	r, err := c.GetByID(context.Background(), CategoryLocation, 3)
	require.NoError(t, err)
	assert.Equal(t, "Citadel of Ricks", r.DisplayName())
	assert.Equal(t, "Space station", r.(Location).Type)

	r, err = c.GetByURL(context.Background(), testBase+"/episode/28")
	require.NoError(t, err)
	assert.Equal(t, CategoryEpisode, r.Category())
	assert.Equal(t, 28, r.EntityID())

	r, err = c.GetByURL(context.Background(), "location/3")
	require.NoError(t, err)
	assert.Equal(t, 3, r.EntityID())
}

func TestClient_GetByURLRejectsForeignHost(t *testing.T) {
	c, mock := newMockedClient(t)
	_, err := c.GetByURL(context.Background(), "https://example.com/api/character/1")
	assert.Error(t, err)
	assert.Zero(t, mock.GetTotalCallCount())
}

func TestClient_GetByURLStaysUnderAPIRoot(t *testing.T) {
	c, mock := newMockedClient(t)
	for _, ref := range []string{
		"https://rickandmortyapi.com/location/3",
		"/location/3",
		"../location/3",
		"https://rickandmortyapi.com/apix/location/3",
	} {
		_, err := c.GetByURL(context.Background(), ref)
		assert.Error(t, err, ref)
	}
	assert.Zero(t, mock.GetTotalCallCount())

	mock.RegisterResponder(http.MethodGet, testBase+"/character/2",
		httpmock.NewStringResponder(http.StatusOK, `{"id": 2, "name": "Morty Smith"}`))
	r, err := c.GetByURL(context.Background(), "./character/2")
	require.NoError(t, err)
	assert.Equal(t, 2, r.EntityID())
	assert.Equal(t, 1, mock.GetCallCountInfo()["GET "+testBase+"/character/2"])
}

func TestClient_HTTPErrorIsResourceUnavailable(t *testing.T) {
	c, mock := newMockedClient(t)
	mock.RegisterResponder(http.MethodGet, testBase+"/character?page=1",
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"error": "boom"}`))
	mock.RegisterResponder(http.MethodGet, testBase+"/character/9999",
		httpmock.NewStringResponder(http.StatusNotFound, `{"error": "Character not found"}`))
	mock.RegisterResponder(http.MethodGet, testBase+"/character/1",
		httpmock.NewErrorResponder(errors.New("connection reset")))

	_, err := c.ListPage(context.Background(), CategoryCharacter, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResourceUnavailable)
	assert.Contains(t, err.Error(), "returned status 500")

	_, err = c.GetByID(context.Background(), CategoryCharacter, 9999)
	assert.ErrorIs(t, err, ErrResourceUnavailable)

	_, err = c.GetByID(context.Background(), CategoryCharacter, 1)
	assert.ErrorIs(t, err, ErrResourceUnavailable)
}

func TestClient_DecodeError(t *testing.T) {
	c, mock := newMockedClient(t)
	mock.RegisterResponder(http.MethodGet, testBase+"/episode/1",
		httpmock.NewStringResponder(http.StatusOK, `{not-json`))

	_, err := c.GetByID(context.Background(), CategoryEpisode, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrResourceUnavailable)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_SendsUserAgent(t *testing.T) {
	c, mock := newMockedClient(t)
	var gotUserAgent string
	mock.RegisterResponder(http.MethodGet, testBase+"/character/1",
		func(req *http.Request) (*http.Response, error) {
			gotUserAgent = req.Header.Get("User-Agent")
			return httpmock.NewStringResponse(http.StatusOK, `{"id": 1, "name": "Rick Sanchez"}`), nil
		})

	_, err := c.GetByID(context.Background(), CategoryCharacter, 1)
	require.NoError(t, err)
	assert.Equal(t, defaultUserAgent, gotUserAgent)
}
