package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Category partitions the catalog. Each category has its own listing and
// detail endpoints and its own favorites namespace.
type Category string

const (
	CategoryCharacter Category = "character"
	CategoryLocation  Category = "location"
	CategoryEpisode   Category = "episode"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CategoryCharacter, CategoryLocation, CategoryEpisode}
}

// ParseCategory accepts the API path name or its plural form.
func ParseCategory(value string) (Category, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.TrimSuffix(v, "s")
	for _, c := range Categories() {
		if string(c) == v {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", value)
}

// Label returns the plural display name.
func (c Category) Label() string {
	switch c {
	case CategoryCharacter:
		return "Characters"
	case CategoryLocation:
		return "Locations"
	case CategoryEpisode:
		return "Episodes"
	default:
		return string(c)
	}
}

// Record is any entity returned by the catalog.
type Record interface {
	EntityID() int
	Category() Category
	DisplayName() string
}

var (
	_ Record = Character{}
	_ Record = Location{}
	_ Record = Episode{}
)

// Reference is a named link embedded in a record, e.g. a character's origin.
// URL is empty when the API does not know the target.
type Reference struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Character mirrors /character/{id}.
type Character struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
	Species  string    `json:"species"`
	Type     string    `json:"type"`
	Gender   string    `json:"gender"`
	Origin   Reference `json:"origin"`
	Location Reference `json:"location"`
	Image    string    `json:"image"`
	Episode  []string  `json:"episode"`
	URL      string    `json:"url"`
	Created  string    `json:"created"`
}

func (c Character) EntityID() int       { return c.ID }
func (c Character) Category() Category  { return CategoryCharacter }
func (c Character) DisplayName() string { return c.Name }

// ParsedCreated returns the creation timestamp or the zero time.
func (c Character) ParsedCreated() time.Time { return parseTime(c.Created) }

// Location mirrors /location/{id}.
type Location struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Dimension string   `json:"dimension"`
	Residents []string `json:"residents"`
	URL       string   `json:"url"`
	Created   string   `json:"created"`
}

func (l Location) EntityID() int       { return l.ID }
func (l Location) Category() Category  { return CategoryLocation }
func (l Location) DisplayName() string { return l.Name }

// ParsedCreated returns the creation timestamp or the zero time.
func (l Location) ParsedCreated() time.Time { return parseTime(l.Created) }

// Episode mirrors /episode/{id}.
type Episode struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	AirDate    string   `json:"air_date"`
	Code       string   `json:"episode"`
	Characters []string `json:"characters"`
	URL        string   `json:"url"`
	Created    string   `json:"created"`
}

func (e Episode) EntityID() int       { return e.ID }
func (e Episode) Category() Category  { return CategoryEpisode }
func (e Episode) DisplayName() string { return e.Name }

// ParsedCreated returns the creation timestamp or the zero time.
func (e Episode) ParsedCreated() time.Time { return parseTime(e.Created) }

// PageInfo mirrors the info block of a listing response.
type PageInfo struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// HasNext reports whether another page follows.
func (p PageInfo) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// Page is one page of a category listing.
type Page struct {
	Info    PageInfo
	Number  int
	Records []Record
}

// IDs returns the entity ids on the page in listing order.
func (p Page) IDs() []int {
	ids := make([]int, 0, len(p.Records))
	for _, r := range p.Records {
		ids = append(ids, r.EntityID())
	}
	return ids
}

type listResponse[T Record] struct {
	Info    PageInfo `json:"info"`
	Results []T      `json:"results"`
}

func (r listResponse[T]) page(number int) Page {
	records := make([]Record, 0, len(r.Results))
	for _, v := range r.Results {
		records = append(records, v)
	}
	return Page{Info: r.Info, Number: number, Records: records}
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
