package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/shared"
)

// DefaultPageSize is the number of products on one list page
const DefaultPageSize = 50

// Tab selects a status subset from the saved-view bar
type Tab int

const (
	TabAll Tab = iota
	TabActive
	TabDraft
	TabArchived
)

// Status returns the status a tab restricts to, "" for TabAll or unknown tabs
func (t Tab) Status() ProductStatus {
	switch t {
	case TabActive:
		return ProductStatusActive
	case TabDraft:
		return ProductStatusDraft
	case TabArchived:
		return ProductStatusArchived
	}
	return ""
}

// SortKey names a sortable product column
type SortKey string

const (
	SortByTitle      SortKey = "title"
	SortByCreated    SortKey = "created"
	SortByUpdated    SortKey = "updated"
	SortByInventory  SortKey = "inventory"
	SortByCollection SortKey = "collection"
)

// SortDirection is asc or desc
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort is a key plus direction, written "title asc"
type Sort struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}

// DefaultSort is "title asc"
var DefaultSort = Sort{Key: SortByTitle, Direction: SortAsc}

// SortOptions lists the sort choices offered by the list UI
var SortOptions = []Sort{
	{SortByTitle, SortAsc}, {SortByTitle, SortDesc},
	{SortByCreated, SortAsc}, {SortByCreated, SortDesc},
	{SortByUpdated, SortAsc}, {SortByUpdated, SortDesc},
	{SortByInventory, SortAsc}, {SortByInventory, SortDesc},
	{SortByCollection, SortAsc}, {SortByCollection, SortDesc},
}

// String renders the sort the way ParseSort reads it
func (s Sort) String() string {
	return string(s.Key) + " " + string(s.Direction)
}

// ParseSort reads "key direction". "update" is accepted as an alias of
// "updated". Unknown keys fall back to DefaultSort and a missing or unknown
// direction means asc.
func ParseSort(s string) Sort {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return DefaultSort
	}
	key := SortKey(fields[0])
	if key == "update" {
		key = SortByUpdated
	}
	switch key {
	case SortByTitle, SortByCreated, SortByUpdated, SortByInventory, SortByCollection:
	default:
		return DefaultSort
	}
	dir := SortAsc
	if len(fields) > 1 && SortDirection(fields[1]) == SortDesc {
		dir = SortDesc
	}
	return Sort{Key: key, Direction: dir}
}

// ProductQuery is the list state: filters, sort and page.
// All filters are ANDed.
type ProductQuery struct {
	Statuses     []ProductStatus `json:"statuses,omitempty"`
	TaggedWith   []string        `json:"taggedWith,omitempty"`
	CollectionID string          `json:"collectionId,omitempty"`
	GiftCard     *bool           `json:"giftCard,omitempty"`
	Tab          Tab             `json:"tab"`
	Query        string          `json:"query,omitempty"`
	Sort         Sort            `json:"sort"`
	Page         int             `json:"page,omitempty"`
	PageSize     int             `json:"pageSize,omitempty"`
}

// NewProductQuery returns an unfiltered query on page 1
func NewProductQuery() ProductQuery {
	return ProductQuery{Sort: DefaultSort, Page: 1, PageSize: DefaultPageSize}
}

// Validate checks enumerated fields
func (q ProductQuery) Validate() error {
	for _, s := range q.Statuses {
		if !s.IsValid() {
			return shared.NewDomainError("INVALID_STATUS", "Unknown product status: "+string(s))
		}
	}
	if q.Tab < TabAll || q.Tab > TabArchived {
		return shared.NewDomainError("INVALID_TAB", "Tab must be between 0 and 3")
	}
	if q.PageSize < 0 || q.PageSize > 250 {
		return shared.NewDomainError("INVALID_PAGE_SIZE", "Page size must be between 1 and 250")
	}
	return nil
}

// FilterKey identifies the filter and sort state, ignoring the page. Two
// queries with different keys show different lists, so paging restarts.
func (q ProductQuery) FilterKey() string {
	var b strings.Builder
	statuses := make([]string, 0, len(q.Statuses))
	for _, s := range q.Statuses {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)
	tags := append([]string(nil), q.TaggedWith...)
	sort.Strings(tags)

	b.WriteString(strings.Join(statuses, ","))
	b.WriteByte('|')
	b.WriteString(strings.Join(tags, ","))
	b.WriteByte('|')
	b.WriteString(q.CollectionID)
	b.WriteByte('|')
	if q.GiftCard != nil {
		b.WriteString(strconv.FormatBool(*q.GiftCard))
	}
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(int(q.Tab)))
	b.WriteByte('|')
	b.WriteString(q.Query)
	b.WriteByte('|')
	b.WriteString(q.Sort.String())
	return strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}

// ResetPageIfChanged moves back to page 1 when the filters differ from the
// ones the caller was paging through.
func (q ProductQuery) ResetPageIfChanged(previousKey string) ProductQuery {
	if previousKey != "" && previousKey != q.FilterKey() {
		q.Page = 1
	}
	return q
}

func (q ProductQuery) pageSize() int {
	if q.PageSize <= 0 {
		return DefaultPageSize
	}
	return q.PageSize
}

// Filter returns the products matching every filter, in input order
func (q ProductQuery) Filter(products []Product) []Product {
	m := newMatcher(q)
	out := make([]Product, 0, len(products))
	for i := range products {
		if m.match(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

// Apply filters, sorts and slices out the requested page. The page is
// clamped to [1, totalPages].
func (q ProductQuery) Apply(products []Product) shared.Paginated[Product] {
	filtered := SortProducts(q.Filter(products), q.Sort)
	size := q.pageSize()
	totalPages := shared.TotalPages(len(filtered), size)
	page := shared.ClampPage(q.Page, totalPages)

	start := (page - 1) * size
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	var items []Product
	if start < end {
		items = filtered[start:end]
	} else {
		items = []Product{}
	}
	return shared.NewPaginated(items, int64(len(filtered)), page, size)
}

// NextPage clamps to totalPages
func NextPage(page, totalPages int) int {
	return shared.ClampPage(page+1, totalPages)
}

// PreviousPage clamps to 1
func PreviousPage(page int) int {
	if page <= 1 {
		return 1
	}
	return page - 1
}

type matcher struct {
	q      ProductQuery
	folder cases.Caser
	needle string
}

func newMatcher(q ProductQuery) *matcher {
	m := &matcher{q: q, folder: cases.Fold()}
	m.needle = m.folder.String(strings.TrimSpace(q.Query))
	return m
}

func (m *matcher) match(p *Product) bool {
	q := m.q
	if len(q.Statuses) > 0 && !containsStatus(q.Statuses, p.Status) {
		return false
	}
	for _, tag := range q.TaggedWith {
		if !p.HasTag(tag) {
			return false
		}
	}
	if q.CollectionID != "" && !p.InCollection(q.CollectionID) {
		return false
	}
	if q.GiftCard != nil && p.IsGiftCard != *q.GiftCard {
		return false
	}
	if status := q.Tab.Status(); status != "" && p.Status != status {
		return false
	}
	if m.needle != "" && !strings.Contains(m.folder.String(p.Title), m.needle) {
		return false
	}
	return true
}

func containsStatus(set []ProductStatus, s ProductStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// SortProducts returns a sorted copy. The sort is stable so equal keys keep
// their load order.
func SortProducts(products []Product, s Sort) []Product {
	out := append([]Product(nil), products...)
	if len(out) < 2 {
		return out
	}
	less := comparator(s.Key)
	desc := s.Direction == SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(&out[j], &out[i])
		}
		return less(&out[i], &out[j])
	})
	return out
}

func comparator(key SortKey) func(a, b *Product) bool {
	switch key {
	case SortByCreated:
		return func(a, b *Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortByUpdated:
		return func(a, b *Product) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case SortByInventory:
		return func(a, b *Product) bool { return a.TotalInventory < b.TotalInventory }
	case SortByCollection:
		return func(a, b *Product) bool { return a.FirstCollectionTitle() < b.FirstCollectionTitle() }
	default:
		lower := cases.Lower(language.Und)
		return func(a, b *Product) bool { return lower.String(a.Title) < lower.String(b.Title) }
	}
}
