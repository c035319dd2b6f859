package stores

// ProductStore abstracts the product catalog. The built-in implementation
// is an in-memory slice guarded by a RWMutex, plenty for dev & unit tests;
// production deployments use the sqlite implementation.

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/theapemachine/shopchat/pkg/chatbot"
	"github.com/theapemachine/shopchat/pkg/errors"
	"github.com/theapemachine/shopchat/pkg/types"
)

/*
ProductFilter narrows a catalog listing. Nil pointers mean "no filter";
price bounds are inclusive.
*/
type ProductFilter struct {
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	Featured *bool
	OnSale   *bool
	Limit    int
	Offset   int
}

type ProductStore interface {
	Search(ctx context.Context, criteria chatbot.SearchCriteria, limit int) ([]types.Product, error)
	Query(ctx context.Context, query string, limit int) ([]types.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]types.Product, int, error)
	Get(ctx context.Context, id int64) (*types.Product, error)
	Put(ctx context.Context, product *types.Product) error
	Categories(ctx context.Context) ([]string, error)
	Brands(ctx context.Context) ([]string, error)
}

// InMemoryProductStore is the default implementation.
type InMemoryProductStore struct {
	mu       sync.RWMutex
	products []types.Product
	nextID   int64
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{nextID: 1}
}

func (store *InMemoryProductStore) Put(ctx context.Context, product *types.Product) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if product.ID == 0 {
		product.ID = store.nextID
		store.nextID++
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	store.products = append(store.products, *product)
	return nil
}

func (store *InMemoryProductStore) Get(ctx context.Context, id int64) (*types.Product, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	for _, product := range store.products {
		if product.ID == id {
			found := product
			return &found, nil
		}
	}

	return nil, errors.ErrProductNotFound
}

/*
Search applies extracted chat criteria: keyword OR-matching over name and
description, substring matching for category and brand, inclusive price
bounds. All string matching is case-insensitive.
*/
func (store *InMemoryProductStore) Search(
	ctx context.Context, criteria chatbot.SearchCriteria, limit int,
) ([]types.Product, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	results := []types.Product{}
	for _, product := range store.products {
		if !matchesCriteria(&product, criteria) {
			continue
		}
		results = append(results, product)
		if limit > 0 && len(results) == limit {
			break
		}
	}

	return results, nil
}

func matchesCriteria(product *types.Product, criteria chatbot.SearchCriteria) bool {
	if len(criteria.Keywords) > 0 && !matchesAnyKeyword(product, criteria.Keywords) {
		return false
	}
	if criteria.Category != "" && !containsFold(product.Category, criteria.Category) {
		return false
	}
	if criteria.Brand != "" && !containsFold(product.Brand, criteria.Brand) {
		return false
	}
	if criteria.MinPrice != nil && product.Price < *criteria.MinPrice {
		return false
	}
	if criteria.MaxPrice != nil && product.Price > *criteria.MaxPrice {
		return false
	}
	return true
}

func matchesAnyKeyword(product *types.Product, keywords []string) bool {
	for _, keyword := range keywords {
		if containsFold(product.Name, keyword) || containsFold(product.Description, keyword) {
			return true
		}
	}
	return false
}

/*
Query is the free-text catalog search behind /api/products/search: one
term matched against name, description, brand and category.
*/
func (store *InMemoryProductStore) Query(
	ctx context.Context, query string, limit int,
) ([]types.Product, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	results := []types.Product{}
	for _, product := range store.products {
		if !containsFold(product.Name, query) &&
			!containsFold(product.Description, query) &&
			!containsFold(product.Brand, query) &&
			!containsFold(product.Category, query) {
			continue
		}
		results = append(results, product)
		if limit > 0 && len(results) == limit {
			break
		}
	}

	return results, nil
}

/*
List returns one page of the filtered catalog plus the total match count,
so handlers can report has_more.
*/
func (store *InMemoryProductStore) List(
	ctx context.Context, filter ProductFilter,
) ([]types.Product, int, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	matched := []types.Product{}
	for _, product := range store.products {
		if !matchesFilter(&product, filter) {
			continue
		}
		matched = append(matched, product)
	}

	total := len(matched)
	if filter.Offset >= total {
		return []types.Product{}, total, nil
	}

	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

func matchesFilter(product *types.Product, filter ProductFilter) bool {
	if filter.Category != "" && !containsFold(product.Category, filter.Category) {
		return false
	}
	if filter.Brand != "" && !containsFold(product.Brand, filter.Brand) {
		return false
	}
	if filter.MinPrice != nil && product.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && product.Price > *filter.MaxPrice {
		return false
	}
	if filter.Featured != nil && product.IsFeatured != *filter.Featured {
		return false
	}
	if filter.OnSale != nil && product.IsOnSale != *filter.OnSale {
		return false
	}
	return true
}

func (store *InMemoryProductStore) Categories(ctx context.Context) ([]string, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return distinct(store.products, func(p types.Product) string { return p.Category }), nil
}

func (store *InMemoryProductStore) Brands(ctx context.Context) ([]string, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return distinct(store.products, func(p types.Product) string { return p.Brand }), nil
}

func distinct(products []types.Product, key func(types.Product) string) []string {
	seen := map[string]struct{}{}
	values := []string{}

	for _, product := range products {
		value := key(product)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}

	sort.Strings(values)
	return values
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
