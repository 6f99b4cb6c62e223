package client

import (
	"context"
	"sync"

	"userdesk/internal/entity"
	"userdesk/internal/entity/converter"
)

// Filters is the listing's current query.
type Filters struct {
	Departments []string
	Search      string
	Page        int
	Limit       int
}

func defaultFilters() Filters {
	return Filters{Departments: []string{}, Page: DefaultPage, Limit: DefaultLimit}
}

// FilterUpdate changes only its non-nil fields.
type FilterUpdate struct {
	Departments *[]string
	Search      *string
	Page        *int
	Limit       *int
}

// View is the page currently shown to the user.
type View struct {
	Users      []entity.User
	TotalItems int
}

// Listing keeps filters and a view over a Cache, the way a paged table does.
type Listing struct {
	cache *Cache

	mu      sync.Mutex
	filters Filters
	view    View
}

func NewListing(cache *Cache) *Listing {
	return &Listing{cache: cache, filters: defaultFilters(), view: View{Users: []entity.User{}}}
}

func (l *Listing) Filters() Filters {
	l.mu.Lock()
	defer l.mu.Unlock()
	f := l.filters
	f.Departments = append([]string{}, l.filters.Departments...)
	return f
}

func (l *Listing) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return View{Users: converter.CloneUsers(l.view.Users), TotalItems: l.view.TotalItems}
}

// SetFilters merges update into the filters. Any update that does not set
// the page sends the listing back to page 1.
func (l *Listing) SetFilters(update FilterUpdate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if update.Departments != nil {
		l.filters.Departments = append([]string{}, (*update.Departments)...)
	}
	if update.Search != nil {
		l.filters.Search = *update.Search
	}
	if update.Limit != nil {
		l.filters.Limit = *update.Limit
	}
	if update.Page != nil {
		l.filters.Page = *update.Page
	} else {
		l.filters.Page = DefaultPage
	}
}

func (l *Listing) ClearFilters() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filters = defaultFilters()
}

// Fetch runs the current filters against the cache and stores the view.
func (l *Listing) Fetch(ctx context.Context) View {
	f := l.Filters()
	page := l.cache.GetUsers(ctx, Query{
		Page:        f.Page,
		Limit:       f.Limit,
		Departments: f.Departments,
		Search:      f.Search,
	})

	l.mu.Lock()
	l.view = View{Users: page.Users, TotalItems: page.Total}
	l.mu.Unlock()
	return l.View()
}

// Add creates a user. The new row joins the view only if it matches the
// current filters and the view has room; the total always grows.
func (l *Listing) Add(ctx context.Context, input entity.UserInput) (*MutationResult, error) {
	res, err := l.cache.CreateUser(ctx, input)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if matchesView(*res.User, l.filters.Departments, l.filters.Search) && len(l.view.Users) < l.filters.Limit {
		l.view.Users = append(l.view.Users, *res.User)
	}
	l.view.TotalItems++
	return res, nil
}

// Update changes a user and refreshes the view.
func (l *Listing) Update(ctx context.Context, id int64, input entity.UserInput) (*MutationResult, error) {
	res, err := l.cache.UpdateUser(ctx, id, input)
	if err != nil {
		return nil, err
	}
	l.Fetch(ctx)
	return res, nil
}

// Delete removes a user and refreshes the view.
func (l *Listing) Delete(ctx context.Context, id int64) (*MutationResult, error) {
	res, err := l.cache.DeleteUser(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Fetch(ctx)
	return res, nil
}
