package client

import (
	"math"
	"strings"

	"userdesk/internal/entity"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Query selects one page of the collection.
type Query struct {
	Page        int
	Limit       int
	Departments []string
	Search      string
}

// Page is one window over the filtered collection. Total counts every match,
// not just the rows in Users.
type Page struct {
	Users  []entity.User
	Total  int
	Offset int
	Limit  int
}

// ParseDepartments splits the dot-joined department list used in query strings.
func ParseDepartments(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ".")
}

// JoinDepartments is the inverse of ParseDepartments.
func JoinDepartments(departments []string) string {
	return strings.Join(departments, ".")
}

func (q Query) normalized() Query {
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	return q
}

// applyQuery runs department filter, then search, then pagination.
func applyQuery(records []entity.User, q Query) Page {
	q = q.normalized()

	users := filterDepartments(records, q.Departments)
	if q.Search != "" {
		users = rankUsers(users, q.Search)
	}

	total := len(users)
	skipped := q.Page - 1
	start := total
	if skipped <= total/q.Limit {
		start = min(skipped*q.Limit, total)
	}
	end := start + min(q.Limit, total-start)

	page := make([]entity.User, end-start)
	copy(page, users[start:end])
	return Page{Users: page, Total: total, Offset: pageOffset(skipped, q.Limit), Limit: q.Limit}
}

// pageOffset saturates at math.MaxInt instead of wrapping.
func pageOffset(skipped, limit int) int {
	if skipped > math.MaxInt/limit {
		return math.MaxInt
	}
	return skipped * limit
}

func filterDepartments(records []entity.User, departments []string) []entity.User {
	if len(departments) == 0 {
		out := make([]entity.User, len(records))
		copy(out, records)
		return out
	}
	allowed := make(map[string]struct{}, len(departments))
	for _, d := range departments {
		allowed[d] = struct{}{}
	}
	out := make([]entity.User, 0, len(records))
	for idx := range records {
		if _, ok := allowed[records[idx].Department]; ok {
			out = append(out, records[idx])
		}
	}
	return out
}

// matchesView is the looser check used when deciding whether a freshly added
// user belongs in the current view: department membership and a
// case-insensitive substring of name or username.
func matchesView(user entity.User, departments []string, search string) bool {
	if len(departments) > 0 {
		found := false
		for _, d := range departments {
			if d == user.Department {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(user.Name), needle) ||
		strings.Contains(strings.ToLower(user.Username), needle)
}
