package service

import (
	"strings"

	"github.com/controlly-api/internal/models"
)

// matches reports whether query occurs in any field, ignoring case.
// An empty query matches everything.
func matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(fields, " ")), q)
}

func filterUsers(users []models.User, query string) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if matches(query, u.Name, u.Email, string(u.Role)) {
			out = append(out, u)
		}
	}
	return out
}

func filterCustomers(customers []models.Customer, query string, plan models.Plan) []models.Customer {
	out := make([]models.Customer, 0, len(customers))
	for _, c := range customers {
		if plan != "" && c.Plan != plan {
			continue
		}
		if matches(query, c.Name, c.Email, string(c.Plan)) {
			out = append(out, c)
		}
	}
	return out
}

// Paginate returns the 1-based page of items
func Paginate[T any](items []T, page, pageSize int) models.Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = len(items)
	}
	start := min((page-1)*pageSize, len(items))
	end := min(start+pageSize, len(items))

	return models.Page[T]{
		Items:    items[start:end],
		Total:    len(items),
		Page:     page,
		PageSize: pageSize,
	}
}
