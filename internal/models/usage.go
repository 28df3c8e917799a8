package models

import (
	"time"
)

// UsagePoint is one synthetic daily analytics sample
type UsagePoint struct {
	Date     time.Time `json:"date"`
	Users    int       `json:"users"`
	FeatureA int       `json:"featureA"`
	FeatureB int       `json:"featureB"`
	FeatureC int       `json:"featureC"`
}

// UsageResponse wraps a usage series, oldest point first
type UsageResponse struct {
	Points []UsagePoint `json:"points"`
}

// FeatureTotals sums feature events over a usage range
type FeatureTotals struct {
	A int `json:"featureA"`
	B int `json:"featureB"`
	C int `json:"featureC"`
}

// Summary holds the dashboard KPIs
type Summary struct {
	Customers   int           `json:"customers"`
	TotalSeats  int           `json:"totalSeats"`
	Paid        int           `json:"paid"`
	Conversion  int           `json:"conversion"`
	Teams       int           `json:"teams"`
	PlanCounts  map[Plan]int  `json:"planCounts"`
	DAU         int           `json:"dau"`
	WAU         int           `json:"wau"`
	Features    FeatureTotals `json:"featureTotals"`
	ActiveStaff int           `json:"activeStaff"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// SearchResult holds global search matches
type SearchResult struct {
	Query     string     `json:"query"`
	Staff     []User     `json:"staff"`
	Customers []Customer `json:"customers"`
}

// Page is a slice of a filtered listing
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}
