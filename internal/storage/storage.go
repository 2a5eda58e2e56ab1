// Package storage defines the persisted lead record.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lead does not exist.
var ErrNotFound = errors.New("storage: not found")

// Lead is one collected submission.
type Lead struct {
	ID            string    `json:"id"`
	FormName      string    `json:"formName"`
	SquareFootage float64   `json:"squareFootage"`
	SolarValue    float64   `json:"solarValue"`
	Email         string    `json:"email"`
	EstimateLow   float64   `json:"estimateLow"`
	EstimateHigh  float64   `json:"estimateHigh"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListFilter narrows List results. Zero values mean no restriction.
type ListFilter struct {
	FormName string
	Limit    int
}

// Store persists leads.
type Store interface {
	Save(ctx context.Context, lead Lead) (Lead, error)
	Get(ctx context.Context, id string) (Lead, error)
	List(ctx context.Context, filter ListFilter) ([]Lead, error)
}
