// Package store contains entities and storages for generated questions.
package store

import (
	"context"
	"errors"
	"math"
)

//go:generate moq -out mock_store.go . Interface

// DefaultPageSize is the page size used when none is requested.
const DefaultPageSize = 10

// ErrInvalidPage is returned when the requested page number is less than 1
// or its offset doesn't fit into int.
var ErrInvalidPage = errors.New("invalid page number")

// Interface defines methods for store.
type Interface interface {
	InsertBatch(ctx context.Context, mcqs []MCQ) (int, error)
	List(ctx context.Context, req ListRequest) (Page, error)
	Close(ctx context.Context) error
}

// ListRequest defines parameters for listing questions from store.
type ListRequest struct {
	Page     int
	PageSize int
}

// normalize checks the page number and fills in the default page size.
func (r ListRequest) normalize() (ListRequest, error) {
	if r.Page < 1 {
		return r, ErrInvalidPage
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.Page-1 > math.MaxInt/r.PageSize {
		return r, ErrInvalidPage
	}
	return r, nil
}

func (r ListRequest) skip() int { return (r.Page - 1) * r.PageSize }

// Page is a single page of questions, newest first.
type Page struct {
	Items      []MCQ
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

func newPage(req ListRequest, items []MCQ, total int) Page {
	return Page{
		Items:      items,
		Page:       req.Page,
		PageSize:   req.PageSize,
		Total:      total,
		TotalPages: (total + req.PageSize - 1) / req.PageSize,
	}
}

// Article is a single feed item, prepared for question generation.
type Article struct {
	FeedURL     string `json:"feed_url"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// MCQ is a multiple-choice question generated from an article.
type MCQ struct {
	FeedURL       string            `json:"feed_url" bson:"feed_url"`
	Title         string            `json:"title" bson:"title"`
	Link          string            `json:"link" bson:"link"`
	Description   string            `json:"description" bson:"description"`
	Question      string            `json:"question" bson:"question"`
	Options       map[string]string `json:"options" bson:"options"`
	CorrectAnswer string            `json:"correct_answer" bson:"correct_answer"`
	Explanation   string            `json:"explanation" bson:"explanation"`
}
