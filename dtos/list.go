package dtos

import "blackmarket-backend/models"

// ListResponse is one page of a collection. Page is 1-based and Pages is the
// number of pages of Size items needed for Total.
type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
}

func NewListResponse[T any](items []T, total int64, skip, limit int) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	resp := ListResponse[T]{Items: items, Total: total, Page: 1, Size: limit}
	if limit > 0 {
		resp.Page = skip/limit + 1
		resp.Pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return resp
}

type CategoryTreeResponse struct {
	Items []models.CategoryNode `json:"items"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
