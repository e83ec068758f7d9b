package admin

// ListResponse wraps list endpoints so a total can ride along with the page.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}

// IDResponse is returned by endpoints that create something.
type IDResponse struct {
	ID int64 `json:"id"`
}
