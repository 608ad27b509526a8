package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"slices"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 250
)

var ErrInvalidCursor = errors.New("invalid_cursor")

type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size,default=10" validate:"gte=1,lte=250"` // Min 1, Max 250
}

type Cursor struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, ErrInvalidCursor
	}

	return &cursor, nil
}

// Paginate returns the page of items that follows the cursor in token. An
// empty token starts at the beginning. The next token points at the last
// item returned.
func Paginate[T any](items []T, token string, size int, id func(T) string) ([]T, PageInfo, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)

	start := 0
	if token != "" {
		cursor, err := DecodeCursor(token)
		if err != nil {
			return nil, PageInfo{}, err
		}
		idx := slices.IndexFunc(items, func(item T) bool { return id(item) == cursor.ID })
		if idx < 0 {
			return nil, PageInfo{}, ErrInvalidCursor
		}
		start = idx + 1
	}

	end := min(start+size, len(items))
	page := slices.Clone(items[start:end])
	info := PageInfo{HasMore: end < len(items)}
	if info.HasMore && len(page) > 0 {
		next, err := EncodeCursor(Cursor{ID: id(page[len(page)-1])})
		if err != nil {
			return nil, PageInfo{}, err
		}
		info.NextPageToken = next
	}
	return page, info, nil
}
