// Package pagination implements the keyset paging used by the order history
// and customer directory listings. A cursor names the last row of the
// previous page by (created_at, id); queries fetch one row past the limit so
// the caller can tell whether another page exists.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size when the client sends none.
	DefaultLimit = 25
	// MaxLimit bounds a single page regardless of what the client asks for.
	MaxLimit = 100
)

// Params carries the paging inputs parsed off a list request.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is the decoded keyset position: the created_at and id of the last
// row already delivered.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Keyset splits the cursor into the nullable column filters repositories
// take. A nil cursor means the first page and yields nil filters.
func (c *Cursor) Keyset() (*time.Time, *uuid.UUID) {
	if c == nil {
		return nil, nil
	}
	return &c.CreatedAt, &c.ID
}

// NormalizeLimit clamps the requested limit into [1, MaxLimit], falling back
// to DefaultLimit for zero or negative values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer is the row count to query: one past the page so Trim can
// detect a following page.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// Trim cuts a buffered query result down to the page and reports whether the
// extra row was present, meaning a next page exists.
func Trim[T any](records []T, limit int) ([]T, bool) {
	if len(records) > limit {
		return records[:limit], true
	}
	return records, false
}

// NextCursor encodes the keyset position of the given row.
func NextCursor(createdAt time.Time, id uuid.UUID) string {
	return EncodeCursor(Cursor{CreatedAt: createdAt, ID: id})
}

// EncodeCursor renders the cursor as base64 over "RFC3339Nano|uuid". The
// timestamp is normalized to UTC so cursors survive server timezone changes.
func EncodeCursor(cursor Cursor) string {
	payload := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + cursor.ID.String()
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes a client-supplied cursor. A blank string is the first
// page and returns (nil, nil).
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	stamp, rawID, found := strings.Cut(string(decoded), "|")
	if !found {
		return nil, fmt.Errorf("invalid cursor format")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{CreatedAt: createdAt, ID: id}, nil
}
