package backend

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// list accepts a bare JSON array or an object wrapping it under items,
// images, users, or data.
type list[T any] []T

func (l *list[T]) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*l = nil
		return nil
	}
	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var env struct {
		Items  []T `json:"items"`
		Images []T `json:"images"`
		Users  []T `json:"users"`
		Data   []T `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}
	switch {
	case env.Items != nil:
		*l = env.Items
	case env.Images != nil:
		*l = env.Images
	case env.Users != nil:
		*l = env.Users
	default:
		*l = env.Data
	}
	if *l == nil {
		*l = []T{}
	}
	return nil
}

// flag accepts true/false or an object answering the check under a known key
// such as {"isLiked": true}. An object with a single boolean field is also
// accepted; several unknown booleans are ambiguous and rejected.
type flag bool

var flagKeys = []string{"isLiked", "isSaved", "isFollowing", "isLikedByCurrentUser", "liked", "saved", "following"}

func (f *flag) UnmarshalJSON(raw []byte) error {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		*f = flag(b)
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("decode check result: %w", err)
	}
	for _, k := range flagKeys {
		if v, ok := obj[k].(bool); ok {
			*f = flag(v)
			return nil
		}
	}
	v, n := only[bool](obj)
	switch n {
	case 0:
		return fmt.Errorf("decode check result: no boolean in %s", raw)
	case 1:
		*f = flag(v)
		return nil
	default:
		return fmt.Errorf("decode check result: ambiguous booleans in %s", raw)
	}
}

// count accepts a bare number or an object carrying one under count,
// unreadCount, or a similarly named field. An object with a single numeric
// field is also accepted.
type count int

var countKeys = []string{"count", "unreadCount", "pendingCount", "likesCount", "total"}

func (c *count) UnmarshalJSON(raw []byte) error {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		*c = count(n)
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("decode count: %w", err)
	}
	for _, k := range countKeys {
		if v, ok := obj[k].(float64); ok {
			*c = count(int(v))
			return nil
		}
	}
	v, found := only[float64](obj)
	switch found {
	case 0:
		return fmt.Errorf("decode count: no number in %s", raw)
	case 1:
		*c = count(int(v))
		return nil
	default:
		return fmt.Errorf("decode count: ambiguous numbers in %s", raw)
	}
}

// only returns the value of type T in obj and how many such values exist.
func only[T any](obj map[string]any) (T, int) {
	var (
		out T
		n   int
	)
	for _, v := range obj {
		if t, ok := v.(T); ok {
			out = t
			n++
		}
	}
	return out, n
}
