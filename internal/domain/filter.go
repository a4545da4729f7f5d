package domain

import (
	"sort"
	"strings"
)

// Filter describes a query over the catalog. All fields are optional and
// combine with AND. Tag matching is containment: an item matches only if
// its tag set is a superset of every requested tag.
type Filter struct {
	Type   *MediaType
	Status *Status

	// IncludeArchived lifts the default exclusion of archived items.
	// It is ignored when Status is set explicitly.
	IncludeArchived bool

	Tags   []string
	Search string

	// Limit and Offset paginate the filtered, ordered result.
	// Limit 0 means no limit.
	Limit  int
	Offset int
}

// Matches evaluates the predicate against a single item. Soft-deleted
// items never reach this point; the index filters them out.
func (f Filter) Matches(it *Item) bool {
	if f.Type != nil && it.Type != *f.Type {
		return false
	}
	if f.Status != nil {
		if it.Status != *f.Status {
			return false
		}
	} else if !f.IncludeArchived && it.Status == StatusArchived {
		return false
	}
	if f.Search != "" &&
		!strings.Contains(strings.ToLower(it.Title), strings.ToLower(f.Search)) {
		return false
	}
	return it.HasAllTags(f.Tags)
}

// Apply filters an already-sorted item sequence and paginates the result.
// Pagination always runs last, over the fully filtered list.
func (f Filter) Apply(items []*Item) []*Item {
	out := make([]*Item, 0, len(items))
	for _, it := range items {
		if f.Matches(it) {
			out = append(out, it)
		}
	}
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return out[:0]
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out
}

// SortItems orders newest first: AddedAt descending, ties broken by
// insertion sequence descending so the order is stable across reads.
func SortItems(items []*Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].AddedAt != items[j].AddedAt {
			return items[i].AddedAt > items[j].AddedAt
		}
		return items[i].Seq > items[j].Seq
	})
}

// ParseTagList splits a comma-separated tag parameter, trimming and
// lowercasing each entry and dropping empties.
func ParseTagList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tag := strings.ToLower(strings.TrimSpace(p))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
