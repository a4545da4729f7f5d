package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/spinshelf/spinshelf/internal/catalog"
	"github.com/spinshelf/spinshelf/internal/domain"
	"github.com/spinshelf/spinshelf/internal/httpserver/deps"
)

type itemPayload struct {
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Platform string   `json:"platform"`
	CoverURL string   `json:"coverUrl"`
	Tags     []string `json:"tags"`
}

type itemPatchPayload struct {
	Type     *string   `json:"type"`
	Title    *string   `json:"title"`
	Platform *string   `json:"platform"`
	CoverURL *string   `json:"coverUrl"`
	Tags     *[]string `json:"tags"`
	Status   *string   `json:"status"`
}

type listResponse struct {
	Items []*domain.Item `json:"items"`
	Total int            `json:"total"`
}

// parseFilter builds a catalog filter from the request query string. Bad
// values are validation errors, not silent defaults.
func parseFilter(r *http.Request) (domain.Filter, error) {
	var f domain.Filter
	q := r.URL.Query()

	if raw := q.Get("type"); raw != "" {
		mt, err := domain.ParseMediaType(raw)
		if err != nil {
			return f, err
		}
		f.Type = &mt
	}
	if raw := q.Get("status"); raw != "" {
		st, err := domain.ParseStatus(raw)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}

	// include_archived is the documented form; includeArchived is kept for
	// older clients and wins when both are present.
	raw := q.Get("include_archived")
	if legacy := q.Get("includeArchived"); legacy != "" {
		raw = legacy
	}
	if raw != "" {
		v, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return f, &domain.ValidationError{Field: "include_archived", Reason: "must be a boolean"}
		}
		f.IncludeArchived = v
	}

	f.Tags = domain.ParseTagList(q.Get("tags"))
	f.Search = strings.TrimSpace(q.Get("search"))

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			return f, &domain.ValidationError{Field: "limit", Reason: "must be an integer between 1 and 1000"}
		}
		f.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, &domain.ValidationError{Field: "offset", Reason: "must be a non-negative integer"}
		}
		f.Offset = n
	}

	return f, nil
}

// ListItems handles GET /api/items.
func ListItems(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilter(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse{
			Items: d.Catalog.List(f),
			Total: d.Catalog.Count(f),
		})
	}
}

// GetItem handles GET /api/items/{id}.
func GetItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := d.Catalog.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, it)
	}
}

// CreateItem handles POST /api/items.
func CreateItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload itemPayload
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		it, err := d.Catalog.Create(r.Context(), catalog.CreateInput{
			Type:     payload.Type,
			Title:    payload.Title,
			Platform: payload.Platform,
			CoverURL: payload.CoverURL,
			Tags:     payload.Tags,
		})
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, it)
	}
}

// UpdateItem handles PATCH /api/items/{id}.
func UpdateItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload itemPatchPayload
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		it, err := d.Catalog.Update(r.Context(), chi.URLParam(r, "id"), catalog.Patch{
			Type:     payload.Type,
			Title:    payload.Title,
			Platform: payload.Platform,
			CoverURL: payload.CoverURL,
			Tags:     payload.Tags,
			Status:   payload.Status,
		})
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, it)
	}
}

// DeleteItem handles DELETE /api/items/{id}. Deletion is soft: the item
// stops appearing anywhere but stays in the store until purged.
func DeleteItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Catalog.SoftDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteItemByQuery handles DELETE /api/items?id=... for clients that
// cannot put the id in the path.
func DeleteItemByQuery(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, d.Logger, &domain.ValidationError{Field: "id", Reason: "query parameter is required"})
			return
		}
		if err := d.Catalog.SoftDelete(r.Context(), id); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
