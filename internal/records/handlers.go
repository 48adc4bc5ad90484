package records

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Store is the repository surface the HTTP layer depends on; the interface
// keeps handlers testable without a database.
type Store[T any] interface {
	List(ctx context.Context, filters map[string]string) ([]T, error)
	Create(ctx context.Context, row *T) (uint, error)
	Read(ctx context.Context, id uint) (*T, error)
	Update(ctx context.Context, id uint, row *T) error
	Delete(ctx context.Context, id uint) error
}

// EntityHandler serves one entity's CRUD endpoints.
type EntityHandler[T any] struct {
	name  string
	store Store[T]
	log   zerolog.Logger
}

func NewEntityHandler[T any](name string, store Store[T], log zerolog.Logger) *EntityHandler[T] {
	return &EntityHandler[T]{name: name, store: store, log: log.With().Str("entity", name).Logger()}
}

// Register attaches the CRUD endpoints to the router. The caller decides which
// middleware wraps them; every route here assumes the access guard already ran.
func (h *EntityHandler[T]) Register(r chi.Router) {
	r.Get("/", h.ListHandler)
	r.Post("/", h.CreateHandler)
	r.Get("/edit/{id}", h.ReadHandler)
	r.Post("/edit/{id}", h.UpdateHandler)
	r.Post("/delete/{id}", h.DeleteHandler)
}

func (h *EntityHandler[T]) ListHandler(w http.ResponseWriter, r *http.Request) {
	filters := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 && values[0] != "" {
			filters[key] = values[0]
		}
	}

	rows, err := h.store.List(r.Context(), filters)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

func (h *EntityHandler[T]) CreateHandler(w http.ResponseWriter, r *http.Request) {
	row, ok := h.decode(w, r)
	if !ok {
		return
	}

	if _, err := h.store.Create(r.Context(), row); err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(row)
}

func (h *EntityHandler[T]) ReadHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	row, err := h.store.Read(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(row)
}

func (h *EntityHandler[T]) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	row, ok := h.decode(w, r)
	if !ok {
		return
	}

	if err := h.store.Update(r.Context(), id, row); err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(row)
}

func (h *EntityHandler[T]) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *EntityHandler[T]) decode(w http.ResponseWriter, r *http.Request) (*T, bool) {
	var row T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&row); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	return &row, true
}

func (h *EntityHandler[T]) id(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

func (h *EntityHandler[T]) writeError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	var rie *ReferentialIntegrityError

	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
	case errors.As(err, &rie):
		http.Error(w, rie.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	default:
		h.log.Error().Err(err).Msg("request failed")
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}
