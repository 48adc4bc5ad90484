package records

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RegisterRoutes mounts one guarded CRUD block per entity. The guard applies
// to every route, edit and delete included.
func (reg *Registry) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler, log zerolog.Logger) {
	mount(r, "/patients", NewEntityHandler("patients", reg.Patients, log), guard)
	mount(r, "/providers", NewEntityHandler("providers", reg.Providers, log), guard)
	mount(r, "/visits", NewEntityHandler("visits", reg.Visits, log), guard)
	mount(r, "/edvisits", NewEntityHandler("edvisits", reg.EDVisits, log), guard)
	mount(r, "/discharges", NewEntityHandler("discharges", reg.Discharges, log), guard)
}

func mount[T any](r chi.Router, path string, h *EntityHandler[T], guard func(http.Handler) http.Handler) {
	r.Route(path, func(rt chi.Router) {
		rt.Use(guard)
		h.Register(rt)
	})
}
