package records

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Summary is the dashboard's five-table count. Purely derived data.
type Summary struct {
	PatientCount   int64 `json:"patient_count"`
	ProviderCount  int64 `json:"provider_count"`
	VisitCount     int64 `json:"visit_count"`
	EDVisitCount   int64 `json:"ed_visit_count"`
	DischargeCount int64 `json:"discharge_count"`
}

type Dashboard struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewDashboard(db *gorm.DB, log zerolog.Logger) *Dashboard {
	return &Dashboard{db: db, log: log}
}

func (d *Dashboard) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	err := withReadRetry(ctx, func() error {
		for _, c := range []struct {
			model any
			dest  *int64
		}{
			{&Patient{}, &s.PatientCount},
			{&Provider{}, &s.ProviderCount},
			{&Visit{}, &s.VisitCount},
			{&EDVisit{}, &s.EDVisitCount},
			{&Discharge{}, &s.DischargeCount},
		} {
			if err := d.db.WithContext(ctx).Model(c.model).Count(c.dest).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, &DatabaseError{Op: "dashboard summary", Err: err}
	}
	return s, nil
}

func (d *Dashboard) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := d.Summary(r.Context())
	if err != nil {
		d.log.Error().Err(err).Msg("summary failed")
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
