package records

import (
	"net/mail"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Registry holds the five repository instantiations.
type Registry struct {
	Patients   *Repository[Patient]
	Providers  *Repository[Provider]
	Visits     *Repository[Visit]
	EDVisits   *Repository[EDVisit]
	Discharges *Repository[Discharge]
}

func NewRegistry(db *gorm.DB, log zerolog.Logger) *Registry {
	return &Registry{
		Patients:   NewRepository(db, patientDescriptor(), log),
		Providers:  NewRepository(db, providerDescriptor(), log),
		Visits:     NewRepository(db, visitDescriptor(), log),
		EDVisits:   NewRepository(db, edVisitDescriptor(), log),
		Discharges: NewRepository(db, dischargeDescriptor(), log),
	}
}

func patientDescriptor() Descriptor[Patient] {
	return Descriptor[Patient]{
		Name:    "patient",
		Table:   "patients",
		PK:      "patient_id",
		PKValue: func(p *Patient) uint { return p.PatientID },
		SetPK:   func(p *Patient, id uint) { p.PatientID = id },
		Filters: map[string]string{
			"first_name": "first_name",
			"last_name":  "last_name",
		},
		Dependents: []Dependent{
			{Table: "visits", Column: "patient_id"},
			{Table: "ed_visits", Column: "patient_id"},
			{Table: "discharges", Column: "patient_id"},
		},
		Validate: validatePatient,
	}
}

func providerDescriptor() Descriptor[Provider] {
	return Descriptor[Provider]{
		Name:    "provider",
		Table:   "providers",
		PK:      "provider_id",
		PKValue: func(p *Provider) uint { return p.ProviderID },
		SetPK:   func(p *Provider, id uint) { p.ProviderID = id },
		Filters: map[string]string{
			"specialty": "specialty",
			"last_name": "last_name",
		},
		Dependents: []Dependent{
			{Table: "visits", Column: "provider_id"},
		},
		Validate: validateProvider,
	}
}

func visitDescriptor() Descriptor[Visit] {
	return Descriptor[Visit]{
		Name:    "visit",
		Table:   "visits",
		PK:      "visit_id",
		PKValue: func(v *Visit) uint { return v.VisitID },
		SetPK:   func(v *Visit, id uint) { v.VisitID = id },
		Filters: map[string]string{
			"patient_id":  "patient_id",
			"provider_id": "provider_id",
			"status":      "status",
		},
		References: []ReferenceCheck[Visit]{
			{Field: "patient_id", Table: "patients", Column: "patient_id", Value: func(v *Visit) uint { return v.PatientID }},
			{Field: "provider_id", Table: "providers", Column: "provider_id", Value: func(v *Visit) uint { return v.ProviderID }},
		},
		Dependents: []Dependent{
			{Table: "ed_visits", Column: "visit_id"},
		},
		Validate: validateVisit,
	}
}

func edVisitDescriptor() Descriptor[EDVisit] {
	return Descriptor[EDVisit]{
		Name:    "ed_visit",
		Table:   "ed_visits",
		PK:      "ed_visit_id",
		PKValue: func(v *EDVisit) uint { return v.EDVisitID },
		SetPK:   func(v *EDVisit, id uint) { v.EDVisitID = id },
		Filters: map[string]string{
			"patient_id": "patient_id",
			"acuity":     "acuity",
		},
		References: []ReferenceCheck[EDVisit]{
			{Field: "visit_id", Table: "visits", Column: "visit_id", Value: func(v *EDVisit) uint { return v.VisitID }},
			{Field: "patient_id", Table: "patients", Column: "patient_id", Value: func(v *EDVisit) uint { return v.PatientID }},
		},
		Validate: validateEDVisit,
	}
}

func dischargeDescriptor() Descriptor[Discharge] {
	return Descriptor[Discharge]{
		Name:    "discharge",
		Table:   "discharges",
		PK:      "discharges_id",
		PKValue: func(d *Discharge) uint { return d.DischargeID },
		SetPK:   func(d *Discharge, id uint) { d.DischargeID = id },
		Filters: map[string]string{
			"patient_id":  "patient_id",
			"disposition": "disposition",
		},
		References: []ReferenceCheck[Discharge]{
			{Field: "patient_id", Table: "patients", Column: "patient_id", Value: func(d *Discharge) uint { return d.PatientID }},
		},
		Validate: validateDischarge,
	}
}

func validatePatient(p *Patient) error {
	if p.FirstName == "" {
		return &ValidationError{Field: "first_name", Reason: "required"}
	}
	if p.LastName == "" {
		return &ValidationError{Field: "last_name", Reason: "required"}
	}
	if err := validDate("date_of_birth", p.DateOfBirth); err != nil {
		return err
	}
	if p.Gender == "" {
		return &ValidationError{Field: "gender", Reason: "required"}
	}
	if p.Language == "" {
		return &ValidationError{Field: "language", Reason: "required"}
	}
	// Canonicalize to BCP-47 so "EN-us" and "en-US" land as one value.
	tag, err := language.Parse(p.Language)
	if err != nil {
		return &ValidationError{Field: "language", Reason: "not a valid language tag"}
	}
	p.Language = tag.String()
	return nil
}

func validateProvider(p *Provider) error {
	if p.FirstName == "" {
		return &ValidationError{Field: "first_name", Reason: "required"}
	}
	if p.LastName == "" {
		return &ValidationError{Field: "last_name", Reason: "required"}
	}
	if p.Specialty == "" {
		return &ValidationError{Field: "specialty", Reason: "required"}
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return &ValidationError{Field: "email", Reason: "not a valid address"}
	}
	if p.Phone == "" {
		return &ValidationError{Field: "phone", Reason: "required"}
	}
	return validDate("date_joined", p.DateJoined)
}

func validateVisit(v *Visit) error {
	if v.PatientID == 0 {
		return &ValidationError{Field: "patient_id", Reason: "required"}
	}
	if v.ProviderID == 0 {
		return &ValidationError{Field: "provider_id", Reason: "required"}
	}
	if err := validDate("date_of_visit", v.DateOfVisit); err != nil {
		return err
	}
	if v.DateScheduled != "" {
		if err := validDate("date_scheduled", v.DateScheduled); err != nil {
			return err
		}
	}
	if v.BPSystolic < 0 || v.BPDiastolic < 0 {
		return &ValidationError{Field: "bp_systolic", Reason: "must not be negative"}
	}
	if v.Pulse < 0 {
		return &ValidationError{Field: "pulse", Reason: "must not be negative"}
	}
	return nil
}

func validateEDVisit(v *EDVisit) error {
	if v.VisitID == 0 {
		return &ValidationError{Field: "visit_id", Reason: "required"}
	}
	if v.PatientID == 0 {
		return &ValidationError{Field: "patient_id", Reason: "required"}
	}
	if v.Acuity < 1 || v.Acuity > 5 {
		return &ValidationError{Field: "acuity", Reason: "must be between 1 and 5"}
	}
	if v.ReasonForVisit == "" {
		return &ValidationError{Field: "reason_for_visit", Reason: "required"}
	}
	return nil
}

func validateDischarge(d *Discharge) error {
	if d.PatientID == 0 {
		return &ValidationError{Field: "patient_id", Reason: "required"}
	}
	if err := validDate("discharge_date", d.DischargeDate); err != nil {
		return err
	}
	if d.Disposition == "" {
		return &ValidationError{Field: "disposition", Reason: "required"}
	}
	return nil
}

func validDate(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "required"}
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return &ValidationError{Field: field, Reason: "must be YYYY-MM-DD"}
	}
	return nil
}
