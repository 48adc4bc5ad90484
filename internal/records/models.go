package records

type Patient struct {
	PatientID   uint   `gorm:"primaryKey;column:patient_id" json:"patient_id"`
	FirstName   string `gorm:"not null" json:"first_name"`
	LastName    string `gorm:"not null" json:"last_name"`
	DateOfBirth string `gorm:"not null" json:"date_of_birth"`
	Gender      string `gorm:"not null" json:"gender"`
	Language    string `gorm:"not null" json:"language"`
}

type Provider struct {
	ProviderID uint   `gorm:"primaryKey;column:provider_id" json:"provider_id"`
	FirstName  string `gorm:"not null" json:"first_name"`
	LastName   string `gorm:"not null" json:"last_name"`
	Specialty  string `gorm:"not null" json:"specialty"`
	Email      string `gorm:"not null" json:"email"`
	Phone      string `gorm:"not null" json:"phone"`
	DateJoined string `gorm:"not null" json:"date_joined"`
}

type Visit struct {
	VisitID       uint   `gorm:"primaryKey;column:visit_id" json:"visit_id"`
	PatientID     uint   `gorm:"column:patient_id;not null;index" json:"patient_id"`
	ProviderID    uint   `gorm:"column:provider_id;not null;index" json:"provider_id"`
	DateOfVisit   string `gorm:"not null" json:"date_of_visit"`
	DateScheduled string `json:"date_scheduled"`
	DepartmentID  uint   `gorm:"column:department_id" json:"department_id"`
	VisitType     string `json:"visit_type"`
	BPSystolic    int    `gorm:"column:bp_systolic" json:"bp_systolic"`
	BPDiastolic   int    `gorm:"column:bp_diastolic" json:"bp_diastolic"`
	Pulse         int    `json:"pulse"`
	Status        string `json:"status"`
}

type EDVisit struct {
	EDVisitID      uint   `gorm:"primaryKey;column:ed_visit_id" json:"ed_visit_id"`
	VisitID        uint   `gorm:"column:visit_id;not null;index" json:"visit_id"`
	PatientID      uint   `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Acuity         int    `gorm:"not null" json:"acuity"`
	ReasonForVisit string `gorm:"not null" json:"reason_for_visit"`
	Disposition    string `json:"disposition"`
}

type Discharge struct {
	DischargeID   uint   `gorm:"primaryKey;column:discharges_id" json:"discharges_id"`
	AdmissionID   uint   `gorm:"column:admission_id" json:"admission_id"`
	PatientID     uint   `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DischargeDate string `gorm:"not null" json:"discharge_date"`
	Disposition   string `gorm:"not null" json:"disposition"`
}

func (Patient) TableName() string   { return "patients" }
func (Provider) TableName() string  { return "providers" }
func (Visit) TableName() string     { return "visits" }
func (EDVisit) TableName() string   { return "ed_visits" }
func (Discharge) TableName() string { return "discharges" }
