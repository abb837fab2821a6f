// Package prescription manages the prescription lifecycle: draft medicine
// plans the doctor edits during the visit, and the immutable plans written
// when a prescription is confirmed.
package prescription

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Lifecycle statuses shared by prescriptions and plans.
const (
	StatusCreated  = "CREATED"
	StatusEdited   = "EDITED"
	StatusCanceled = "CANCELED"
)

var (
	// ErrNotFound is returned when a prescription does not exist.
	ErrNotFound = errors.New("prescription not found")
	// ErrDraftNotFound is returned when a draft medicine plan does not exist.
	ErrDraftNotFound = errors.New("draft medicine plan not found")
)

var validStatuses = map[string]bool{
	StatusCreated:  true,
	StatusEdited:   true,
	StatusCanceled: true,
}

// ValidStatus reports whether s is a known plan status.
func ValidStatus(s string) bool {
	return validStatuses[s]
}

// Prescription maps to the prescription table. It exists purely as the
// anchor the plans and the invoice hang off; the clinical content lives in
// the medicine plans.
type Prescription struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// DraftMedicinePlan maps to the draft_medicine_plan table. Drafts are the
// doctor's mutable working copy of one medicine line.
type DraftMedicinePlan struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PrescriptionID *uuid.UUID `db:"prescription_id" json:"prescriptionId,omitempty"`
	MedicineName   string     `db:"medicine_name" json:"medicineName"`
	Amount         int        `db:"amount" json:"amount"`
	Dosage         string     `db:"dosage" json:"dosage"`
	DosageMeals    string     `db:"dosage_meals" json:"dosageMeals"`
	DosageTimes    int        `db:"dosage_times" json:"dosageTimes"`
	Remark         *string    `db:"remark" json:"remark,omitempty"`
	Status         string     `db:"status" json:"status"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

// MedicinePlan maps to the medicine_plan table: the confirmed, immutable
// copy of a draft.
type MedicinePlan struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PrescriptionID uuid.UUID `db:"prescription_id" json:"prescriptionId"`
	MedicineName   string    `db:"medicine_name" json:"medicineName"`
	Amount         int       `db:"amount" json:"amount"`
	Dosage         string    `db:"dosage" json:"dosage"`
	DosageMeals    string    `db:"dosage_meals" json:"dosageMeals"`
	DosageTimes    int       `db:"dosage_times" json:"dosageTimes"`
	Remark         *string   `db:"remark" json:"remark,omitempty"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// PlanFromDraft copies a draft's medicine line into a confirmed plan.
// The plan gets its own identity and status; only the clinical fields carry
// over.
func PlanFromDraft(d *DraftMedicinePlan) *MedicinePlan {
	return &MedicinePlan{
		MedicineName: d.MedicineName,
		Amount:       d.Amount,
		Dosage:       d.Dosage,
		DosageMeals:  d.DosageMeals,
		DosageTimes:  d.DosageTimes,
		Remark:       d.Remark,
	}
}
