package entity

import "time"

// Department is a medical specialty a doctor practises in.
type Department string

const (
	DepartmentCardiology       Department = "cardiology"
	DepartmentNeurology        Department = "neurology"
	DepartmentOrthopedics      Department = "orthopedics"
	DepartmentOncology         Department = "oncology"
	DepartmentGastroenterology Department = "gastroenterology"
	DepartmentEndocrinology    Department = "endocrinology"
	DepartmentDermatology      Department = "dermatology"
	DepartmentOphthalmology    Department = "ophthalmology"
	DepartmentENT              Department = "ent"
	DepartmentGeneral          Department = "general"
	DepartmentOther            Department = "other"
)

// Departments lists every department in display order.
var Departments = []Department{
	DepartmentCardiology,
	DepartmentNeurology,
	DepartmentOrthopedics,
	DepartmentOncology,
	DepartmentGastroenterology,
	DepartmentEndocrinology,
	DepartmentDermatology,
	DepartmentOphthalmology,
	DepartmentENT,
	DepartmentGeneral,
	DepartmentOther,
}

var departmentLabels = map[Department]string{
	DepartmentCardiology:       "Cardiology",
	DepartmentNeurology:        "Neurology",
	DepartmentOrthopedics:      "Orthopedics",
	DepartmentOncology:         "Oncology",
	DepartmentGastroenterology: "Gastroenterology",
	DepartmentEndocrinology:    "Endocrinology",
	DepartmentDermatology:      "Dermatology",
	DepartmentOphthalmology:    "Ophthalmology",
	DepartmentENT:              "ENT (Ear, Nose, Throat)",
	DepartmentGeneral:          "General Medicine",
	DepartmentOther:            "Other",
}

func (d Department) IsValid() bool {
	_, ok := departmentLabels[d]
	return ok
}

func (d Department) Label() string {
	return departmentLabels[d]
}

const MaxYearsOfExperience = 70

// ChinaDoctor is a doctor listed for remote consultation.
type ChinaDoctor struct {
	ID                int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string     `gorm:"type:varchar(200);not null" json:"name"`
	Hospital          string     `gorm:"type:varchar(300);not null" json:"hospital"`
	Department        Department `gorm:"type:varchar(50);not null;index" json:"department"`
	BiographyEN       string     `gorm:"column:biography_en;type:text" json:"biography_en,omitempty"`
	IsAvailable       bool       `gorm:"not null;index" json:"is_available"`
	YearsOfExperience int        `gorm:"not null;default:0" json:"years_of_experience"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Availability []DoctorAvailability `gorm:"foreignKey:DoctorID" json:"availability,omitempty"`
}

func (ChinaDoctor) TableName() string {
	return "china_doctors"
}
