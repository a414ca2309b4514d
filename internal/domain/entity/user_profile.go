package entity

import (
	"time"

	"github.com/google/uuid"
)

// Language is a patient's preferred communication language.
type Language string

const (
	LanguageEnglish            Language = "en"
	LanguageChineseSimplified  Language = "zh-cn"
	LanguageChineseTraditional Language = "zh-tw"
)

var languageLabels = map[Language]string{
	LanguageEnglish:            "English",
	LanguageChineseSimplified:  "Chinese (Simplified)",
	LanguageChineseTraditional: "Chinese (Traditional)",
}

func (l Language) IsValid() bool {
	_, ok := languageLabels[l]
	return ok
}

func (l Language) Label() string {
	return languageLabels[l]
}

// UserProfile extends an account with patient data. One per account.
type UserProfile struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Phone              string    `gorm:"type:varchar(17)" json:"phone,omitempty"`
	LanguagePreference Language  `gorm:"type:varchar(10);not null;default:'en'" json:"language_preference"`
	MedicalHistory     string    `gorm:"type:text" json:"medical_history,omitempty"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
