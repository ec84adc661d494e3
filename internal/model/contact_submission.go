package model

// swagger:model ContactSubmission
type ContactSubmission struct {
	BaseModel
	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:100;not null" json:"email"`
	Message string `gorm:"type:text;not null" json:"message"`
}

func (ContactSubmission) TableName() string {
	return "contact_submissions"
}
