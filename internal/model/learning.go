package model

type LearningType string

const (
	LearningVideo LearningType = "VIDEO"
	LearningText  LearningType = "TEXT"
)

// swagger:model Learning
type Learning struct {
	UUIDBase
	Title        string            `gorm:"size:255;not null" json:"title"`
	Type         LearningType      `gorm:"size:20;not null" json:"type"`
	Visibility   Visibility        `gorm:"size:20;default:'PRIVATE'" json:"visibility"`
	VideoContent *VideoContent     `gorm:"foreignKey:LearningID" json:"videoContent,omitempty"`
	TextContent  *TextContent      `gorm:"foreignKey:LearningID" json:"textContent,omitempty"`
	JobRoles     []LearningJobRole `gorm:"foreignKey:LearningID" json:"jobRoles,omitempty"`
}

func (Learning) TableName() string {
	return "learnings"
}

// swagger:model VideoContent
type VideoContent struct {
	UUIDBase
	LearningID string `gorm:"index;type:varchar(36);not null" json:"learningId"`
	URL        string `gorm:"size:500;not null" json:"url"`
}

func (VideoContent) TableName() string {
	return "video_contents"
}

// swagger:model TextContent
type TextContent struct {
	UUIDBase
	LearningID string `gorm:"index;type:varchar(36);not null" json:"learningId"`
	Body       string `gorm:"type:text" json:"body"`
}

func (TextContent) TableName() string {
	return "text_contents"
}

// LearningJobRole 学习资料与岗位的关联表
type LearningJobRole struct {
	BaseModel
	LearningID string   `gorm:"index;type:varchar(36);not null" json:"learningId"`
	JobRoleID  uint     `gorm:"index;not null" json:"jobRoleId"`
	JobRole    *JobRole `json:"jobRole,omitempty"`
}

func (LearningJobRole) TableName() string {
	return "learning_job_roles"
}
