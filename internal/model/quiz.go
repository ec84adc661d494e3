package model

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	Title      string     `gorm:"size:255;not null" json:"title"`
	JobRoleID  *uint      `gorm:"index" json:"jobRoleId"`
	JobRole    *JobRole   `json:"jobRole,omitempty"`
	Visibility Visibility `gorm:"size:20;default:'PRIVATE'" json:"visibility"`
	Questions  []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model Question
type Question struct {
	UUIDBase
	QuizID  string   `gorm:"index;type:varchar(36);not null" json:"quizId"`
	Title   string   `gorm:"size:500;not null" json:"title"`
	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Answer
type Answer struct {
	UUIDBase
	QuestionID string `gorm:"index;type:varchar(36);not null" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Answer) TableName() string {
	return "answers"
}

// MultipleCorrect 判断题目是否为多选题（多个正确答案）
func (q *Question) MultipleCorrect() bool {
	n := 0
	for _, a := range q.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n > 1
}
