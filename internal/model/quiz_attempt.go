package model

// QuizAttempt 测验答题台账，一次提交一条记录，创建后不再修改。
// (user_id, quiz_id, attempt_number) 上的唯一索引保证并发提交时序号不重复。
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	UserID         uint   `gorm:"index;uniqueIndex:uniq_user_quiz_attempt;not null" json:"userId"`
	QuizID         string `gorm:"index;uniqueIndex:uniq_user_quiz_attempt;type:varchar(36);not null" json:"quizId"`
	Score          int    `gorm:"not null" json:"score"`
	TotalQuestions int    `gorm:"not null" json:"totalQuestions"`
	Completed      bool   `gorm:"default:false" json:"completed"`
	AttemptNumber  int    `gorm:"uniqueIndex:uniq_user_quiz_attempt;not null" json:"attemptNumber"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
