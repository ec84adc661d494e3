package service

import (
	"testing"

	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/pkg/database"
	"secaware_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// setupTestDB 每个测试一个独立的内存库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("测试数据库迁移失败: %v", err)
	}
	return db
}

func newAttemptService(t *testing.T, db *gorm.DB) *AttemptService {
	t.Helper()
	return NewAttemptService(
		repository.NewAttemptRepository(db),
		repository.NewQuizRepository(db),
		repository.NewUserRepository(db),
		db,
	)
}

func newQuizService(t *testing.T, db *gorm.DB) *QuizService {
	t.Helper()
	// 测试不接 Redis，缓存路径在 nil 客户端下直接跳过
	return NewQuizService(repository.NewQuizRepository(db), db, nil)
}

func newDashboardService(t *testing.T, db *gorm.DB) *DashboardService {
	t.Helper()
	return NewDashboardService(
		repository.NewUserRepository(db),
		repository.NewQuizRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewLearningRepository(db),
		repository.NewJobRoleRepository(db),
	)
}

func createTestUser(t *testing.T, db *gorm.DB, username, email string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    email,
		Password: "hashed",
		Role:     model.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}

// createTestQuiz 建一个公开测验。correctCounts 指定每道题的正确答案数，
// 每题固定 4 个选项，前 correctCounts[i] 个为正确答案。
func createTestQuiz(t *testing.T, db *gorm.DB, title string, correctCounts ...int) *model.Quiz {
	t.Helper()

	quiz := &model.Quiz{
		Title:      title,
		Visibility: model.VisibilityPublic,
	}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("创建测试测验失败: %v", err)
	}

	for _, correct := range correctCounts {
		question := &model.Question{
			QuizID: quiz.ID,
			Title:  "question",
		}
		if err := db.Create(question).Error; err != nil {
			t.Fatalf("创建测试题目失败: %v", err)
		}
		for j := 0; j < 4; j++ {
			answer := &model.Answer{
				QuestionID: question.ID,
				Text:       "answer",
				IsCorrect:  j < correct,
			}
			if err := db.Create(answer).Error; err != nil {
				t.Fatalf("创建测试答案失败: %v", err)
			}
		}
	}
	return quiz
}

func countAttempts(t *testing.T, db *gorm.DB, userID uint, quizID string) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error; err != nil {
		t.Fatalf("统计答题记录失败: %v", err)
	}
	return count
}
