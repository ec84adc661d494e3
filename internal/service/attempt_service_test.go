package service

import (
	"errors"
	"testing"

	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"

	"gorm.io/gorm"
)

func TestPassThreshold(t *testing.T) {
	cases := []struct {
		total int
		want  int
	}{
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{10, 5},
	}
	for _, c := range cases {
		if got := PassThreshold(c.total); got != c.want {
			t.Errorf("PassThreshold(%d) = %d, 期望 %d", c.total, got, c.want)
		}
	}
}

func singleChoiceQuestion(id, correctID string, wrongIDs ...string) model.Question {
	q := model.Question{}
	q.ID = id
	q.Answers = append(q.Answers, model.Answer{UUIDBase: model.UUIDBase{ID: correctID}, IsCorrect: true})
	for _, w := range wrongIDs {
		q.Answers = append(q.Answers, model.Answer{UUIDBase: model.UUIDBase{ID: w}})
	}
	return q
}

func TestGrade_SingleChoice(t *testing.T) {
	questions := []model.Question{
		singleChoiceQuestion("q1", "a1", "a2", "a3"),
		singleChoiceQuestion("q2", "b1", "b2", "b3"),
	}

	// 一对一错
	score := Grade(questions, []QuestionResponse{
		{QuestionID: "q1", AnswerIDs: []string{"a1"}},
		{QuestionID: "q2", AnswerIDs: []string{"b2"}},
	})
	if score != 1 {
		t.Errorf("得分 = %d, 期望 1", score)
	}

	// 单选题选多个答案不得分
	score = Grade(questions, []QuestionResponse{
		{QuestionID: "q1", AnswerIDs: []string{"a1", "a2"}},
	})
	if score != 0 {
		t.Errorf("单选多答得分 = %d, 期望 0", score)
	}
}

func TestGrade_MultipleChoice(t *testing.T) {
	q := model.Question{}
	q.ID = "q1"
	q.Answers = []model.Answer{
		{UUIDBase: model.UUIDBase{ID: "a1"}, IsCorrect: true},
		{UUIDBase: model.UUIDBase{ID: "a2"}, IsCorrect: true},
		{UUIDBase: model.UUIDBase{ID: "a3"}},
		{UUIDBase: model.UUIDBase{ID: "a4"}},
	}
	questions := []model.Question{q}

	cases := []struct {
		name   string
		chosen []string
		want   int
	}{
		{"完全匹配", []string{"a1", "a2"}, 1},
		{"漏选", []string{"a1"}, 0},
		{"多选", []string{"a1", "a2", "a3"}, 0},
		{"选错", []string{"a1", "a3"}, 0},
		{"重复同一选项不能凑数", []string{"a1", "a1"}, 0},
		{"重复选项去重后完全匹配", []string{"a1", "a1", "a2"}, 1},
	}
	for _, c := range cases {
		got := Grade(questions, []QuestionResponse{{QuestionID: "q1", AnswerIDs: c.chosen}})
		if got != c.want {
			t.Errorf("%s: 得分 = %d, 期望 %d", c.name, got, c.want)
		}
	}
}

func TestGrade_Unanswered(t *testing.T) {
	questions := []model.Question{
		singleChoiceQuestion("q1", "a1", "a2"),
		singleChoiceQuestion("q2", "b1", "b2"),
	}
	// 只答一题
	score := Grade(questions, []QuestionResponse{
		{QuestionID: "q1", AnswerIDs: []string{"a1"}},
	})
	if score != 1 {
		t.Errorf("得分 = %d, 期望 1", score)
	}
}

func TestGetEligibility_NewUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(t, db)
	user := createTestUser(t, db, "alice", "alice@example.com")
	quiz := createTestQuiz(t, db, "phishing", 1, 1, 1)

	e, err := svc.GetEligibility(user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("GetEligibility 返回错误: %v", err)
	}
	if e.AttemptsLeft != MaxAttempts {
		t.Errorf("AttemptsLeft = %d, 期望 %d", e.AttemptsLeft, MaxAttempts)
	}
	if !e.CanRetake {
		t.Error("新用户应可答题")
	}
	if e.LatestAttempt != nil {
		t.Error("无记录时 LatestAttempt 应为 nil")
	}
}

func TestGetEligibility_AfterFailedAttempt(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(t, db)
	user := createTestUser(t, db, "alice", "alice@example.com")
	quiz := createTestQuiz(t, db, "phishing", 1, 1, 1)

	// 3 题得 1 分，低于及格线 2
	if _, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: 1, TotalQuestions: 3, Passed: false}); err != nil {
		t.Fatalf("Submit 返回错误: %v", err)
	}

	e, err := svc.GetEligibility(user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("GetEligibility 返回错误: %v", err)
	}
	if e.AttemptsLeft != 1 {
		t.Errorf("AttemptsLeft = %d, 期望 1", e.AttemptsLeft)
	}
	if !e.CanRetake {
		t.Error("未通过且有剩余次数时应可重考")
	}
	if e.LatestAttempt == nil || e.LatestAttempt.AttemptNumber != 1 {
		t.Errorf("LatestAttempt = %+v, 期望第 1 次记录", e.LatestAttempt)
	}
}

func TestGetEligibility_PassIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(t, db)
	user := createTestUser(t, db, "alice", "alice@example.com")
	quiz := createTestQuiz(t, db, "phishing", 1, 1, 1)

	// 第一次就通过，即使还剩次数也不能重考
	if _, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: 3, TotalQuestions: 3, Passed: true}); err != nil {
		t.Fatalf("Submit 返回错误: %v", err)
	}

	e, err := svc.GetEligibility(user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("GetEligibility 返回错误: %v", err)
	}
	if e.AttemptsLeft != 1 {
		t.Errorf("AttemptsLeft = %d, 期望 1", e.AttemptsLeft)
	}
	if e.CanRetake {
		t.Error("已通过后不应可重考")
	}
}

func TestGetEligibility_Exhausted(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(t, db)
	user := createTestUser(t, db, "alice", "alice@example.com")
	quiz := createTestQuiz(t, db, "phishing", 1, 1, 1)

	for i := 0; i < MaxAttempts; i++ {
		if _, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: 0, TotalQuestions: 3, Passed: false}); err != nil {
			t.Fatalf("第 %d 次 Submit 返回错误: %v", i+1, err)
		}
	}

	e, err := svc.GetEligibility(user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("GetEligibility 返回错误: %v", err)
	}
	if e.AttemptsLeft != 0 {
		t.Errorf("AttemptsLeft = %d, 期望 0", e.AttemptsLeft)
	}
	if e.CanRetake {
		t.Error("次数耗尽后不应可重考")
	}
}

func TestGetEligibility_UserNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(t, db)
	quiz := createTestQuiz(t, db, "phishing", 1)

	if _, err := svc.GetEligibility(999, quiz.ID); !errors.Is(err, util.ErrUserNotFound) {
		t.Errorf("错误 = %v, 期望 ErrUserNotFound", err)
	}
}

func TestSubmit_OrdinalsGapless(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(t, db)
	user := createTestUser(t, db, "alice", "alice@example.com")
	quiz := createTestQuiz(t, db, "phishing", 1, 1, 1)

	first, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: 1, TotalQuestions: 3, Passed: false})
	if err != nil {
		t.Fatalf("第一次 Submit 返回错误: %v", err)
	}
	if first.Attempt.AttemptNumber != 1 {
		t.Errorf("第一次 AttemptNumber = %d, 期望 1", first.Attempt.AttemptNumber)
	}
	if first.AttemptsLeft != 1 {
		t.Errorf("第一次后 AttemptsLeft = %d, 期望 1", first.AttemptsLeft)
	}

	second, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: 2, TotalQuestions: 3, Passed: true})
	if err != nil {
		t.Fatalf("第二次 Submit 返回错误: %v", err)
	}
	if second.Attempt.AttemptNumber != 2 {
		t.Errorf("第二次 AttemptNumber = %d, 期望 2", second.Attempt.AttemptNumber)
	}
	if second.AttemptsLeft != 0 {
		t.Errorf("第二次后 AttemptsLeft = %d, 期望 0", second.AttemptsLeft)
	}
}

func TestSubmit_ThirdRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(t, db)
	user := createTestUser(t, db, "alice", "alice@example.com")
	quiz := createTestQuiz(t, db, "phishing", 1, 1, 1)

	for i := 0; i < MaxAttempts; i++ {
		if _, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: 0, TotalQuestions: 3, Passed: false}); err != nil {
			t.Fatalf("第 %d 次 Submit 返回错误: %v", i+1, err)
		}
	}

	_, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: 3, TotalQuestions: 3, Passed: true})
	if !errors.Is(err, util.ErrAttemptsExhausted) {
		t.Errorf("错误 = %v, 期望 ErrAttemptsExhausted", err)
	}
	if n := countAttempts(t, db, user.ID, quiz.ID); n != MaxAttempts {
		t.Errorf("被拒绝的提交不应落库，记录数 = %d, 期望 %d", n, MaxAttempts)
	}
}

func TestSubmit_ServerSideGrading(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(t, db)
	user := createTestUser(t, db, "alice", "alice@example.com")
	quiz := createTestQuiz(t, db, "phishing", 1, 1, 1)

	full, err := repository.NewQuizRepository(db).FindByIDFull(quiz.ID)
	if err != nil {
		t.Fatalf("读取测验失败: %v", err)
	}

	// 前两题答对，第三题不答；客户端伪造的满分应被忽略
	responses := make([]QuestionResponse, 0, 2)
	for _, q := range full.Questions[:2] {
		for _, a := range q.Answers {
			if a.IsCorrect {
				responses = append(responses, QuestionResponse{QuestionID: q.ID, AnswerIDs: []string{a.ID}})
			}
		}
	}

	result, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{
		Score:          3,
		TotalQuestions: 3,
		Passed:         true,
		Responses:      responses,
	})
	if err != nil {
		t.Fatalf("Submit 返回错误: %v", err)
	}
	if result.Score != 2 {
		t.Errorf("服务端判分 = %d, 期望 2", result.Score)
	}
	if !result.Passed {
		t.Error("2/3 达到及格线，应判通过")
	}
	if result.Attempt.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, 期望 3", result.Attempt.TotalQuestions)
	}
}

func TestSubmit_LegacyScoreClamped(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(t, db)
	user := createTestUser(t, db, "alice", "alice@example.com")
	quiz := createTestQuiz(t, db, "phishing", 1, 1, 1)

	// 无作答明细时只信任分数的范围，负分归零
	first, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: -5, TotalQuestions: 3, Passed: false})
	if err != nil {
		t.Fatalf("Submit 返回错误: %v", err)
	}
	if first.Attempt.Score != 0 {
		t.Errorf("负分落库 = %d, 期望 0", first.Attempt.Score)
	}

	// 超出题目数的分数截断到题目数
	second, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: 99, TotalQuestions: 3, Passed: true})
	if err != nil {
		t.Fatalf("Submit 返回错误: %v", err)
	}
	if second.Attempt.Score != 3 {
		t.Errorf("超限分数落库 = %d, 期望 3", second.Attempt.Score)
	}
	if second.Attempt.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, 期望 3", second.Attempt.TotalQuestions)
	}
}

func TestSubmit_OrdinalConflictRetry(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(t, db)
	user := createTestUser(t, db, "alice", "alice@example.com")
	quiz := createTestQuiz(t, db, "phishing", 1, 1, 1)

	// 在第一次写入前从同一事务里抢注相同序号，
	// 模拟两个提交同时通过计数检查后的唯一索引冲突。
	injected := false
	err := db.Callback().Create().Before("gorm:create").Register("attempt_rival_insert", func(tx *gorm.DB) {
		rival, ok := tx.Statement.Dest.(*model.QuizAttempt)
		if !ok || injected {
			return
		}
		injected = true
		tx.Exec(
			"INSERT INTO quiz_attempts (id, user_id, quiz_id, score, total_questions, completed, attempt_number, created_at, updated_at) VALUES (?, ?, ?, 0, 0, 0, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
			model.GenerateUUID(), rival.UserID, rival.QuizID, rival.AttemptNumber,
		)
	})
	if err != nil {
		t.Fatalf("注册回调失败: %v", err)
	}

	first, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: 1, TotalQuestions: 3, Passed: false})
	if err != nil {
		t.Fatalf("冲突重试后 Submit 仍返回错误: %v", err)
	}
	if !injected {
		t.Fatal("冲突注入未触发")
	}
	if first.Attempt.AttemptNumber != 1 {
		t.Errorf("重试后 AttemptNumber = %d, 期望 1", first.Attempt.AttemptNumber)
	}

	second, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: 2, TotalQuestions: 3, Passed: true})
	if err != nil {
		t.Fatalf("第二次 Submit 返回错误: %v", err)
	}
	if second.Attempt.AttemptNumber != 2 {
		t.Errorf("第二次 AttemptNumber = %d, 期望 2", second.Attempt.AttemptNumber)
	}

	// 台账上限仍然生效，序号无空洞
	if _, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: 3, TotalQuestions: 3, Passed: true}); !errors.Is(err, util.ErrAttemptsExhausted) {
		t.Errorf("错误 = %v, 期望 ErrAttemptsExhausted", err)
	}
	if n := countAttempts(t, db, user.ID, quiz.ID); n != MaxAttempts {
		t.Errorf("记录数 = %d, 期望 %d", n, MaxAttempts)
	}
	var ordinals []int
	if err := db.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", user.ID, quiz.ID).
		Order("attempt_number").
		Pluck("attempt_number", &ordinals).Error; err != nil {
		t.Fatalf("读取序号失败: %v", err)
	}
	for i, got := range ordinals {
		if got != i+1 {
			t.Errorf("序号[%d] = %d, 期望 %d", i, got, i+1)
		}
	}
}

func TestSubmit_QuizNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(t, db)
	user := createTestUser(t, db, "alice", "alice@example.com")

	_, err := svc.Submit(user.ID, model.GenerateUUID(), SubmitRequest{Score: 1, TotalQuestions: 3})
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("错误 = %v, 期望 ErrQuizNotFound", err)
	}
}

func TestMarkAsDone(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(t, db)
	user := createTestUser(t, db, "alice", "alice@example.com")
	quiz := createTestQuiz(t, db, "phishing", 1, 1, 1)

	// 无答题记录
	if err := svc.MarkAsDone(user.ID, quiz.ID); !errors.Is(err, util.ErrIncompleteAttempt) {
		t.Errorf("无记录时错误 = %v, 期望 ErrIncompleteAttempt", err)
	}

	// 最近一次未通过
	if _, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: 0, TotalQuestions: 3, Passed: false}); err != nil {
		t.Fatalf("Submit 返回错误: %v", err)
	}
	if err := svc.MarkAsDone(user.ID, quiz.ID); !errors.Is(err, util.ErrIncompleteAttempt) {
		t.Errorf("未通过时错误 = %v, 期望 ErrIncompleteAttempt", err)
	}

	// 通过后可标记，且幂等
	if _, err := svc.Submit(user.ID, quiz.ID, SubmitRequest{Score: 3, TotalQuestions: 3, Passed: true}); err != nil {
		t.Fatalf("Submit 返回错误: %v", err)
	}
	if err := svc.MarkAsDone(user.ID, quiz.ID); err != nil {
		t.Errorf("通过后标记返回错误: %v", err)
	}
	if err := svc.MarkAsDone(user.ID, quiz.ID); err != nil {
		t.Errorf("重复标记返回错误: %v", err)
	}
}
