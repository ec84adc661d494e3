package service

import (
	"testing"
)

func TestLeaderboard_Aggregation(t *testing.T) {
	db := setupTestDB(t)
	attemptSvc := newAttemptService(t, db)
	svc := newDashboardService(t, db)

	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")
	quiz1 := createTestQuiz(t, db, "phishing", 1, 1, 1)
	quiz2 := createTestQuiz(t, db, "passwords", 1, 1, 1)

	// alice: 3 + 4，bob: 5
	mustSubmit(t, attemptSvc, alice.ID, quiz1.ID, 3, 5, true)
	mustSubmit(t, attemptSvc, alice.ID, quiz2.ID, 4, 5, true)
	mustSubmit(t, attemptSvc, bob.ID, quiz1.ID, 5, 5, true)

	entries, err := svc.GetLeaderboard(0, false)
	if err != nil {
		t.Fatalf("GetLeaderboard 返回错误: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("榜单条数 = %d, 期望 2", len(entries))
	}
	if entries[0].UserID != alice.ID || entries[0].Points != 7 {
		t.Errorf("第 1 名 = 用户 %d / %d 分, 期望 alice / 7 分", entries[0].UserID, entries[0].Points)
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Errorf("名次 = %d, %d, 期望 1, 2", entries[0].Rank, entries[1].Rank)
	}
	if entries[0].Username != "alice" {
		t.Errorf("第 1 名用户名 = %s, 期望 alice", entries[0].Username)
	}
}

func TestLeaderboard_TieBreak(t *testing.T) {
	db := setupTestDB(t)
	attemptSvc := newAttemptService(t, db)
	svc := newDashboardService(t, db)

	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")
	quiz := createTestQuiz(t, db, "phishing", 1, 1, 1)

	// 同分时按用户 ID 升序
	mustSubmit(t, attemptSvc, bob.ID, quiz.ID, 3, 5, true)
	mustSubmit(t, attemptSvc, alice.ID, quiz.ID, 3, 5, true)

	entries, err := svc.GetLeaderboard(0, false)
	if err != nil {
		t.Fatalf("GetLeaderboard 返回错误: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("榜单条数 = %d, 期望 2", len(entries))
	}
	if entries[0].UserID != alice.ID {
		t.Errorf("同分第 1 名 = 用户 %d, 期望较小 ID %d", entries[0].UserID, alice.ID)
	}
}

func TestLeaderboard_Limit(t *testing.T) {
	db := setupTestDB(t)
	attemptSvc := newAttemptService(t, db)
	svc := newDashboardService(t, db)
	quiz := createTestQuiz(t, db, "phishing", 1, 1, 1)

	for i := 0; i < DefaultLeaderboardSize+3; i++ {
		u := createTestUser(t, db, "user", "user"+string(rune('a'+i))+"@example.com")
		mustSubmit(t, attemptSvc, u.ID, quiz.ID, i, 15, false)
	}

	entries, err := svc.GetLeaderboard(0, false)
	if err != nil {
		t.Fatalf("GetLeaderboard 返回错误: %v", err)
	}
	if len(entries) != DefaultLeaderboardSize {
		t.Errorf("榜单条数 = %d, 期望默认上限 %d", len(entries), DefaultLeaderboardSize)
	}
}

func TestLeaderboard_CompletedOnly(t *testing.T) {
	db := setupTestDB(t)
	attemptSvc := newAttemptService(t, db)
	svc := newDashboardService(t, db)

	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")
	quiz := createTestQuiz(t, db, "phishing", 1, 1, 1)

	mustSubmit(t, attemptSvc, alice.ID, quiz.ID, 1, 5, false)
	mustSubmit(t, attemptSvc, bob.ID, quiz.ID, 4, 5, true)

	entries, err := svc.GetLeaderboard(0, true)
	if err != nil {
		t.Fatalf("GetLeaderboard 返回错误: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("只统计已通过时条数 = %d, 期望 1", len(entries))
	}
	if entries[0].UserID != bob.ID {
		t.Errorf("第 1 名 = 用户 %d, 期望 bob", entries[0].UserID)
	}
}

func TestLeaderboard_RecomputeAfterQuizDelete(t *testing.T) {
	db := setupTestDB(t)
	attemptSvc := newAttemptService(t, db)
	quizSvc := newQuizService(t, db)
	svc := newDashboardService(t, db)

	alice := createTestUser(t, db, "alice", "alice@example.com")
	quiz1 := createTestQuiz(t, db, "phishing", 1, 1, 1)
	quiz2 := createTestQuiz(t, db, "passwords", 1, 1, 1)

	mustSubmit(t, attemptSvc, alice.ID, quiz1.ID, 3, 5, true)
	mustSubmit(t, attemptSvc, alice.ID, quiz2.ID, 4, 5, true)

	if err := quizSvc.Delete(quiz2.ID); err != nil {
		t.Fatalf("Delete 返回错误: %v", err)
	}

	// 删除测验后积分随答题记录一起消失
	entries, err := svc.GetLeaderboard(0, false)
	if err != nil {
		t.Fatalf("GetLeaderboard 返回错误: %v", err)
	}
	if len(entries) != 1 || entries[0].Points != 3 {
		t.Fatalf("删除后榜单 = %+v, 期望 alice 3 分", entries)
	}
}

func TestUserDashboard(t *testing.T) {
	db := setupTestDB(t)
	attemptSvc := newAttemptService(t, db)
	svc := newDashboardService(t, db)

	alice := createTestUser(t, db, "alice", "alice@example.com")
	quiz1 := createTestQuiz(t, db, "phishing", 1, 1, 1)
	quiz2 := createTestQuiz(t, db, "passwords", 1, 1, 1)

	mustSubmit(t, attemptSvc, alice.ID, quiz1.ID, 3, 3, true)
	mustSubmit(t, attemptSvc, alice.ID, quiz2.ID, 1, 3, false)

	d, err := svc.GetUserDashboard(alice.ID)
	if err != nil {
		t.Fatalf("GetUserDashboard 返回错误: %v", err)
	}
	if d.TotalQuizzes != 2 {
		t.Errorf("TotalQuizzes = %d, 期望 2", d.TotalQuizzes)
	}
	if d.DoneQuizzes != 1 {
		t.Errorf("DoneQuizzes = %d, 期望 1", d.DoneQuizzes)
	}
	if d.TotalPoints != 4 {
		t.Errorf("TotalPoints = %d, 期望 4", d.TotalPoints)
	}
	if len(d.MyQuizzes) != 2 {
		t.Errorf("MyQuizzes 条数 = %d, 期望 2", len(d.MyQuizzes))
	}
}

func TestAdminDashboard(t *testing.T) {
	db := setupTestDB(t)
	svc := newDashboardService(t, db)

	createTestUser(t, db, "alice", "alice@example.com")
	createTestUser(t, db, "bob", "bob@example.com")
	createTestQuiz(t, db, "phishing", 1)

	d, err := svc.GetAdminDashboard()
	if err != nil {
		t.Fatalf("GetAdminDashboard 返回错误: %v", err)
	}
	if d.TotalUsers != 2 {
		t.Errorf("TotalUsers = %d, 期望 2", d.TotalUsers)
	}
	if d.TotalQuizzes != 1 {
		t.Errorf("TotalQuizzes = %d, 期望 1", d.TotalQuizzes)
	}
	if len(d.RecentUsers) != 2 {
		t.Errorf("RecentUsers 条数 = %d, 期望 2", len(d.RecentUsers))
	}
}

func mustSubmit(t *testing.T, svc *AttemptService, userID uint, quizID string, score, total int, passed bool) {
	t.Helper()
	if _, err := svc.Submit(userID, quizID, SubmitRequest{Score: score, TotalQuestions: total, Passed: passed}); err != nil {
		t.Fatalf("Submit 返回错误: %v", err)
	}
}
