package service

import (
	"errors"
	"testing"

	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"
)

func TestCreateLearning(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLearningService(repository.NewLearningRepository(db), db)

	learning, err := svc.Create("Phishing 101", model.LearningVideo)
	if err != nil {
		t.Fatalf("Create 返回错误: %v", err)
	}
	if learning.Visibility != model.VisibilityPrivate {
		t.Errorf("新建资料可见性 = %s, 期望 PRIVATE", learning.Visibility)
	}

	if _, err := svc.Create("bad", "AUDIO"); err == nil {
		t.Error("非法类型应返回错误")
	}
	if _, err := svc.Create("  ", model.LearningText); err == nil {
		t.Error("空标题应返回错误")
	}
}

func TestLearningList_VisibleOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLearningService(repository.NewLearningRepository(db), db)

	visible, err := svc.Create("visible", model.LearningText)
	if err != nil {
		t.Fatalf("Create 返回错误: %v", err)
	}
	if _, err := svc.UpdateVisibility(visible.ID, model.VisibilityPublic); err != nil {
		t.Fatalf("UpdateVisibility 返回错误: %v", err)
	}
	if _, err := svc.Create("hidden", model.LearningText); err != nil {
		t.Fatalf("Create 返回错误: %v", err)
	}

	public, err := svc.List(true)
	if err != nil {
		t.Fatalf("List 返回错误: %v", err)
	}
	if len(public) != 1 || public[0].Title != "visible" {
		t.Errorf("学员可见列表 = %+v, 期望只含 visible", public)
	}

	all, err := svc.List(false)
	if err != nil {
		t.Fatalf("List 返回错误: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("管理端列表条数 = %d, 期望 2", len(all))
	}
}

func TestLearningUpdate_ReplacesContent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLearningService(repository.NewLearningRepository(db), db)

	role := &model.JobRole{Name: "Engineering"}
	if err := db.Create(role).Error; err != nil {
		t.Fatalf("创建岗位失败: %v", err)
	}

	learning, err := svc.Create("Phishing 101", model.LearningVideo)
	if err != nil {
		t.Fatalf("Create 返回错误: %v", err)
	}

	if _, err := svc.Update(learning.ID, LearningUpdateRequest{
		Title:      "Phishing 101",
		VideoURL:   "https://cdn.example.com/v1.mp4",
		JobRoleIDs: []uint{role.ID},
	}); err != nil {
		t.Fatalf("第一次 Update 返回错误: %v", err)
	}

	// 再次更新，旧内容整体替换
	if _, err := svc.Update(learning.ID, LearningUpdateRequest{
		Title:    "Phishing 101 v2",
		VideoURL: "https://cdn.example.com/v2.mp4",
	}); err != nil {
		t.Fatalf("第二次 Update 返回错误: %v", err)
	}

	if n := countRows(t, db, &model.VideoContent{}, "learning_id = ?", learning.ID); n != 1 {
		t.Errorf("视频内容行数 = %d, 期望 1", n)
	}
	if n := countRows(t, db, &model.LearningJobRole{}, "learning_id = ?", learning.ID); n != 0 {
		t.Errorf("岗位关联行数 = %d, 期望 0", n)
	}

	updated, err := svc.Get(learning.ID)
	if err != nil {
		t.Fatalf("Get 返回错误: %v", err)
	}
	if updated.Title != "Phishing 101 v2" {
		t.Errorf("标题 = %s, 期望 Phishing 101 v2", updated.Title)
	}
}

func TestLearningDelete_Cascade(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLearningService(repository.NewLearningRepository(db), db)

	learning, err := svc.Create("Phishing 101", model.LearningText)
	if err != nil {
		t.Fatalf("Create 返回错误: %v", err)
	}
	if _, err := svc.Update(learning.ID, LearningUpdateRequest{
		Title:    "Phishing 101",
		TextBody: "Do not click suspicious links.",
	}); err != nil {
		t.Fatalf("Update 返回错误: %v", err)
	}

	if err := svc.Delete(learning.ID); err != nil {
		t.Fatalf("Delete 返回错误: %v", err)
	}

	if n := countRows(t, db, &model.Learning{}, "id = ?", learning.ID); n != 0 {
		t.Errorf("资料应已删除，剩余 %d", n)
	}
	if n := countRows(t, db, &model.TextContent{}, "learning_id = ?", learning.ID); n != 0 {
		t.Errorf("文本内容应已级联删除，剩余 %d", n)
	}

	if err := svc.Delete(learning.ID); !errors.Is(err, util.ErrLearningNotFound) {
		t.Errorf("重复删除错误 = %v, 期望 ErrLearningNotFound", err)
	}
}
