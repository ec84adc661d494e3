package service

import (
	"errors"

	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"

	"gorm.io/gorm"
)

// DefaultLeaderboardSize 仪表盘上展示的名次数量
const DefaultLeaderboardSize = 7

type DashboardService struct {
	UserRepo     *repository.UserRepository
	QuizRepo     *repository.QuizRepository
	AttemptRepo  *repository.AttemptRepository
	LearningRepo *repository.LearningRepository
	JobRoleRepo  *repository.JobRoleRepository
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	quizRepo *repository.QuizRepository,
	attemptRepo *repository.AttemptRepository,
	learningRepo *repository.LearningRepository,
	jobRoleRepo *repository.JobRoleRepository,
) *DashboardService {
	return &DashboardService{
		UserRepo:     userRepo,
		QuizRepo:     quizRepo,
		AttemptRepo:  attemptRepo,
		LearningRepo: learningRepo,
		JobRoleRepo:  jobRoleRepo,
	}
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Photo    string `json:"photo,omitempty"`
	Points   int    `json:"points"`
}

type AdminDashboard struct {
	TotalUsers     int64              `json:"totalUsers"`
	TotalLearnings int64              `json:"totalLearnings"`
	TotalQuizzes   int64              `json:"totalQuizzes"`
	TotalJobRoles  int64              `json:"totalJobRoles"`
	RecentUsers    []model.User       `json:"recentUsers"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
}

type UserQuizStatus struct {
	QuizID         string `json:"quizId"`
	Title          string `json:"title"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Completed      bool   `json:"completed"`
}

type UserDashboard struct {
	TotalLearnings int64              `json:"totalLearnings"`
	TotalQuizzes   int64              `json:"totalQuizzes"`
	DoneQuizzes    int                `json:"doneQuizzes"`
	TotalPoints    int                `json:"totalPoints"`
	MyQuizzes      []UserQuizStatus   `json:"myQuizzes"`
	RecentQuizzes  []model.Quiz       `json:"recentQuizzes"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
}

// GetLeaderboard 聚合全部答题得分生成排行榜，每次调用现算。
// completedOnly 为 true 时只统计已通过的记录。
func (s *DashboardService) GetLeaderboard(limit int, completedOnly bool) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	scores, err := s.AttemptRepo.SumScoresByUser(limit, completedOnly)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(scores))
	for i, sc := range scores {
		entry := LeaderboardEntry{
			Rank:   i + 1,
			UserID: sc.UserID,
			Points: sc.Points,
		}
		user, err := s.UserRepo.FindByID(sc.UserID)
		if err == nil {
			entry.Username = user.Username
			entry.Email = user.Email
			entry.Photo = user.Photo
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *DashboardService) GetAdminDashboard() (*AdminDashboard, error) {
	totalUsers, err := s.UserRepo.Count()
	if err != nil {
		return nil, err
	}
	totalLearnings, err := s.LearningRepo.Count()
	if err != nil {
		return nil, err
	}
	totalQuizzes, err := s.QuizRepo.Count()
	if err != nil {
		return nil, err
	}
	totalJobRoles, err := s.JobRoleRepo.Count()
	if err != nil {
		return nil, err
	}
	recentUsers, err := s.UserRepo.FindRecent(DefaultLeaderboardSize)
	if err != nil {
		return nil, err
	}
	leaderboard, err := s.GetLeaderboard(DefaultLeaderboardSize, false)
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		TotalUsers:     totalUsers,
		TotalLearnings: totalLearnings,
		TotalQuizzes:   totalQuizzes,
		TotalJobRoles:  totalJobRoles,
		RecentUsers:    recentUsers,
		Leaderboard:    leaderboard,
	}, nil
}

func (s *DashboardService) GetUserDashboard(userID uint) (*UserDashboard, error) {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	totalLearnings, err := s.LearningRepo.Count()
	if err != nil {
		return nil, err
	}
	totalQuizzes, err := s.QuizRepo.Count()
	if err != nil {
		return nil, err
	}

	attempts, err := s.AttemptRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	done := 0
	totalPoints := 0
	myQuizzes := make([]UserQuizStatus, 0, len(attempts))
	for _, a := range attempts {
		if a.Completed {
			done++
		}
		totalPoints += a.Score

		status := UserQuizStatus{
			QuizID:         a.QuizID,
			Score:          a.Score,
			TotalQuestions: a.TotalQuestions,
			Completed:      a.Completed,
		}
		if quiz, err := s.QuizRepo.FindByID(a.QuizID); err == nil {
			status.Title = quiz.Title
		}
		myQuizzes = append(myQuizzes, status)
	}

	recentQuizzes, err := s.QuizRepo.FindRecent(5)
	if err != nil {
		return nil, err
	}
	leaderboard, err := s.GetLeaderboard(DefaultLeaderboardSize, false)
	if err != nil {
		return nil, err
	}

	return &UserDashboard{
		TotalLearnings: totalLearnings,
		TotalQuizzes:   totalQuizzes,
		DoneQuizzes:    done,
		TotalPoints:    totalPoints,
		MyQuizzes:      myQuizzes,
		RecentQuizzes:  recentQuizzes,
		Leaderboard:    leaderboard,
	}, nil
}
