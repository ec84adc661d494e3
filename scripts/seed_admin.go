// 手动创建初始管理员账号脚本
//
// 首次部署后执行一次，之后的角色变更走管理端接口。
//
// 用法: go run scripts/seed_admin.go -email admin@example.com -password <密码>

package main

import (
	"flag"
	"log"

	"secaware_backend/internal/config"
	"secaware_backend/internal/model"
	"secaware_backend/pkg/database"
	"secaware_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "admin", "管理员用户名")
	email := flag.String("email", "", "管理员邮箱")
	password := flag.String("password", "", "管理员密码")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("必须指定 -email 和 -password")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("密码加密失败: %v", err)
	}

	var existing model.User
	if err := db.Where("email = ?", *email).First(&existing).Error; err == nil {
		existing.Role = model.RoleAdmin
		if err := db.Save(&existing).Error; err != nil {
			log.Fatalf("升级已有用户失败: %v", err)
		}
		log.Printf("已将现有用户 %s 升级为管理员", *email)
		return
	}

	admin := model.User{
		Username: *username,
		Email:    *email,
		Password: string(hashed),
		Role:     model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("创建管理员失败: %v", err)
	}

	log.Printf("管理员 %s (%s) 创建完成", *username, *email)
}
