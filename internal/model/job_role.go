package model

// JobRole 岗位标签，测验和学习资料都可以挂在岗位下
// swagger:model JobRole
type JobRole struct {
	BaseModel
	Name string `gorm:"size:100;unique;not null" json:"name"`
}

func (JobRole) TableName() string {
	return "job_roles"
}
