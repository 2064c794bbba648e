// Package user 存放用户 Model 相关逻辑
package user

import (
	"shine/app/models"
)

// Role 用户角色
type Role string

const (
	RoleClient     Role = "client"     // 客户
	RoleSpecialist Role = "specialist" // 服务专家
)

// User 用户模型，客户与专家共用一张表
type User struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Email     string `gorm:"unique;type:varchar(255)"`
	Nickname  string `gorm:"type:varchar(50)"`
	AvatarURL string `gorm:"type:text"`
	Role      Role   `gorm:"type:varchar(20);index;default:'client'"`

	models.CommonTimestampsField
}

// TableName 表名
func (User) TableName() string {
	return "users"
}

// IsSpecialist 是否为服务专家
func (u *User) IsSpecialist() bool {
	return u.Role == RoleSpecialist
}
