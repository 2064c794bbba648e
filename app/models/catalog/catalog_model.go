// Package catalog 服务目录模型
//
// 履约器在支付成功后用这些表把预约元数据解析成订单明细；
// 下单到支付之间目录项可能被删除，解析失败的支付进入人工对账。
package catalog

import (
	"shine/app/models"
)

// BeautyService 美容服务（专家发布的服务主项）
type BeautyService struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	SpecialistID string `gorm:"type:varchar(36);index" json:"specialist_id"`
	Name         string `gorm:"type:varchar(100)" json:"name"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (BeautyService) TableName() string {
	return "beauty_services"
}

// ServiceType 美容服务子项（可多选），归属某个服务主项
type ServiceType struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ServiceID uint64 `gorm:"index" json:"service_id"` // 父服务主项
	Name      string `gorm:"type:varchar(100)" json:"name"`
	Price     int64  `json:"price"` // 最小货币单位

	models.CommonTimestampsField
}

// TableName 指定表名
func (ServiceType) TableName() string {
	return "beauty_service_types"
}

// CleaningService 保洁固定服务项
// FullPrice 是服务全价，BookingFee 是线上实收的优惠预约费，两者不同
type CleaningService struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	SpecialistID string `gorm:"type:varchar(36);index" json:"specialist_id"`
	Name         string `gorm:"type:varchar(100)" json:"name"`
	FullPrice    int64  `json:"full_price"`
	BookingFee   int64  `json:"booking_fee"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (CleaningService) TableName() string {
	return "cleaning_services"
}
