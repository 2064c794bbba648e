package migrations

import (
	"shine/app/models/appointment"
	"shine/app/models/catalog"
	"shine/app/models/cleaning"
	"shine/app/models/earning"
	"shine/app/models/laundry"
	"shine/app/models/notification"
	"shine/app/models/payment"
	"shine/app/models/user"
)

// RegisterTables 返回需要迁移的表的模型列表
func RegisterTables() []interface{} {
	return []interface{}{
		&user.User{},
		&payment.Payment{},
		&appointment.Appointment{},
		&laundry.LaundryOrder{},
		&cleaning.CleaningOrder{},
		&earning.Earning{},
		&notification.Notification{},
		&catalog.BeautyService{},
		&catalog.ServiceType{},
		&catalog.CleaningService{},
	}
}
