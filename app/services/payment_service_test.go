package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shine/app/models/appointment"
	"shine/app/models/catalog"
	"shine/app/models/cleaning"
	"shine/app/models/earning"
	"shine/app/models/laundry"
	"shine/app/models/payment"
	"shine/app/repositories"
	"shine/pkg/errs"
	"shine/pkg/gateway/types"
)

// fakeAdapter 可编排的网关适配器
type fakeAdapter struct {
	verification *types.Verification
	verifyErr    error
	verifyCalls  int
}

func (f *fakeAdapter) CreateSession(ctx context.Context, req *types.SessionRequest) (*types.Session, error) {
	return &types.Session{AuthorizationURL: "https://checkout.test/" + req.Reference, Reference: req.Reference}, nil
}

func (f *fakeAdapter) VerifyTransaction(ctx context.Context, reference string) (*types.Verification, error) {
	f.verifyCalls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verification, nil
}

func successVerification(amount int64) *types.Verification {
	paidAt := time.Now()
	return &types.Verification{
		Outcome:       types.OutcomeSuccess,
		AmountCharged: amount,
		Currency:      "NGN",
		PaidAt:        &paidAt,
	}
}

// pipelineFixture 一套带内存库的完整支付管线
type pipelineFixture struct {
	db      *gorm.DB
	adapter *fakeAdapter
	svc     *PaymentService
}

func newPipeline(t *testing.T, adapter *fakeAdapter) *pipelineFixture {
	db := newTestDB(t,
		&payment.Payment{},
		&appointment.Appointment{},
		&laundry.LaundryOrder{},
		&cleaning.CleaningOrder{},
		&earning.Earning{},
		&catalog.BeautyService{},
		&catalog.ServiceType{},
		&catalog.CleaningService{},
	)

	payments := repositories.NewPaymentRepositoryWithDB(db)
	catalogRepo := repositories.NewCatalogRepositoryWithDB(db)

	finalizer := NewFinalizer(db, payments,
		NewBeautyFinalizer(repositories.NewAppointmentRepositoryWithDB(db), catalogRepo),
		NewLaundryFinalizer(repositories.NewLaundryRepositoryWithDB(db)),
		NewCleaningFinalizer(repositories.NewCleaningRepositoryWithDB(db), catalogRepo),
	)
	settlement := NewSettlementService(repositories.NewEarningRepositoryWithDB(db), payments)

	return &pipelineFixture{
		db:      db,
		adapter: adapter,
		svc:     NewPaymentService(adapter, payments, finalizer, settlement, nil),
	}
}

// seedBeautyCatalog 专家 sp-beauty 的服务主项和两个子项（id 1、2）
func (f *pipelineFixture) seedBeautyCatalog(t *testing.T) {
	require.NoError(t, f.db.Create(&catalog.BeautyService{ID: 1, SpecialistID: "sp-beauty", Name: "美甲"}).Error)
	require.NoError(t, f.db.Create(&catalog.ServiceType{ID: 1, ServiceID: 1, Name: "基础款", Price: 6000}).Error)
	require.NoError(t, f.db.Create(&catalog.ServiceType{ID: 2, ServiceID: 1, Name: "雕花", Price: 4000}).Error)
}

func (f *pipelineFixture) createBeautyPayment(t *testing.T, amount int64) string {
	result, err := f.svc.CreateSession(context.Background(), &CreateSessionInput{
		UserID:   "user-1",
		Amount:   amount,
		Currency: "NGN",
		Provider: "paystack",
		Metadata: payment.JSON{
			"type":             "beauty",
			"service_type_ids": []interface{}{1, 2},
			"date":             "2026-09-01",
			"time":             "10:00",
			"address":          "12 Marina Rd",
		},
	})
	require.NoError(t, err)
	return result.Reference
}

func TestProcessVerificationHappyPath(t *testing.T) {
	f := newPipeline(t, &fakeAdapter{verification: successVerification(10000)})
	f.seedBeautyCatalog(t)
	ctx := context.Background()

	ref := f.createBeautyPayment(t, 10000)

	result, err := f.svc.ProcessVerification(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeSuccess, result.Outcome)
	assert.True(t, result.Payment.IsCompleted())
	require.NotNil(t, result.Fulfillment)
	assert.Equal(t, "beauty", result.Fulfillment.Type)
	assert.Equal(t, "sp-beauty", result.Fulfillment.SpecialistID)
	assert.Contains(t, result.Fulfillment.OrderNumber, "BA-")

	// 预约以 pending 创建，等待专家确认
	var a appointment.Appointment
	require.NoError(t, f.db.Where("payment_id = ?", result.Payment.ID).First(&a).Error)
	assert.Equal(t, string(appointment.StatusPending), a.Status)
	assert.Equal(t, int64(10000), a.Amount)

	// 回链已写入
	p, err := f.svc.GetPayment(ctx, ref)
	require.NoError(t, err)
	require.NotNil(t, p.FulfillmentID)
	assert.Equal(t, a.ID, *p.FulfillmentID)

	// 美容预约在 completed 时才结算，此刻不应有收入记录
	var earnings int64
	require.NoError(t, f.db.Model(&earning.Earning{}).Count(&earnings).Error)
	assert.Zero(t, earnings)
}

func TestProcessVerificationIsIdempotent(t *testing.T) {
	f := newPipeline(t, &fakeAdapter{verification: successVerification(10000)})
	f.seedBeautyCatalog(t)
	ctx := context.Background()

	ref := f.createBeautyPayment(t, 10000)

	var firstOrderNumber string
	for i := 0; i < 3; i++ {
		result, err := f.svc.ProcessVerification(ctx, ref)
		require.NoError(t, err)
		require.NotNil(t, result.Fulfillment)
		if firstOrderNumber == "" {
			firstOrderNumber = result.Fulfillment.OrderNumber
		}
		assert.Equal(t, firstOrderNumber, result.Fulfillment.OrderNumber)
	}

	// 三次核验只产生一条预约
	var count int64
	require.NoError(t, f.db.Model(&appointment.Appointment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// 已完成的支付不再请求网关（崩溃重放只续跑本地管线）
	assert.Equal(t, 1, f.adapter.verifyCalls)
}

func TestProcessVerificationAmountMismatch(t *testing.T) {
	// 台账 1000，网关实扣 500
	f := newPipeline(t, &fakeAdapter{verification: successVerification(500)})
	f.seedBeautyCatalog(t)
	ctx := context.Background()

	ref := f.createBeautyPayment(t, 1000)

	_, err := f.svc.ProcessVerification(ctx, ref)
	assert.ErrorIs(t, err, errs.ErrAmountMismatch)

	// 支付保持 pending、打了对账标记，没有产生任何履约
	p, err := f.svc.GetPayment(ctx, ref)
	require.NoError(t, err)
	assert.True(t, p.IsPending())
	assert.NotEmpty(t, p.FlaggedReason)

	var count int64
	require.NoError(t, f.db.Model(&appointment.Appointment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProcessVerificationUnknownOutcome(t *testing.T) {
	f := newPipeline(t, &fakeAdapter{verification: &types.Verification{Outcome: types.OutcomeUnknown}})
	f.seedBeautyCatalog(t)
	ctx := context.Background()

	ref := f.createBeautyPayment(t, 1000)

	result, err := f.svc.ProcessVerification(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeUnknown, result.Outcome)
	assert.True(t, result.Payment.IsPending())
	assert.Nil(t, result.Fulfillment)
}

func TestProcessVerificationAbandoned(t *testing.T) {
	f := newPipeline(t, &fakeAdapter{verification: &types.Verification{Outcome: types.OutcomeAbandoned}})
	f.seedBeautyCatalog(t)
	ctx := context.Background()

	ref := f.createBeautyPayment(t, 1000)

	result, err := f.svc.ProcessVerification(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeAbandoned, result.Outcome)

	p, err := f.svc.GetPayment(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, string(payment.StatusCanceled), p.Status)
}

func TestProcessVerificationUnresolvableBooking(t *testing.T) {
	// 故意不种目录数据：支付成功后服务项已不存在
	f := newPipeline(t, &fakeAdapter{verification: successVerification(1000)})
	ctx := context.Background()

	ref := f.createBeautyPayment(t, 1000)

	result, err := f.svc.ProcessVerification(ctx, ref)
	require.NoError(t, err)
	assert.Nil(t, result.Fulfillment)

	// 支付保持 completed 并被标记，等待人工对账，绝不自动退款
	p, err := f.svc.GetPayment(ctx, ref)
	require.NoError(t, err)
	assert.True(t, p.IsCompleted())
	assert.NotEmpty(t, p.FlaggedReason)
}

func TestProcessVerificationCleaningSettlesAtFinalization(t *testing.T) {
	f := newPipeline(t, &fakeAdapter{verification: successVerification(2000)})
	ctx := context.Background()

	require.NoError(t, f.db.Create(&catalog.CleaningService{
		ID: 1, SpecialistID: "sp-clean", Name: "深度保洁", FullPrice: 20000, BookingFee: 2000,
	}).Error)

	result, err := f.svc.CreateSession(ctx, &CreateSessionInput{
		UserID:   "user-1",
		Amount:   2000,
		Currency: "NGN",
		Provider: "paystack",
		Metadata: payment.JSON{
			"type":       "cleaning",
			"service_id": 1,
			"date":       "2026-09-01",
			"address":    "12 Marina Rd",
		},
	})
	require.NoError(t, err)

	vr, err := f.svc.ProcessVerification(ctx, result.Reference)
	require.NoError(t, err)
	require.NotNil(t, vr.Fulfillment)
	assert.Contains(t, vr.Fulfillment.OrderNumber, "CL-")

	var o cleaning.CleaningOrder
	require.NoError(t, f.db.Where("payment_id = ?", vr.Payment.ID).First(&o).Error)
	assert.Equal(t, int64(20000), o.FullServiceCost)
	assert.Equal(t, int64(2000), o.BookingFee)

	// 保洁的专家在履约时就能确定，预约费立即结算
	var e earning.Earning
	require.NoError(t, f.db.Where("payment_id = ?", vr.Payment.ID).First(&e).Error)
	assert.Equal(t, "sp-clean", e.SpecialistID)
	assert.Equal(t, int64(2000), e.GrossAmount)
	assert.Equal(t, e.GrossAmount, e.PlatformFeeAmount+e.NetAmount)
}

func TestProcessVerificationLaundryDefersSettlement(t *testing.T) {
	f := newPipeline(t, &fakeAdapter{verification: successVerification(1500)})
	ctx := context.Background()

	result, err := f.svc.CreateSession(ctx, &CreateSessionInput{
		UserID:   "user-1",
		Amount:   1500,
		Currency: "NGN",
		Provider: "paystack",
		Metadata: payment.JSON{
			"type":                "laundry",
			"estimated_weight_kg": 8,
			"pickup_date":         "2026-09-01",
			"address":             "12 Marina Rd",
		},
	})
	require.NoError(t, err)

	vr, err := f.svc.ProcessVerification(ctx, result.Reference)
	require.NoError(t, err)
	require.NotNil(t, vr.Fulfillment)
	assert.Contains(t, vr.Fulfillment.OrderNumber, "LD-")
	assert.Empty(t, vr.Fulfillment.SpecialistID)

	var o laundry.LaundryOrder
	require.NoError(t, f.db.Where("payment_id = ?", vr.Payment.ID).First(&o).Error)
	assert.Equal(t, "medium", o.PriceTier)
	assert.Equal(t, string(laundry.StatusPendingPickup), o.Status)
	assert.Nil(t, o.SpecialistID)

	// 没有专家就没有结算，收入悬置到接单时刻
	var count int64
	require.NoError(t, f.db.Model(&earning.Earning{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProcessVerificationOrderIDsCollideAcrossDomains(t *testing.T) {
	// 各订单表独立自增，两个领域的首单都会拿到 ID 1，
	// 回链字段不能因此把第二个领域的履约挡在门外
	f := newPipeline(t, &fakeAdapter{verification: successVerification(1000)})
	f.seedBeautyCatalog(t)
	ctx := context.Background()

	beautyRef := f.createBeautyPayment(t, 1000)
	first, err := f.svc.ProcessVerification(ctx, beautyRef)
	require.NoError(t, err)
	require.NotNil(t, first.Fulfillment)
	require.Equal(t, uint64(1), first.Fulfillment.ID)

	session, err := f.svc.CreateSession(ctx, &CreateSessionInput{
		UserID:   "user-2",
		Amount:   1000,
		Currency: "NGN",
		Provider: "paystack",
		Metadata: payment.JSON{
			"type":                "laundry",
			"estimated_weight_kg": 4,
			"pickup_date":         "2026-09-02",
			"address":             "3 Bode Rd",
		},
	})
	require.NoError(t, err)

	second, err := f.svc.ProcessVerification(ctx, session.Reference)
	require.NoError(t, err)
	require.NotNil(t, second.Fulfillment)
	assert.Equal(t, uint64(1), second.Fulfillment.ID)
	assert.Contains(t, second.Fulfillment.OrderNumber, "LD-")

	// 两笔支付各自回链到同号但不同领域的订单
	p1, err := f.svc.GetPayment(ctx, beautyRef)
	require.NoError(t, err)
	p2, err := f.svc.GetPayment(ctx, session.Reference)
	require.NoError(t, err)
	require.NotNil(t, p1.FulfillmentID)
	require.NotNil(t, p2.FulfillmentID)
	assert.Equal(t, *p1.FulfillmentID, *p2.FulfillmentID)
	assert.Equal(t, "beauty", p1.FulfillmentType)
	assert.Equal(t, "laundry", p2.FulfillmentType)
}

func TestFinalizeRecoversMissingBackLink(t *testing.T) {
	// 模拟订单插入和回链写入之间崩溃：预约已存在但支付未关联
	f := newPipeline(t, &fakeAdapter{verification: successVerification(1000)})
	f.seedBeautyCatalog(t)
	ctx := context.Background()

	ref := f.createBeautyPayment(t, 1000)
	p, err := f.svc.GetPayment(ctx, ref)
	require.NoError(t, err)

	require.NoError(t, f.db.Create(&appointment.Appointment{
		OrderNumber:  "BA-20260828-ABCDEF",
		PaymentID:    p.ID,
		UserID:       "user-1",
		SpecialistID: "sp-beauty",
		Amount:       1000,
		Status:       string(appointment.StatusPending),
	}).Error)

	result, err := f.svc.ProcessVerification(ctx, ref)
	require.NoError(t, err)
	require.NotNil(t, result.Fulfillment)
	assert.Equal(t, "BA-20260828-ABCDEF", result.Fulfillment.OrderNumber)

	// 对账路径补写了回链，且没有第二条预约
	p, err = f.svc.GetPayment(ctx, ref)
	require.NoError(t, err)
	assert.NotNil(t, p.FulfillmentID)

	var count int64
	require.NoError(t, f.db.Model(&appointment.Appointment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
