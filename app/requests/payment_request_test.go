package requests

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/v1/payments", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestValidateCreatePayment(t *testing.T) {
	c := newJSONContext(t, `{
		"amount": 10000,
		"currency": "NGN",
		"type": "beauty",
		"metadata": {
			"service_type_ids": [1, 2],
			"date": "2026-09-01",
			"time": "10:00",
			"address": "12 Marina Rd"
		}
	}`)

	req, err := ValidateCreatePayment(c)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), req.Amount)
	assert.Equal(t, "beauty", req.Type)
}

func TestValidateCreatePaymentRejectsUnknownType(t *testing.T) {
	c := newJSONContext(t, `{"amount": 1000, "currency": "NGN", "type": "plumbing"}`)

	_, err := ValidateCreatePayment(c)
	require.Error(t, err)

	// 规则校验失败要带上字段级错误信息
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "type")
}

func TestValidateCreatePaymentRejectsIncompleteMetadata(t *testing.T) {
	// 类型合法但缺少履约必需的元数据字段
	c := newJSONContext(t, `{
		"amount": 1000,
		"currency": "NGN",
		"type": "laundry",
		"metadata": {"estimated_weight_kg": 5}
	}`)

	_, err := ValidateCreatePayment(c)
	assert.Error(t, err)
}

func TestValidateAssignSpecialistRequiresID(t *testing.T) {
	c := newJSONContext(t, `{}`)

	_, err := ValidateAssignSpecialist(c)
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "specialist_id")

	c = newJSONContext(t, `{"specialist_id": "sp-1"}`)
	req, err := ValidateAssignSpecialist(c)
	require.NoError(t, err)
	assert.Equal(t, "sp-1", req.SpecialistID)
}
