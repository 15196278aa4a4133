package controller

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(params gin.Params) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Params = params
	return c
}

func TestIntParam(t *testing.T) {
	c := testContext(gin.Params{{Key: "eid", Value: "12"}, {Key: "id", Value: "-1"}, {Key: "bad", Value: "x"}})
	v, err := intParam(c, "eid")
	require.Nil(t, err)
	assert.Equal(t, 12, v)
	_, err = intParam(c, "id")
	assert.NotNil(t, err)
	_, err = intParam(c, "bad")
	assert.NotNil(t, err)
	_, err = intParam(c, "missing")
	assert.NotNil(t, err)
}

func TestUserId(t *testing.T) {
	c := testContext(nil)
	assert.Equal(t, 0, userId(c))
	c.Set(ClaimsKey, &common.CustomClaims{Name: "analyst", UserId: 17})
	assert.Equal(t, 17, userId(c))
}

func TestFailMapsNotFound(t *testing.T) {
	var codes []string
	controller := Controller{wrapfunc: func(c *gin.Context, retCode string, entity interface{}) {
		codes = append(codes, retCode)
	}}
	c := testContext(nil)
	controller.fail(c, model.E_DATA_SELECT_FAILED, errors.Wrap(repository.ErrRecordNotFound, "execution 3"))
	controller.fail(c, model.E_DATA_SELECT_FAILED, errors.New("connection refused"))
	assert.Equal(t, []string{model.E_RECORD_NOT_FOUND, model.E_DATA_SELECT_FAILED}, codes)
}
