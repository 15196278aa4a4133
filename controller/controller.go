package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-errors/errors"
	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	pkgerrors "github.com/pkg/errors"
)

const (
	ClaimsKey = "claims"
)

type Wrapfunc func(c *gin.Context, retCode string, entity interface{})

type Controller struct {
	wrapfunc Wrapfunc
}

// fail reports err under code, or under E_RECORD_NOT_FOUND when a record
// lookup is what failed.
func (controller *Controller) fail(c *gin.Context, code string, err error) {
	if pkgerrors.Is(err, repository.ErrRecordNotFound) {
		code = model.E_RECORD_NOT_FOUND
	}
	controller.wrapfunc(c, code, err)
}

func intParam(c *gin.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		return 0, errors.Errorf("expect positive integer %s but got %q", name, c.Param(name))
	}
	return v, nil
}

// userId is the caller taken from the bearer token, 0 without one.
func userId(c *gin.Context) int {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*common.CustomClaims); ok {
			return claims.UserId
		}
	}
	return 0
}
