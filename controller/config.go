package controller

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/housepower/cohortcmp/config"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/sqlrender"
)

type ConfigController struct {
	Controller
}

func NewConfigController(wrapfunc Wrapfunc) *ConfigController {
	cf := &ConfigController{}
	cf.wrapfunc = wrapfunc
	return cf
}

// @Summary Get Version
// @Description Get Version
// @version 1.0
// @Security ApiKeyAuth
// @Success 200 {string} json "{"code":"0000","msg":"ok","data":"v1.0.0"}"
// @Router /version [get]
func (controller *ConfigController) GetVersion(c *gin.Context) {
	version := strings.Split(config.GlobalConfig.Version, "-")[0]
	controller.wrapfunc(c, model.E_SUCCESS, version)
}

// @Summary Get Dialects
// @Description List the source dialects result queries can be translated to
// @version 1.0
// @Security ApiKeyAuth
// @Success 200 {string} json "{"code":"0000","msg":"ok","data":["mysql","oracle","pdw","postgresql","redshift","sql server"]}"
// @Router /dialects [get]
func (controller *ConfigController) GetDialects(c *gin.Context) {
	controller.wrapfunc(c, model.E_SUCCESS, sqlrender.Dialects())
}
