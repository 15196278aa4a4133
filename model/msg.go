package model

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	E_SUCCESS string = "0000"
	E_UNKNOWN string = "9999"

	E_INVALID_PARAMS    string = "5000"
	E_DATA_CHECK_FAILED string = "5001"
	E_DATA_NOT_EXIST    string = "5002"
	E_DATA_EMPTY        string = "5003"

	E_JWT_TOKEN_INVALID string = "5010"
	E_JWT_TOKEN_NONE    string = "5011"

	E_RECORD_NOT_FOUND   string = "5100"
	E_DATA_INSERT_FAILED string = "5101"
	E_DATA_UPDATE_FAILED string = "5102"
	E_DATA_DELETE_FAILED string = "5103"
	E_DATA_SELECT_FAILED string = "5104"

	E_SOURCE_CONNECT_FAILED string = "5200"
	E_SQL_RENDER_FAILED     string = "5201"
	E_SQL_TRANSLATE_FAILED  string = "5202"
	E_RESULT_QUERY_FAILED   string = "5203"
	E_VOCABULARY_FAILED     string = "5204"
	E_JOB_LAUNCH_FAILED     string = "5300"
)

type CodeMessage struct {
	Msg_EN string
	Msg_ZH string
}

var Messages = map[string]CodeMessage{
	E_SUCCESS: {"E_SUCCESS", "成功"},
	E_UNKNOWN: {"E_UNKNOWN", "未知错误"},

	E_INVALID_PARAMS:    {"E_INVALID_PARAMS", "参数不合法"},
	E_DATA_CHECK_FAILED: {"E_DATA_CHECK_FAILED", "数据校验失败"},
	E_DATA_NOT_EXIST:    {"E_DATA_NOT_EXIST", "数据不存在"},
	E_DATA_EMPTY:        {"E_DATA_EMPTY", "数据不允许为空"},

	E_JWT_TOKEN_INVALID: {"E_JWT_TOKEN_INVALID", "token不合法"},
	E_JWT_TOKEN_NONE:    {"E_JWT_TOKEN_NONE", "token为空"},

	E_RECORD_NOT_FOUND:   {"E_RECORD_NOT_FOUND", "记录找不到"},
	E_DATA_INSERT_FAILED: {"E_DATA_INSERT_FAILED", "数据插入失败"},
	E_DATA_UPDATE_FAILED: {"E_DATA_UPDATE_FAILED", "数据更新失败"},
	E_DATA_DELETE_FAILED: {"E_DATA_DELETE_FAILED", "数据删除失败"},
	E_DATA_SELECT_FAILED: {"E_DATA_SELECT_FAILED", "数据查询失败"},

	E_SOURCE_CONNECT_FAILED: {"E_SOURCE_CONNECT_FAILED", "数据源连接失败"},
	E_SQL_RENDER_FAILED:     {"E_SQL_RENDER_FAILED", "SQL渲染失败"},
	E_SQL_TRANSLATE_FAILED:  {"E_SQL_TRANSLATE_FAILED", "SQL方言转换失败"},
	E_RESULT_QUERY_FAILED:   {"E_RESULT_QUERY_FAILED", "结果查询失败"},
	E_VOCABULARY_FAILED:     {"E_VOCABULARY_FAILED", "概念集解析失败"},
	E_JOB_LAUNCH_FAILED:     {"E_JOB_LAUNCH_FAILED", "任务提交失败"},
}

func GetMsg(c *gin.Context, code string) string {
	lang := c.Request.Header.Get("Accept-Language")
	var msg string
	if strings.Contains(lang, "zh") {
		msg = Messages[code].Msg_ZH
	} else {
		msg = Messages[code].Msg_EN
	}
	return msg
}
