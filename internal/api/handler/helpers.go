package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"task-tracker/internal/dto"
	"task-tracker/pkg/constants"
	"task-tracker/pkg/utils"
)

// currentUserID 认证中间件写入的用户ID
func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(constants.ContextUserIDKey)
}

// parseID 解析路径中的 :id
func parseID(c *gin.Context) (int64, bool) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, http.StatusBadRequest, "无效的ID", utils.FormatValidationError(err))
		return 0, false
	}
	return param.ID, true
}

// bindJSON 绑定并校验请求体
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		utils.ErrorWithDetail(c, http.StatusBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return false
	}
	return true
}

// bindStrictJSON 与 bindJSON 相同，但拒绝未声明的字段
func bindStrictJSON(c *gin.Context, obj interface{}) bool {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(obj)
	if errors.Is(err, io.EOF) {
		utils.ErrorWithCode(c, http.StatusBadRequest, "请求体不能为空")
		return false
	}
	if err == nil {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err != nil {
		utils.ErrorWithDetail(c, http.StatusBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return false
	}
	return true
}
