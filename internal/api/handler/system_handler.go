package handler

import (
	"github.com/gin-gonic/gin"

	"task-tracker/internal/service"
	"task-tracker/pkg/utils"
)

type SystemHandler struct {
	systemService service.SystemService
}

func NewSystemHandler(systemService service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /api/health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	utils.Success(c, h.systemService.Health())
}

// Enums 枚举值
// @Summary 获取所有枚举值及展示名
// @Tags 系统
// @Produce json
// @Success 200 {object} dto.EnumsResponse
// @Router /api/enums [get]
func (h *SystemHandler) Enums(c *gin.Context) {
	utils.Success(c, h.systemService.Enums())
}

// InitDB 初始化数据库
// @Summary 清空并重新初始化数据库（仅开发环境）
// @Tags 系统
// @Produce json
// @Success 201 {object} dto.InitDBResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/init-db [post]
func (h *SystemHandler) InitDB(c *gin.Context) {
	resp, err := h.systemService.InitDB(c.Request.Context())
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, resp)
}
