package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// handleRiskReport 生成风险预警通报
// time 参数为 RFC3339, 缺省使用数据集内的暴雪晚高峰时刻
func (s *HTTPGinServer) handleRiskReport(c *gin.Context) {
	target := time.Date(2024, 2, 13, 18, 0, 0, 0, time.UTC)
	if v := c.Query("time"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.error(c, http.StatusBadRequest, "时间格式错误, 需要 RFC3339")
			return
		}
		target = parsed
	}

	reportResult, err := s.riskSvc.GenerateRiskWarning(c.Request.Context(), target)
	if err != nil {
		s.error(c, http.StatusInternalServerError, "生成风险预警失败")
		return
	}

	s.success(c, reportResult)
}
