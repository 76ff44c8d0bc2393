package search

import (
	"errors"
	"net/http"

	searchService "recipe-search/internal/core/search"
	"recipe-search/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleSearch 混合搜尋處理器
func HandleSearch(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	svc, ok := serviceFromContext(c)
	if !ok {
		return
	}

	var req searchService.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("搜尋請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Invalid request format",
		})
		return
	}

	common.LogInfo("開始處理搜尋請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
		zap.Int("text_length", len(req.Text)),
	)

	resp, err := svc.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	common.LogInfo("搜尋請求完成",
		zap.String("request_id", requestID),
		zap.Int("結果數", resp.Count),
		zap.Bool("快取命中", resp.CacheHit),
		zap.Bool("單路降級", resp.PartialRetrieval),
		zap.Int64("耗時毫秒", resp.DurationMs),
	)

	c.JSON(http.StatusOK, resp)
}

// HandleInterpret 查詢解讀預覽處理器（不觸發檢索）
func HandleInterpret(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	svc, ok := serviceFromContext(c)
	if !ok {
		return
	}

	var req searchService.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Invalid request format",
		})
		return
	}

	resp, err := svc.Interpret(c.Request.Context(), req)
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// serviceFromContext 從 gin context 取出搜尋服務
func serviceFromContext(c *gin.Context) (*searchService.Service, bool) {
	v, exists := c.Get("search_service")
	if !exists {
		common.LogError("Search service not found in context")
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "Search service not found",
		})
		return nil, false
	}
	svc, ok := v.(*searchService.Service)
	if !ok {
		common.LogError("Invalid search service type in context")
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "Invalid search service type",
		})
		return nil, false
	}
	return svc, true
}

// respondError 統一錯誤回應：自定義錯誤帶狀態碼，其餘一律 500
func respondError(c *gin.Context, requestID string, err error) {
	var customErr *common.CustomError
	if errors.As(err, &customErr) {
		common.LogWarn("搜尋請求失敗",
			zap.String("request_id", requestID),
			zap.String("code", customErr.Code),
			zap.Error(err),
		)
		c.JSON(customErr.Status, common.ErrorResponse{
			Code:    customErr.Code,
			Message: customErr.Message,
		})
		return
	}

	common.LogError("搜尋請求發生未預期錯誤",
		zap.String("request_id", requestID),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: "Internal server error",
	})
}
