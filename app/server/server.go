package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"GoPolicyRAG/app/engine"
)

// Answerer is the only contract the transport layer holds against the
// engine: a non-empty question in, a complete AnswerResult out.
type Answerer interface {
	Answer(ctx context.Context, query string) engine.AnswerResult
}

type answerRequest struct {
	Question string `json:"question" binding:"required"`
}

type apiResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func NewRouter(answerer Answerer, mode string, log *zap.Logger) *gin.Engine {
	gin.SetMode(mode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, apiResponse{Code: 0, Message: "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.POST("/answer", func(c *gin.Context) {
		var req answerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, apiResponse{Code: 40000, Message: "question is required"})
			return
		}

		result := answerer.Answer(c.Request.Context(), req.Question)
		c.JSON(http.StatusOK, apiResponse{Code: 0, Message: "ok", Data: result})
	})

	log.Info("router ready")
	return router
}
