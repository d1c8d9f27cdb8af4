package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jianyou-wu/medical-app/internal/healthlog"
	"github.com/jianyou-wu/medical-app/internal/vitals"
)

type vitalsRequest struct {
	Name string `json:"name"`
	BP   string `json:"bp"`
	HR   string `json:"hr"`
	Temp string `json:"temp"`
}

type alertView struct {
	Code        vitals.Label `json:"code"`
	Message     string       `json:"message"`
	FormatError bool         `json:"formatError"`
}

func alertViews(labels []vitals.Label) []alertView {
	out := make([]alertView, len(labels))
	for i, l := range labels {
		out[i] = alertView{Code: l, Message: l.Message(), FormatError: l.IsFormatError()}
	}
	return out
}

func (h *Handler) classifyVitals(c *gin.Context) {
	var req vitalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid_payload", "invalid payload"))
		return
	}
	reading := vitals.ParseReading(req.BP, req.HR, req.Temp)
	c.JSON(http.StatusOK, gin.H{
		"reading": reading,
		"alerts":  alertViews(reading.Labels()),
	})
}

func (h *Handler) recordHealth(c *gin.Context) {
	var req vitalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid_payload", "invalid payload"))
		return
	}

	entry, err := h.recorder.Record(c.Request.Context(), req.Name, req.BP, req.HR, req.Temp)
	if err != nil {
		if errors.Is(err, healthlog.ErrNameRequired) {
			c.JSON(http.StatusBadRequest, errorBody("name_required", "請輸入姓名"))
			return
		}
		h.logger.Error("append health log", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("log_failed", "無法寫入健康紀錄"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry":  entry,
		"alerts": alertViews(entry.Alerts),
	})
}

func (h *Handler) healthHistory(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, errorBody("invalid_limit", "limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := h.recorder.History(c.Request.Context(), c.Query("name"), limit)
	if err != nil {
		h.logger.Error("read health log", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("log_failed", "無法讀取健康紀錄"))
		return
	}
	if entries == nil {
		entries = []healthlog.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
