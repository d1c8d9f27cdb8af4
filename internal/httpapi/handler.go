// Package httpapi exposes the clinical rule engine over JSON.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jianyou-wu/medical-app/internal/dosage"
	"github.com/jianyou-wu/medical-app/internal/formula"
	"github.com/jianyou-wu/medical-app/internal/healthlog"
	"github.com/jianyou-wu/medical-app/internal/matcher"
	"github.com/jianyou-wu/medical-app/internal/tables"
)

// User-facing messages.
const (
	msgInvalidNumber   = "請輸入正確的數值格式"
	msgNoDisease       = "❗ 很抱歉，目前無法根據輸入判斷疾病，建議您諮詢醫師。"
	msgNoDepartment    = "❗ 無法判斷症狀對應的科別，請輸入更清楚的症狀"
	msgPatientNotFound = "查無此病患資料"
	msgNoData          = "無資料"
)

// Handler serves the API from the store's current snapshot.
type Handler struct {
	store    *tables.Store
	formulas *formula.Cache
	calc     *dosage.Calculator
	recorder *healthlog.Recorder
	diseases matcher.DiseaseMatcher
	logger   *zap.Logger
}

// Config wires a Handler.
type Config struct {
	Store     *tables.Store
	Formulas  *formula.Cache
	Recorder  *healthlog.Recorder
	Separator string
	Logger    *zap.Logger
}

// New returns a handler. A nil Formulas cache is replaced by a fresh one and
// a nil Logger discards output.
func New(cfg Config) *Handler {
	if cfg.Formulas == nil {
		cfg.Formulas = formula.NewCache()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Handler{
		store:    cfg.Store,
		formulas: cfg.Formulas,
		calc:     dosage.NewCalculator(cfg.Formulas),
		recorder: cfg.Recorder,
		diseases: matcher.DiseaseMatcher{Separator: cfg.Separator},
		logger:   cfg.Logger,
	}
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/vitals/classify", h.classifyVitals)
	r.POST("/health-log", h.recordHealth)
	r.GET("/health-log", h.healthHistory)

	r.GET("/medications", h.listMedications)
	r.POST("/dosage", h.computeDose)

	r.POST("/chat", h.chat)
	r.POST("/clinics/suggest", h.suggestClinics)
	r.POST("/patients/search", h.searchPatient)

	r.POST("/admin/reload", h.reload)
}

func errorBody(code, message string) gin.H {
	return gin.H{"error": code, "message": message}
}

func (h *Handler) reload(c *gin.Context) {
	snap, err := h.store.Reload()
	if err != nil {
		h.logger.Error("reload tables", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("reload_failed", err.Error()))
		return
	}
	for _, path := range snap.Missing {
		h.logger.Warn("table file missing", zap.String("path", path))
	}
	flushed := h.formulas.Len()
	h.formulas.Flush()
	h.logger.Info("tables reloaded", zap.Int("flushedFormulas", flushed))

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"medications": snap.Medications.Len(),
		"diseases":    len(snap.Diseases),
		"deptRules":   len(snap.DeptRules),
		"clinics":     snap.Clinics.Len(),
		"patients":    snap.Patients.Len(),
		"missing":     snap.Missing,
		"flushed":     flushed,
		"loadedAt":    snap.LoadedAt,
	})
}
