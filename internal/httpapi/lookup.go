package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jianyou-wu/medical-app/internal/clinic"
)

type chatRequest struct {
	Symptom string `json:"symptom"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid_payload", "invalid payload"))
		return
	}

	matches := h.diseases.Match(req.Symptom, h.store.Snapshot().Diseases)
	resp := gin.H{"matches": matches}
	if len(matches) == 0 {
		resp["message"] = msgNoDisease
	}
	c.JSON(http.StatusOK, resp)
}

type clinicRequest struct {
	Area    string `json:"area"`
	Symptom string `json:"symptom"`
}

func (h *Handler) suggestClinics(c *gin.Context) {
	var req clinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid_payload", "invalid payload"))
		return
	}
	area := strings.TrimSpace(req.Area)
	snap := h.store.Snapshot()

	dept, ok := snap.DeptRules.Match(strings.TrimSpace(req.Symptom))
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"department": nil,
			"clinics":    []clinic.Clinic{},
			"message":    msgNoDepartment,
		})
		return
	}

	clinics := snap.Clinics.Find(area, dept)
	resp := gin.H{"department": dept, "clinics": clinics}
	if len(clinics) == 0 {
		resp["message"] = fmt.Sprintf("❗ 找不到 %s 的 %s 診所", area, dept)
	}
	c.JSON(http.StatusOK, resp)
}

type patientRequest struct {
	Query string `json:"query"`
}

func (h *Handler) searchPatient(c *gin.Context) {
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid_payload", "invalid payload"))
		return
	}

	rec, ok := h.store.Snapshot().Patients.Find(req.Query)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": msgPatientNotFound,
			"patient": nil,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": rec})
}
