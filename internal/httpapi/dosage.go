package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jianyou-wu/medical-app/internal/dosage"
	"github.com/jianyou-wu/medical-app/internal/formula"
	"github.com/jianyou-wu/medical-app/internal/numtext"
)

// number accepts a JSON number or a numeric string, as sent by HTML forms.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	v, err := numtext.ParseFloat(string(bytes.Trim(b, `"`)))
	if err != nil {
		return err
	}
	*n = number(v)
	return nil
}

type dosageRequest struct {
	Name    string  `json:"name"`
	Age     *number `json:"age"`
	Weight  *number `json:"weight"`
	MedName string  `json:"medName"`
}

type dosageResponse struct {
	Name            string  `json:"name"`
	Age             float64 `json:"age"`
	Weight          float64 `json:"weight"`
	MedName         string  `json:"medName"`
	Dose            float64 `json:"dose"`
	DoseInstruction string  `json:"doseInstruction"`
	Symptoms        string  `json:"symptoms"`
	SideEffects     string  `json:"sideEffects"`
}

func orNoData(s string) string {
	if s == "" {
		return msgNoData
	}
	return s
}

func (h *Handler) listMedications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"medications": h.store.Snapshot().Medications.Names()})
}

func (h *Handler) computeDose(c *gin.Context) {
	var req dosageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Age == nil || req.Weight == nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid_number", msgInvalidNumber))
		return
	}
	age, weight := float64(*req.Age), float64(*req.Weight)
	if age < 0 || weight <= 0 {
		c.JSON(http.StatusBadRequest, errorBody("invalid_number", msgInvalidNumber))
		return
	}

	medName := strings.TrimSpace(req.MedName)
	rule, ok := h.store.Snapshot().Medications.Lookup(medName)
	if !ok {
		c.JSON(http.StatusNotFound, errorBody("not_found", "找不到藥物："+medName))
		return
	}

	dose, err := h.calc.Compute(rule, weight, age)
	if err != nil {
		h.doseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dosageResponse{
		Name:            strings.TrimSpace(req.Name),
		Age:             age,
		Weight:          weight,
		MedName:         rule.Name,
		Dose:            dose.Amount,
		DoseInstruction: orNoData(rule.DoseInstruction),
		Symptoms:        orNoData(rule.Symptoms),
		SideEffects:     orNoData(rule.SideEffects),
	})
}

func (h *Handler) doseError(c *gin.Context, err error) {
	var de *dosage.DoseError
	if !errors.As(err, &de) {
		h.logger.Error("compute dose", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("internal", "計算錯誤"))
		return
	}

	var (
		inel *dosage.IneligibleError
		pe   *formula.ParseError
	)
	switch {
	case errors.As(de.Err, &inel):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       string(dosage.Ineligible),
			"message":     fmt.Sprintf("%s 僅適用於 %g 歲以上，您填寫的年齡為 %g 歲。", de.Drug, inel.MinimumAge, inel.SuppliedAge),
			"minimumAge":  inel.MinimumAge,
			"suppliedAge": inel.SuppliedAge,
		})

	case errors.As(de.Err, &pe):
		h.logger.Warn("medication formula rejected",
			zap.String("drug", de.Drug),
			zap.String("kind", string(pe.Kind)),
			zap.Int("pos", pe.Pos),
			zap.Error(pe),
		)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    string(dosage.ParseFailure),
			"message":  "計算錯誤：" + pe.Error(),
			"kind":     pe.Kind,
			"position": pe.Pos,
			"token":    pe.Token,
		})

	default:
		reason := "non_finite"
		if errors.Is(de.Err, formula.ErrDivisionByZero) {
			reason = "division_by_zero"
		}
		h.logger.Warn("medication formula failed", zap.String("drug", de.Drug), zap.Error(de.Err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   string(dosage.EvalFailure),
			"message": "計算錯誤：" + de.Err.Error(),
			"reason":  reason,
		})
	}
}
