// Package vitals classifies a blood-pressure / heart-rate / temperature
// reading into alert labels.
package vitals

import (
	"strings"

	"github.com/jianyou-wu/medical-app/internal/numtext"
)

// Label is a discrete alert tag for one vital-sign field.
type Label string

const (
	BPHigh          Label = "BP_HIGH"
	BPLow           Label = "BP_LOW"
	BPFormatError   Label = "BP_FORMAT_ERROR"
	HRHigh          Label = "HR_HIGH"
	HRLow           Label = "HR_LOW"
	HRFormatError   Label = "HR_FORMAT_ERROR"
	TempHigh        Label = "TEMP_HIGH"
	TempLow         Label = "TEMP_LOW"
	TempFormatError Label = "TEMP_FORMAT_ERROR"
)

// Thresholds used by Classify. A value must be strictly beyond a bound to
// raise a label.
const (
	SystolicHigh  = 140
	DiastolicHigh = 90
	SystolicLow   = 90
	DiastolicLow  = 60

	HeartRateHigh = 100
	HeartRateLow  = 60

	TemperatureHigh = 37.5
	TemperatureLow  = 35.0
)

var labelMessages = map[Label]string{
	BPHigh:          "⚠️ 血壓過高",
	BPLow:           "⚠️ 血壓過低",
	BPFormatError:   "⚠️ 血壓格式錯誤（請用 120/80 格式）",
	HRHigh:          "⚠️ 心率過快",
	HRLow:           "⚠️ 心率過慢",
	HRFormatError:   "⚠️ 心率格式錯誤",
	TempHigh:        "⚠️ 體溫過高",
	TempLow:         "⚠️ 體溫過低",
	TempFormatError: "⚠️ 體溫格式錯誤",
}

// Message returns the user-facing text for the label.
func (l Label) Message() string {
	if msg, ok := labelMessages[l]; ok {
		return msg
	}
	return string(l)
}

// IsFormatError reports whether the label marks an unparseable field.
func (l Label) IsFormatError() bool {
	return l == BPFormatError || l == HRFormatError || l == TempFormatError
}

// BloodPressure is a parsed systolic/diastolic pair.
type BloodPressure struct {
	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
}

// Reading holds the per-field parse outcome of a raw vitals form. A field
// whose OK flag is false could not be parsed and its value is zero.
type Reading struct {
	BP            BloodPressure `json:"bp"`
	BPOK          bool          `json:"bpOk"`
	HeartRate     int           `json:"heartRate"`
	HeartRateOK   bool          `json:"heartRateOk"`
	TemperatureC  float64       `json:"temperatureC"`
	TemperatureOK bool          `json:"temperatureOk"`
}

// ParseReading parses the three raw form fields independently.
func ParseReading(bp, hr, temp string) Reading {
	var r Reading
	r.BP, r.BPOK = ParseBloodPressure(bp)
	r.HeartRate, r.HeartRateOK = ParseHeartRate(hr)
	r.TemperatureC, r.TemperatureOK = ParseTemperature(temp)
	return r
}

// ParseBloodPressure accepts exactly "<int>/<int>". Full-width digits and
// slash are accepted.
func ParseBloodPressure(s string) (BloodPressure, bool) {
	parts := strings.Split(numtext.Normalize(s), "/")
	if len(parts) != 2 {
		return BloodPressure{}, false
	}
	sys, err := numtext.Atoi(parts[0])
	if err != nil {
		return BloodPressure{}, false
	}
	dia, err := numtext.Atoi(parts[1])
	if err != nil {
		return BloodPressure{}, false
	}
	return BloodPressure{Systolic: sys, Diastolic: dia}, true
}

// ParseHeartRate accepts a base-10 integer.
func ParseHeartRate(s string) (int, bool) {
	hr, err := numtext.Atoi(s)
	if err != nil {
		return 0, false
	}
	return hr, true
}

// ParseTemperature accepts a finite decimal number in degrees Celsius.
func ParseTemperature(s string) (float64, bool) {
	t, err := numtext.ParseFloat(s)
	if err != nil {
		return 0, false
	}
	return t, true
}

// Classify returns the alert labels for a raw reading, ordered blood
// pressure, heart rate, temperature. Each field contributes at most one
// label; an unparseable field contributes only its format-error label.
func Classify(bp, hr, temp string) []Label {
	return ParseReading(bp, hr, temp).Labels()
}

// Labels applies the range checks to an already parsed reading.
func (r Reading) Labels() []Label {
	labels := make([]Label, 0, 3)
	if l, ok := r.bpLabel(); ok {
		labels = append(labels, l)
	}
	if l, ok := r.heartRateLabel(); ok {
		labels = append(labels, l)
	}
	if l, ok := r.temperatureLabel(); ok {
		labels = append(labels, l)
	}
	return labels
}

func (r Reading) bpLabel() (Label, bool) {
	switch {
	case !r.BPOK:
		return BPFormatError, true
	case r.BP.Systolic > SystolicHigh || r.BP.Diastolic > DiastolicHigh:
		return BPHigh, true
	case r.BP.Systolic < SystolicLow || r.BP.Diastolic < DiastolicLow:
		return BPLow, true
	}
	return "", false
}

func (r Reading) heartRateLabel() (Label, bool) {
	switch {
	case !r.HeartRateOK:
		return HRFormatError, true
	case r.HeartRate > HeartRateHigh:
		return HRHigh, true
	case r.HeartRate < HeartRateLow:
		return HRLow, true
	}
	return "", false
}

func (r Reading) temperatureLabel() (Label, bool) {
	switch {
	case !r.TemperatureOK:
		return TempFormatError, true
	case r.TemperatureC > TemperatureHigh:
		return TempHigh, true
	case r.TemperatureC < TemperatureLow:
		return TempLow, true
	}
	return "", false
}
