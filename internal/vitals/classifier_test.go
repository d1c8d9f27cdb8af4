package vitals

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		bp   string
		hr   string
		temp string
		want []Label
	}{
		{"normal", "120/80", "72", "36.5", []Label{}},
		{"high systolic", "150/80", "72", "36.5", []Label{BPHigh}},
		{"high diastolic", "120/95", "72", "36.5", []Label{BPHigh}},
		{"low systolic", "85/70", "72", "36.5", []Label{BPLow}},
		{"low diastolic", "110/55", "72", "36.5", []Label{BPLow}},
		{"high wins over low", "150/50", "72", "36.5", []Label{BPHigh}},
		{"boundaries are normal", "140/90", "100", "37.5", []Label{}},
		{"lower boundaries are normal", "90/60", "60", "35", []Label{}},
		{"tachycardia", "120/80", "101", "36.5", []Label{HRHigh}},
		{"bradycardia", "120/80", "59", "36.5", []Label{HRLow}},
		{"fever", "120/80", "72", "37.6", []Label{TempHigh}},
		{"hypothermia", "120/80", "72", "34.9", []Label{TempLow}},
		{"all abnormal in field order", "160/100", "120", "39", []Label{BPHigh, HRHigh, TempHigh}},
		{"all malformed", "abc", "fast", "warm", []Label{BPFormatError, HRFormatError, TempFormatError}},
		{"whitespace tolerated", " 120 / 80 ", " 72 ", " 36.5 ", []Label{}},
		{"decimal heart rate is malformed", "120/80", "72.5", "36.5", []Label{HRFormatError}},
		{"nan temperature is malformed", "120/80", "72", "NaN", []Label{TempFormatError}},
		{"hex temperature is malformed", "120/80", "72", "0x24p0", []Label{TempFormatError}},
		{"full-width digits", "１５０/９５", "９０", "３６．５", []Label{BPHigh}},
		{"full-width slash", "１５０／９５", "72", "36.5", []Label{BPHigh}},
		{"full-width fever", "120/80", "72", "３８", []Label{TempHigh}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.bp, tt.hr, tt.temp)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_BPFormatErrorIsExclusive(t *testing.T) {
	malformed := []string{"", "120", "120/", "/80", "120/80/70", "120-80", "a/b", "120.5/80", "0x78/80"}
	for _, bp := range malformed {
		t.Run(fmt.Sprintf("%q", bp), func(t *testing.T) {
			got := Classify(bp, "72", "36.5")
			require.Equal(t, []Label{BPFormatError}, got)

			// other fields still classify independently
			got = Classify(bp, "130", "39")
			require.Equal(t, []Label{BPFormatError, HRHigh, TempHigh}, got)
		})
	}
}

func TestClassify_HighSystolicRange(t *testing.T) {
	for sys := 141; sys <= 300; sys += 7 {
		got := Classify(fmt.Sprintf("%d/80", sys), "72", "36.5")
		require.Equal(t, []Label{BPHigh}, got, "systolic %d", sys)
	}
}

func TestClassify_LowRange(t *testing.T) {
	for sys := 0; sys < 90; sys += 11 {
		got := Classify(fmt.Sprintf("%d/70", sys), "72", "36.5")
		require.Equal(t, []Label{BPLow}, got, "systolic %d", sys)
	}
	for dia := 0; dia < 60; dia += 7 {
		got := Classify(fmt.Sprintf("120/%d", dia), "72", "36.5")
		require.Equal(t, []Label{BPLow}, got, "diastolic %d", dia)
	}
}

func TestClassify_AtMostOneLabelPerField(t *testing.T) {
	inputs := [][3]string{
		{"200/40", "300", "45"},
		{"0/0", "0", "0"},
		{"x", "y", "z"},
	}
	for _, in := range inputs {
		labels := Classify(in[0], in[1], in[2])
		require.Len(t, labels, 3)
		assert.Contains(t, []Label{BPHigh, BPLow, BPFormatError}, labels[0])
		assert.Contains(t, []Label{HRHigh, HRLow, HRFormatError}, labels[1])
		assert.Contains(t, []Label{TempHigh, TempLow, TempFormatError}, labels[2])
	}
}

func TestParseReading(t *testing.T) {
	r := ParseReading("118/76", "bad", "36.8")
	assert.True(t, r.BPOK)
	assert.Equal(t, BloodPressure{Systolic: 118, Diastolic: 76}, r.BP)
	assert.False(t, r.HeartRateOK)
	assert.True(t, r.TemperatureOK)
	assert.InDelta(t, 36.8, r.TemperatureC, 1e-9)
	assert.Equal(t, []Label{HRFormatError}, r.Labels())
}

func TestLabelMessage(t *testing.T) {
	assert.Equal(t, "⚠️ 血壓過高", BPHigh.Message())
	assert.Equal(t, "⚠️ 體溫格式錯誤", TempFormatError.Message())
	assert.Equal(t, "UNKNOWN", Label("UNKNOWN").Message())
	assert.True(t, HRFormatError.IsFormatError())
	assert.False(t, HRHigh.IsFormatError())
}
