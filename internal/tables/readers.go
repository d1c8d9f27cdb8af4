package tables

import (
	"fmt"
	"io"

	"github.com/jianyou-wu/medical-app/internal/clinic"
	"github.com/jianyou-wu/medical-app/internal/dosage"
	"github.com/jianyou-wu/medical-app/internal/matcher"
	"github.com/jianyou-wu/medical-app/internal/patient"
)

// Medication table headers.
const (
	ColDrugName        = "藥物名稱"
	ColAgeEligibility  = "適用年齡"
	ColFormula         = "運算公式"
	ColDoseInstruction = "劑量說明"
	ColSymptoms        = "適用症狀"
	ColSideEffects     = "常見副作用"
)

// Disease table headers.
const (
	ColDiseaseSymptoms = "症狀"
	ColDiseaseName     = "疾病"
	ColDiseaseAdvice   = "治療建議"
)

// Department rule headers.
const (
	ColKeyword    = "關鍵字"
	ColDepartment = "科別"
)

// Clinic table headers.
const (
	ColClinicName  = "機構名稱"
	ColClinicPhone = "電話"
	ColClinicAddr  = "地址"
	ColClinicDept  = "科別"
	ColClinicArea  = "縣市區名"
)

// Patient table headers.
const (
	ColPatientName = "姓名"
	ColPatientID   = "身分證"
)

// ReadMedications parses a medication CSV. Rows without a drug name are
// skipped.
func ReadMedications(r io.Reader) ([]dosage.Rule, error) {
	s, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("medications: %w", err)
	}
	return medicationsFromSheet(s)
}

func medicationsFromSheet(s *sheet) ([]dosage.Rule, error) {
	if err := s.require(ColDrugName, ColFormula); err != nil {
		return nil, fmt.Errorf("medications: %w", err)
	}
	rules := make([]dosage.Rule, 0, len(s.rows))
	for _, row := range s.rows {
		name := s.get(row, ColDrugName)
		if name == "" {
			continue
		}
		rules = append(rules, dosage.Rule{
			Name:            name,
			AgeEligibility:  s.get(row, ColAgeEligibility),
			Formula:         s.get(row, ColFormula),
			DoseInstruction: s.get(row, ColDoseInstruction),
			Symptoms:        s.get(row, ColSymptoms),
			SideEffects:     s.get(row, ColSideEffects),
		})
	}
	return rules, nil
}

// ReadDiseases parses the chatbot knowledge table. Rows with no symptom text
// can never match and are skipped.
func ReadDiseases(r io.Reader) ([]matcher.DiseaseRecord, error) {
	s, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("diseases: %w", err)
	}
	if err := s.require(ColDiseaseSymptoms, ColDiseaseName, ColDiseaseAdvice); err != nil {
		return nil, fmt.Errorf("diseases: %w", err)
	}
	records := make([]matcher.DiseaseRecord, 0, len(s.rows))
	for _, row := range s.rows {
		sym := s.get(row, ColDiseaseSymptoms)
		if sym == "" {
			continue
		}
		records = append(records, matcher.DiseaseRecord{
			Name:        s.get(row, ColDiseaseName),
			SymptomText: sym,
			Advice:      s.get(row, ColDiseaseAdvice),
		})
	}
	return records, nil
}

// ReadDeptRules parses an ordered keyword→department table. Row order is
// preserved because it decides which rule wins. Rows missing either the
// keyword or the department are skipped.
func ReadDeptRules(r io.Reader) (matcher.DeptRules, error) {
	s, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("department rules: %w", err)
	}
	if err := s.require(ColKeyword, ColDepartment); err != nil {
		return nil, fmt.Errorf("department rules: %w", err)
	}
	rules := make(matcher.DeptRules, 0, len(s.rows))
	for _, row := range s.rows {
		kw, dept := s.get(row, ColKeyword), s.get(row, ColDepartment)
		if kw == "" || dept == "" {
			continue
		}
		rules = append(rules, matcher.DeptRule{Keyword: kw, Department: dept})
	}
	return rules, nil
}

// ReadClinics parses the clinic directory export.
func ReadClinics(r io.Reader) ([]clinic.Clinic, error) {
	s, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("clinics: %w", err)
	}
	if err := s.require(ColClinicName, ColClinicDept, ColClinicArea); err != nil {
		return nil, fmt.Errorf("clinics: %w", err)
	}
	out := make([]clinic.Clinic, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, clinic.Clinic{
			Name:        s.get(row, ColClinicName),
			Phone:       s.get(row, ColClinicPhone),
			Address:     s.get(row, ColClinicAddr),
			Departments: s.get(row, ColClinicDept),
			Area:        s.get(row, ColClinicArea),
		})
	}
	return out, nil
}

// ReadPatients parses the simulated medical-record table. Every column is
// kept so the lookup page can show the full record.
func ReadPatients(r io.Reader) ([]patient.Record, error) {
	s, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("patients: %w", err)
	}
	if err := s.require(ColPatientName, ColPatientID); err != nil {
		return nil, fmt.Errorf("patients: %w", err)
	}
	cols := s.columns()
	out := make([]patient.Record, 0, len(s.rows))
	for _, row := range s.rows {
		fields := make(map[string]string, len(cols))
		for _, c := range cols {
			fields[c] = s.get(row, c)
		}
		out = append(out, patient.Record{
			Name:       fields[ColPatientName],
			NationalID: fields[ColPatientID],
			Columns:    cols,
			Fields:     fields,
		})
	}
	return out, nil
}
