// Package clinic filters the clinic directory by area and department.
package clinic

import "strings"

// Clinic is one row of the clinic directory.
type Clinic struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Departments string `json:"departments"`
	Area        string `json:"area"`
}

// Directory is an immutable list of clinics.
type Directory struct {
	clinics []Clinic
}

// NewDirectory cleans each row and returns the directory. Department cells
// in the source export carry stray quotes and trailing commas.
func NewDirectory(rows []Clinic) *Directory {
	d := &Directory{clinics: make([]Clinic, len(rows))}
	for i, c := range rows {
		c.Departments = CleanDepartments(c.Departments)
		c.Area = strings.TrimSpace(c.Area)
		d.clinics[i] = c
	}
	return d
}

// CleanDepartments strips quotes, then surrounding commas, then spaces.
func CleanDepartments(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.Trim(s, ",")
	return strings.TrimSpace(s)
}

// Find returns clinics whose area contains area and whose departments contain
// department, in directory order. Both are plain substring tests; an empty
// area matches every clinic.
func (d *Directory) Find(area, department string) []Clinic {
	out := make([]Clinic, 0)
	if d == nil {
		return out
	}
	area = strings.TrimSpace(area)
	for _, c := range d.clinics {
		if strings.Contains(c.Area, area) && strings.Contains(c.Departments, department) {
			out = append(out, c)
		}
	}
	return out
}

// Len reports the number of clinics.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.clinics)
}
