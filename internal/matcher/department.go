// Package matcher maps free-text symptoms to departments and diseases by
// keyword containment.
package matcher

import "strings"

// DeptRule pairs a symptom keyword with the department that treats it.
type DeptRule struct {
	Keyword    string `json:"keyword"`
	Department string `json:"department"`
}

// DeptRules is evaluated in slice order; when a symptom contains several
// keywords the earliest rule wins.
type DeptRules []DeptRule

// DefaultDeptRules returns the deployment's routing table.
func DefaultDeptRules() DeptRules {
	return DeptRules{
		{Keyword: "喉嚨痛", Department: "耳鼻喉科"},
		{Keyword: "鼻塞", Department: "耳鼻喉科"},
		{Keyword: "發燒", Department: "內科"},
		{Keyword: "拉肚子", Department: "內科"},
		{Keyword: "牙痛", Department: "牙醫一般科"},
		{Keyword: "跌倒", Department: "外科"},
		{Keyword: "感冒", Department: "內科"},
		{Keyword: "皮膚癢", Department: "皮膚科"},
		{Keyword: "月經問題", Department: "婦產科"},
		{Keyword: "中醫調理", Department: "中醫一般科"},
	}
}

// MatchDepartment returns the department of the first rule whose keyword is
// a substring of symptom. Rules with an empty keyword or department never
// match.
func MatchDepartment(symptom string, rules DeptRules) (string, bool) {
	for _, r := range rules {
		if r.Keyword == "" || r.Department == "" {
			continue
		}
		if strings.Contains(symptom, r.Keyword) {
			return r.Department, true
		}
	}
	return "", false
}

// Match is MatchDepartment over rs.
func (rs DeptRules) Match(symptom string) (string, bool) {
	return MatchDepartment(symptom, rs)
}
