package matcher

import "strings"

// DefaultSeparator splits the chatbot input into keywords.
const DefaultSeparator = "、"

// DiseaseRecord is one row of the symptom knowledge table. SymptomText is
// free text and is searched, not tokenised.
type DiseaseRecord struct {
	Name        string `json:"name"`
	SymptomText string `json:"symptoms"`
	Advice      string `json:"advice"`
}

// DiseaseMatcher splits input on Separator and returns every record whose
// symptom text contains at least one keyword. A record is returned at most
// once, in table order, however many keywords it matches.
type DiseaseMatcher struct {
	Separator string
}

// Keywords splits input into non-empty, trimmed tokens.
func (m DiseaseMatcher) Keywords(input string) []string {
	sep := m.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	parts := strings.Split(input, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Match returns the matching records, or an empty slice.
func (m DiseaseMatcher) Match(input string, records []DiseaseRecord) []DiseaseRecord {
	keywords := m.Keywords(input)
	matched := make([]DiseaseRecord, 0)
	if len(keywords) == 0 {
		return matched
	}
	for _, rec := range records {
		for _, kw := range keywords {
			if strings.Contains(rec.SymptomText, kw) {
				matched = append(matched, rec)
				break
			}
		}
	}
	return matched
}

// MatchDiseases matches with the default separator.
func MatchDiseases(input string, records []DiseaseRecord) []DiseaseRecord {
	return DiseaseMatcher{}.Match(input, records)
}
