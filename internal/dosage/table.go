package dosage

import "strings"

// Table is an immutable, ordered set of medication rules.
type Table struct {
	rules []Rule
	index map[string]int
}

// NewTable builds a table from rows. Names are trimmed, rows without a name
// are dropped and the first row wins when a name repeats.
func NewTable(rows []Rule) *Table {
	t := &Table{
		rules: make([]Rule, 0, len(rows)),
		index: make(map[string]int, len(rows)),
	}
	for _, r := range rows {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			continue
		}
		if _, dup := t.index[r.Name]; dup {
			continue
		}
		t.index[r.Name] = len(t.rules)
		t.rules = append(t.rules, r)
	}
	return t
}

// Lookup finds a rule by its trimmed name.
func (t *Table) Lookup(name string) (Rule, bool) {
	if t == nil {
		return Rule{}, false
	}
	i, ok := t.index[strings.TrimSpace(name)]
	if !ok {
		return Rule{}, false
	}
	return t.rules[i], true
}

// Names lists drug names in table order.
func (t *Table) Names() []string {
	if t == nil {
		return []string{}
	}
	names := make([]string, len(t.rules))
	for i, r := range t.rules {
		names[i] = r.Name
	}
	return names
}

// Len reports the number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}
