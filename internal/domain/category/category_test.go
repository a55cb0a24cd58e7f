package category

import "testing"

func TestIsValid(t *testing.T) {
	valid := []Category{Code, ResearchPaper, BusinessDocument, General}
	for _, c := range valid {
		if !c.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", c)
		}
	}

	invalid := []Category{"", "CODE", "paper", "report"}
	for _, c := range invalid {
		if c.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", c)
		}
	}
}

func TestPriorityOrder(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Priority() >= all[i].Priority() {
			t.Errorf("priority not strictly increasing at %q -> %q", all[i-1], all[i])
		}
	}
	if Code.Priority() != 0 {
		t.Errorf("Code.Priority() = %d, want 0", Code.Priority())
	}
}
