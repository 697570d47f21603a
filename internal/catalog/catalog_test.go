package catalog

import "testing"

func TestByGrade(t *testing.T) {
	tests := []struct {
		grade string
		count int
	}{
		{"K", 3},
		{"1st", 3},
		{"2nd", 3},
		{"12th", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run("grade "+tt.grade, func(t *testing.T) {
			entries := ByGrade(tt.grade)
			if len(entries) != tt.count {
				t.Errorf("ByGrade(%q) returned %d entries, want %d", tt.grade, len(entries), tt.count)
			}
			for _, entry := range entries {
				if entry.Grade != tt.grade {
					t.Errorf("ByGrade(%q) returned entry with grade %q", tt.grade, entry.Grade)
				}
			}
		})
	}
}

func TestFind(t *testing.T) {
	entry, ok := Find("K", 1)
	if !ok {
		t.Fatal("Find(K, 1) not found")
	}
	if entry.Title == "" || entry.PlayURL == "" {
		t.Errorf("Find(K, 1) = %+v, missing fields", entry)
	}

	if _, ok := Find("K", 999); ok {
		t.Error("Find(K, 999) found, want missing")
	}
	if _, ok := Find("nope", 1); ok {
		t.Error("Find(nope, 1) found, want missing")
	}
}

func TestIDsUniquePerGrade(t *testing.T) {
	seen := map[string]map[int64]bool{}
	for _, entry := range All() {
		if seen[entry.Grade] == nil {
			seen[entry.Grade] = map[int64]bool{}
		}
		if seen[entry.Grade][entry.ID] {
			t.Errorf("duplicate id %d in grade %s", entry.ID, entry.Grade)
		}
		seen[entry.Grade][entry.ID] = true
	}
}

func TestAllReturnsCopy(t *testing.T) {
	first := All()
	first[0].Title = "mutated"

	if All()[0].Title == "mutated" {
		t.Error("All() exposes the underlying catalog slice")
	}
}
