package merge

import "testing"

func TestExcluder(t *testing.T) {
	x, err := newExcluder([]string{"*.tmp", "Thumbs.db", "", ".*"})
	if err != nil {
		t.Fatalf("newExcluder() error = %v", err)
	}

	tests := []struct {
		name string
		want bool
	}{
		{"upload.tmp", true},
		{"Thumbs.db", true},
		{".DS_Store", true},
		{"IMG_20230115_143000.jpg", false},
		{"thumbs.db", false},
	}

	for _, tt := range tests {
		if got := x.excluded(tt.name); got != tt.want {
			t.Errorf("excluded(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	t.Run("Invalid", func(t *testing.T) {
		if _, err := newExcluder([]string{"[a-"}); err == nil {
			t.Error("newExcluder() should reject malformed patterns")
		}
	})

	t.Run("None", func(t *testing.T) {
		x, _ := newExcluder(nil)
		if x.excluded("anything") {
			t.Error("empty excluder should not exclude")
		}
	})
}
