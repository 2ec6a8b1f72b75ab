package mode

import "testing"

func TestIsValid(t *testing.T) {
	tests := []struct {
		mode Mode
		want bool
	}{
		{General, true},
		{IncidentNumber, true},
		{MMROnly, true},
		{Mode("semantic"), false},
		{Mode(""), false},
	}

	for _, tt := range tests {
		if got := tt.mode.IsValid(); got != tt.want {
			t.Errorf("Mode(%q).IsValid() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		want   Mode
		wantOK bool
	}{
		{"", General, true},
		{"general", General, true},
		{"incident_number", IncidentNumber, true},
		{"mmr_only", MMROnly, true},
		{"INCIDENT_NUMBER", Mode("INCIDENT_NUMBER"), false},
		{"hybrid", Mode("hybrid"), false},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Parse(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
