package casename

import "testing"

func TestCleanName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "signal word",
			raw:  "See Davison v. State",
			want: "Davison v. State",
		},
		{
			name: "stacked signals",
			raw:  "See, e.g., State v. Gregory",
			want: "State v. Gregory",
		},
		{
			name: "trailing citation fragment",
			raw:  "Davison v. State, 196 Wn.2d",
			want: "Davison v. State",
		},
		{
			name: "trailing volume only",
			raw:  "State v. Gregory, 192",
			want: "State v. Gregory",
		},
		{
			name: "trailing parenthetical year",
			raw:  "State v. Gregory (2018)",
			want: "State v. Gregory",
		},
		{
			name: "already clean",
			raw:  "In re Marriage of Littlefield",
			want: "In re Marriage of Littlefield",
		},
		{
			name: "federal fragment",
			raw:  "United States v. Lopez, 514 U.S.",
			want: "United States v. Lopez",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanName(tt.raw); got != tt.want {
				t.Errorf("cleanName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"valid plain", "Davison v. State", true},
		{"valid in re", "In re Marriage of Littlefield", true},
		{"valid ex parte", "Ex parte Young", true},
		{"too short", "A v.", false},
		{"too long", "X v. " + string(make([]byte, 160)), false},
		{"no marker", "The Legislature Acted Promptly", false},
		{"lowercase first word", "agit Indian Tribe v. State", false},
		{"procedural contamination", "review granted and certification accepted v. State", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateName(tt.candidate, 5, 150); got != tt.want {
				t.Errorf("validateName(%q) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"parenthetical", "195 Wn.2d 742, 466 P.3d 213 (2020).", "2020"},
		{"court prefix", "950 F.3d 1101 (9th Cir. 2020).", "2020"},
		{"bare year", "195 Wn.2d 742, decided 2020, held that", "2020"},
		{"out of range rejected", "described at page 1776 with no year", ""},
		{"paren preferred over earlier bare", "since 1999 courts agree, 195 Wn.2d 742 (2020)", "2020"},
		{"none", "195 Wn.2d 742 at page 12", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractYear(tt.doc, 0, 300); got != tt.want {
				t.Errorf("extractYear = %q, want %q", got, tt.want)
			}
		})
	}
}
