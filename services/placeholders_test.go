package services

import "testing"

func TestCanonicalName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"RUJUKAN_KAMI", "RUJUKAN"},
		{"rujukan_kami", "RUJUKAN"},
		{"<<RUJUKAN_KAMI>>", "RUJUKAN"},
		{"TARIKH_MALAY", "TARIKH2"},
		{"BUSINESS_NAME", "NAMA_SYARIKAT"},
		{"BUSINESS_ADDRESS", "ALAMAT"},
		{"NAMA_SYARIKAT", "NAMA_SYARIKAT"},
		{"CUSTOM_FIELD", "CUSTOM_FIELD"},
	}
	for _, c := range cases {
		if got := CanonicalName(c.in); got != c.want {
			t.Errorf("CanonicalName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizePlaceholder(t *testing.T) {
	if got := NormalizePlaceholder("rujukan_kami"); got != "<<RUJUKAN>>" {
		t.Errorf("got %q", got)
	}
	if got := NormalizePlaceholder("<<TARIKH>>"); got != "<<TARIKH>>" {
		t.Errorf("got %q", got)
	}
}

func TestIsStandardPlaceholder(t *testing.T) {
	if !IsStandardPlaceholder("RUJUKAN") {
		t.Error("RUJUKAN should be standard")
	}
	if !IsStandardPlaceholder("RUJUKAN_KAMI") {
		t.Error("alias spellings should count as standard")
	}
	if IsStandardPlaceholder("NOT_A_PLACEHOLDER") {
		t.Error("unknown name reported standard")
	}
}

func TestExpandAliases(t *testing.T) {
	values := map[string]string{
		"RUJUKAN":       "KE.JB(90)650/05-02/001",
		"NAMA_SYARIKAT": "SYARIKAT A",
		"RUJUKAN_KAMI":  "override",
	}

	expanded := ExpandAliases(values)

	// The canonical value wins over an alias the caller also set
	if expanded["RUJUKAN"] != "KE.JB(90)650/05-02/001" {
		t.Errorf("RUJUKAN = %q", expanded["RUJUKAN"])
	}
	// Alias spellings are filled in from the canonical value
	if expanded["RUJUKAN_KAMI"] != "override" {
		t.Errorf("explicit alias value overwritten: %q", expanded["RUJUKAN_KAMI"])
	}
	if expanded["BUSINESS_NAME"] != "SYARIKAT A" {
		t.Errorf("BUSINESS_NAME = %q", expanded["BUSINESS_NAME"])
	}
	// Input map untouched
	if _, ok := values["BUSINESS_NAME"]; ok {
		t.Error("input map was modified")
	}
}

func TestStandardPlaceholdersSorted(t *testing.T) {
	names := StandardPlaceholders()
	if len(names) == 0 {
		t.Fatal("no standard placeholders")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("not sorted at %d: %q >= %q", i, names[i-1], names[i])
		}
	}
}
