package application

import (
	"errors"
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	valid := map[string]int{"0": 0, "45": 45, " 90 ": 90}
	for input, want := range valid {
		got, err := ParseDuration(input)
		if err != nil {
			t.Fatalf("ParseDuration(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseDuration(%q) = %d, want %d", input, got, want)
		}
	}

	for _, input := range []string{"12a", "-5", "", "1.5", "+3", "99999999999999999999"} {
		_, err := ParseDuration(input)
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Message(FieldDuration) == "" {
			t.Fatalf("ParseDuration(%q): expected duration validation error, got %v", input, err)
		}
	}
}

func TestValidateSummary(t *testing.T) {
	t.Parallel()

	if _, err := ValidateSummary("hi"); err == nil {
		t.Fatalf("expected short summary to be rejected")
	}
	if _, err := ValidateSummary("   abcd   "); err == nil {
		t.Fatalf("expected padding not to count toward the minimum")
	}
	got, err := ValidateSummary("  hello!  ")
	if err != nil {
		t.Fatalf("expected summary to be accepted, got %v", err)
	}
	if got != "hello!" {
		t.Fatalf("expected trimmed summary, got %q", got)
	}
	if got, err := ValidateSummary("\u0438\u0306тест"); err != nil || got != "йтест" {
		t.Fatalf("expected composed summary, got %q (%v)", got, err)
	}
	if _, err := ValidateSummary("\u0438\u0306абв"); err == nil {
		t.Fatalf("expected combining marks not to count as separate characters")
	}
}

func TestParseIdentity(t *testing.T) {
	t.Parallel()

	id, err := ParseIdentity(" 123456789 ")
	if err != nil || id != 123456789 {
		t.Fatalf("expected identity 123456789, got %d (%v)", id, err)
	}
	for _, input := range []string{"abc", "12 34", "-1", "0", ""} {
		if _, err := ParseIdentity(input); err == nil {
			t.Fatalf("ParseIdentity(%q): expected error", input)
		}
	}
}

func TestValidateDisplayName(t *testing.T) {
	t.Parallel()

	if _, err := ValidateDisplayName(" A "); err == nil {
		t.Fatalf("expected one letter name to be rejected")
	}
	if got, err := ValidateDisplayName(" Ян "); err != nil || got != "Ян" {
		t.Fatalf("expected two letter name to be accepted, got %q (%v)", got, err)
	}
}

func TestValidateMeetingInput(t *testing.T) {
	t.Parallel()

	minutes := 30
	base := MeetingInput{
		CreatorID:       1,
		OrganizationID:  2,
		Date:            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:          StatusHeld,
		DurationMinutes: &minutes,
		Summary:         "agenda agreed",
	}
	if vErr := ValidateMeetingInput(base); vErr.HasErrors() {
		t.Fatalf("expected valid input, got %v", vErr.FieldErrors)
	}

	t.Run("held requires duration", func(t *testing.T) {
		input := base
		input.DurationMinutes = nil
		if vErr := ValidateMeetingInput(input); vErr.Message(FieldDuration) == "" {
			t.Fatalf("expected duration error")
		}
	})

	t.Run("other statuses forbid duration", func(t *testing.T) {
		input := base
		input.Status = StatusPlanned
		if vErr := ValidateMeetingInput(input); vErr.Message(FieldDuration) == "" {
			t.Fatalf("expected duration error")
		}
	})

	t.Run("reports every missing field", func(t *testing.T) {
		vErr := ValidateMeetingInput(MeetingInput{Status: "unknown"})
		for _, field := range []string{FieldOrganization, FieldDate, FieldStatus, FieldSummary, FieldIdentity} {
			if vErr.Message(field) == "" {
				t.Fatalf("expected error for %s, got %v", field, vErr.FieldErrors)
			}
		}
	})
}
