package application

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Field keys used in ValidationError.FieldErrors.
const (
	FieldDate           = "date"
	FieldOrganization   = "organization_id"
	FieldStatus         = "status"
	FieldDuration       = "duration_minutes"
	FieldSummary        = "summary"
	FieldIdentity       = "identity"
	FieldDisplayName    = "display_name"
	FieldRole           = "role"
	MinSummaryLength    = 5
	MinDisplayNameRunes = 2
	maxDisplayNameRunes = 128
)

const (
	msgDuration       = "Длительность должна быть целым неотрицательным числом минут."
	msgDurationStatus = "Длительность указывается только для состоявшихся встреч."
	msgDurationNeeded = "Для состоявшейся встречи нужно указать длительность."
	msgSummary        = "Описание слишком короткое. Минимум 5 символов."
	msgIdentity       = "ID должен состоять только из цифр."
	msgDisplayName    = "Имя должно содержать минимум 2 символа."
	msgDisplayLong    = "Имя слишком длинное."
	msgStatus         = "Неизвестный статус."
	msgDate           = "Дата не выбрана."
	msgOrganization   = "Организация не выбрана."
	msgRole           = "Неизвестная роль."
)

// NormalizeText trims surrounding whitespace and composes the text to NFC so
// visually identical input compares and counts the same way.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseDuration accepts a non-negative whole number of minutes.
func ParseDuration(text string) (int, error) {
	text = strings.TrimSpace(text)
	if !allDigits(text) {
		return 0, fieldError(FieldDuration, msgDuration)
	}
	minutes, err := strconv.Atoi(text)
	if err != nil {
		return 0, fieldError(FieldDuration, msgDuration)
	}
	return minutes, nil
}

// ValidateSummary normalizes a summary and checks its minimum length.
func ValidateSummary(text string) (string, error) {
	summary := NormalizeText(text)
	if utf8.RuneCountInString(summary) < MinSummaryLength {
		return "", fieldError(FieldSummary, msgSummary)
	}
	return summary, nil
}

// ParseIdentity accepts a Telegram user id typed as digits.
func ParseIdentity(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if !allDigits(text) {
		return 0, fieldError(FieldIdentity, msgIdentity)
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id == 0 {
		return 0, fieldError(FieldIdentity, msgIdentity)
	}
	return id, nil
}

// ValidateDisplayName normalizes a user name and checks its length.
func ValidateDisplayName(text string) (string, error) {
	name := NormalizeText(text)
	n := utf8.RuneCountInString(name)
	if n < MinDisplayNameRunes {
		return "", fieldError(FieldDisplayName, msgDisplayName)
	}
	if n > maxDisplayNameRunes {
		return "", fieldError(FieldDisplayName, msgDisplayLong)
	}
	return name, nil
}

// ValidateMeetingInput checks a complete meeting, including that a duration is
// present exactly when the status is held.
func ValidateMeetingInput(input MeetingInput) *ValidationError {
	vErr := &ValidationError{}

	if input.OrganizationID <= 0 {
		vErr.add(FieldOrganization, msgOrganization)
	}
	if input.Date.IsZero() {
		vErr.add(FieldDate, msgDate)
	}
	if !input.Status.Valid() {
		vErr.add(FieldStatus, msgStatus)
	}
	switch {
	case input.DurationMinutes != nil && *input.DurationMinutes < 0:
		vErr.add(FieldDuration, msgDuration)
	case input.Status.RequiresDuration() && input.DurationMinutes == nil:
		vErr.add(FieldDuration, msgDurationNeeded)
	case !input.Status.RequiresDuration() && input.DurationMinutes != nil:
		vErr.add(FieldDuration, msgDurationStatus)
	}
	if _, err := ValidateSummary(input.Summary); err != nil {
		vErr.add(FieldSummary, msgSummary)
	}
	if input.CreatorID == 0 {
		vErr.add(FieldIdentity, msgIdentity)
	}

	return vErr
}

func validateUserInput(input UserInput) (UserInput, *ValidationError) {
	vErr := &ValidationError{}

	if input.Identity <= 0 {
		vErr.add(FieldIdentity, msgIdentity)
	}
	name, err := ValidateDisplayName(input.DisplayName)
	if err != nil {
		vErr.add(FieldDisplayName, err.(*ValidationError).Message(FieldDisplayName))
	}
	if input.Role == "" {
		input.Role = RoleOperator
	}
	if !input.Role.Valid() {
		vErr.add(FieldRole, msgRole)
	}

	input.DisplayName = name
	return input, vErr
}

// DateOnly drops the clock part of t, keeping its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
