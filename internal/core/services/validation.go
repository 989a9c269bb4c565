package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pollwise/api/internal/core/domain"
	"github.com/pollwise/api/internal/core/ports"
)

const (
	titleMinLen       = 5
	titleMaxLen       = 100
	descriptionMinLen = 10
	descriptionMaxLen = 500
	optionsMin        = 2
	optionsMax        = 10
)

// ValidatePollForm checks and normalizes a create/update payload. The
// returned form has title, description and option texts trimmed. A non-empty
// FieldErrors means the form was rejected; the form value is then undefined.
func ValidatePollForm(form ports.PollForm) (ports.PollForm, domain.FieldErrors) {
	errs := domain.FieldErrors{}

	// Bounds count characters, not bytes; multibyte input must not be
	// penalized for its encoding.
	title := strings.TrimSpace(form.Title)
	switch {
	case title == "":
		errs.Add("title", "Title cannot be empty")
	case utf8.RuneCountInString(title) < titleMinLen:
		errs.Add("title", fmt.Sprintf("Title must be at least %d characters", titleMinLen))
	case utf8.RuneCountInString(title) > titleMaxLen:
		errs.Add("title", fmt.Sprintf("Title must be less than %d characters", titleMaxLen))
	}

	description := strings.TrimSpace(form.Description)
	switch {
	case description == "":
		errs.Add("description", "Description cannot be empty")
	case utf8.RuneCountInString(description) < descriptionMinLen:
		errs.Add("description", fmt.Sprintf("Description must be at least %d characters", descriptionMinLen))
	case utf8.RuneCountInString(description) > descriptionMaxLen:
		errs.Add("description", fmt.Sprintf("Description must be less than %d characters", descriptionMaxLen))
	}

	options := make([]string, 0, len(form.Options))
	seen := make(map[string]struct{}, len(form.Options))
	duplicate := false
	empty := false
	for _, text := range form.Options {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			empty = true
			continue
		}
		if _, ok := seen[trimmed]; ok {
			duplicate = true
		}
		seen[trimmed] = struct{}{}
		options = append(options, trimmed)
	}
	// Option problems accumulate; an empty text does not mask a bad count.
	if empty {
		errs.Add("options", "Option text cannot be empty")
	}
	switch {
	case len(options) < optionsMin:
		errs.Add("options", fmt.Sprintf("At least %d options are required", optionsMin))
	case len(options) > optionsMax:
		errs.Add("options", fmt.Sprintf("At most %d options are allowed", optionsMax))
	}
	if duplicate {
		errs.Add("options", "All options must be unique")
	}

	if len(errs) > 0 {
		return ports.PollForm{}, errs
	}

	form.Title = title
	form.Description = description
	form.Options = options
	return form, nil
}

// ValidateVoteForm checks that both identifiers are canonical UUIDs.
func ValidateVoteForm(form ports.VoteForm) (pollID, optionID uuid.UUID, _ domain.FieldErrors) {
	errs := domain.FieldErrors{}

	pollID, ok := parseCanonicalUUID(form.PollID)
	if !ok {
		errs.Add("pollId", "Invalid poll ID format")
	}
	optionID, ok = parseCanonicalUUID(form.OptionID)
	if !ok {
		errs.Add("optionId", "Invalid option ID format")
	}

	if len(errs) > 0 {
		return uuid.Nil, uuid.Nil, errs
	}
	return pollID, optionID, nil
}

// ValidatePollID rejects anything that is not a canonical hyphenated UUID.
func ValidatePollID(raw string) (uuid.UUID, domain.FieldErrors) {
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, domain.RootErrors("Poll ID is required")
	}
	id, ok := parseCanonicalUUID(raw)
	if !ok {
		return uuid.Nil, domain.RootErrors("Invalid poll ID format")
	}
	return id, nil
}

// parseCanonicalUUID accepts only the 36-character hyphenated form;
// uuid.Parse alone would also admit braced and un-hyphenated variants.
func parseCanonicalUUID(raw string) (uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) != 36 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
