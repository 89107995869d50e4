package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/alexanderramin/attend/internal/timeutil"
	"github.com/charmbracelet/huh"
)

func validateClock(s string) error {
	if _, ok := timeutil.ParseMinuteOfDay(strings.TrimSpace(s)); !ok {
		return errors.New("use HH:MM (24h)")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("must be a positive whole number")
	}
	return nil
}

// clockInput returns a huh.Input for an HH:MM field.
func clockInput(title, placeholder string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validateClock)
}

// scheduleForm collects a work window.
func scheduleForm(start, end *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			clockInput("Work starts (HH:MM)", "09:00", start),
			clockInput("Work ends (HH:MM)", "18:00", end),
		),
	).WithTheme(attendHuhTheme()).WithShowHelp(false)
}

// breakForm collects a daily break.
func breakForm(start, minutes *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			clockInput("Break starts (HH:MM)", "13:00", start),
			huh.NewInput().
				Title("Break length (minutes)").
				Placeholder("60").
				Value(minutes).
				Validate(validatePositiveInt),
		),
	).WithTheme(attendHuhTheme()).WithShowHelp(false)
}
