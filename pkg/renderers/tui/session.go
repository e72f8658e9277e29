// Package tui drives the user form from a terminal. A Session walks the
// field registry with prompts, feeding every answer through the form state
// machine, and submits through the coordinator.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/store/httpstore"
	"github.com/goliatone/go-userform/pkg/submission"
)

const saveFailedMessage = "Error saving user data."

// Session runs interactive form sessions against a coordinator.
type Session struct {
	driver      PromptDriver
	coordinator *submission.Coordinator
	theme       Theme
	logger      *slog.Logger
}

// New constructs a session. The survey driver is used unless overridden.
func New(coordinator *submission.Coordinator, options ...Option) (*Session, error) {
	if coordinator == nil {
		return nil, errors.New("tui: coordinator is required")
	}
	s := &Session{
		coordinator: coordinator,
		theme:       DefaultTheme,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s, nil
}

// Run prompts for every field of state in registry order and submits. Fields
// keep prompting until their answer is accepted and valid. When the store
// rejects the submission the user is asked whether to retry; declining
// returns the persistence error.
func (s *Session) Run(ctx context.Context, state *form.State) (model.User, error) {
	if ctx == nil {
		return model.User{}, errors.New("tui: context is required")
	}
	if state == nil {
		return model.User{}, errors.New("tui: form state is required")
	}

	fields := state.Registry().Fields()
	for _, field := range fields {
		if err := s.promptField(ctx, state, field); err != nil {
			return model.User{}, err
		}
	}

	for {
		mode := state.Mode()
		user, err := s.coordinator.Submit(ctx, state)
		if err == nil {
			if infoErr := s.info(ctx, successMessage(mode)); infoErr != nil {
				return user, infoErr
			}
			return user, nil
		}

		var invalid *submission.ValidationError
		switch {
		case errors.As(err, &invalid):
			for _, field := range fields {
				if invalid.Errors[field.Name] == "" {
					continue
				}
				if err := s.promptField(ctx, state, field); err != nil {
					return model.User{}, err
				}
			}
		case errors.Is(err, submission.ErrPersistence):
			s.logger.Warn("tui submission failed", "error", err)
			if err := s.reportPersistence(ctx, state, err); err != nil {
				return model.User{}, err
			}
			retry, confirmErr := s.driver.Confirm(ctx, ConfirmConfig{Message: "Retry saving?", Default: true})
			if confirmErr != nil {
				return model.User{}, confirmErr
			}
			if !retry {
				return model.User{}, err
			}
		default:
			return model.User{}, err
		}
	}
}

func (s *Session) promptField(ctx context.Context, state *form.State, field model.FieldDescriptor) error {
	for {
		answer, err := s.driver.Input(ctx, InputConfig{
			Message: promptLabel(field),
			Default: state.Text(field.Name),
			Help:    field.Placeholder(),
		})
		if err != nil {
			return err
		}

		if field.Kind == model.KindDate {
			picked, ok := parseDateAnswer(answer)
			if !ok {
				if err := s.fail(ctx, "Enter a date as YYYY-MM-DD (e.g. 1990-05-01)"); err != nil {
					return err
				}
				continue
			}
			state.OnDateChange(field.Name, picked)
		} else if !state.OnChange(field.Name, answer) {
			if err := s.fail(ctx, rejectedMessage(field)); err != nil {
				return err
			}
			continue
		}

		state.OnBlur(field.Name)
		if msg := state.VisibleError(field.Name); msg != "" {
			if err := s.fail(ctx, msg); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

func (s *Session) reportPersistence(ctx context.Context, state *form.State, err error) error {
	if failErr := s.fail(ctx, saveFailedMessage); failErr != nil {
		return failErr
	}
	var status *httpstore.StatusError
	if !errors.As(err, &status) {
		return nil
	}
	mapping := render.MapErrorPayload(state.Registry(), status.Fields)
	for _, field := range state.Registry().Fields() {
		for _, msg := range mapping.Fields[field.Name] {
			if failErr := s.fail(ctx, field.Label+": "+msg); failErr != nil {
				return failErr
			}
		}
	}
	for _, msg := range render.MergeFormErrors(mapping.Form, status.Form...) {
		if failErr := s.fail(ctx, msg); failErr != nil {
			return failErr
		}
	}
	return nil
}

// PickUser asks the user to choose one of users.
func (s *Session) PickUser(ctx context.Context, reg *model.Registry, users []model.User) (model.User, error) {
	if len(users) == 0 {
		return model.User{}, errors.New("tui: no users to choose from")
	}
	options := make([]string, 0, len(users))
	for _, user := range users {
		options = append(options, describeUser(reg, user))
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Choose a user", Options: options, PageSize: 10})
	if err != nil {
		return model.User{}, err
	}
	if idx < 0 || idx >= len(users) {
		return model.User{}, fmt.Errorf("tui: selection %d out of range", idx)
	}
	return users[idx], nil
}

// ConfirmDelete asks before a user is deleted. It defaults to no.
func (s *Session) ConfirmDelete(ctx context.Context, reg *model.Registry, user model.User) (bool, error) {
	return s.driver.Confirm(ctx, ConfirmConfig{
		Message: "Delete " + describeUser(reg, user) + "?",
		Help:    "This cannot be undone.",
	})
}

func (s *Session) info(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, s.theme.InfoPrefix+msg)
}

func (s *Session) fail(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, s.theme.ErrorPrefix+msg)
}

func promptLabel(field model.FieldDescriptor) string {
	if field.Required {
		return field.Label + " *"
	}
	return field.Label
}

func rejectedMessage(field model.FieldDescriptor) string {
	if field.Kind == model.KindTel && field.MaxDigits > 0 {
		return field.Label + " accepts at most " + strconv.Itoa(field.MaxDigits) + " digits"
	}
	return field.Label + " cannot take that value"
}

// parseDateAnswer reads a typed date. A blank answer clears the field.
func parseDateAnswer(answer string) (time.Time, bool) {
	picked, err := model.ParseDate(answer)
	return picked, err == nil
}

func successMessage(mode model.Mode) string {
	if mode == model.ModeEdit {
		return "User updated successfully!"
	}
	return "User registered successfully!"
}

func describeUser(reg *model.Registry, user model.User) string {
	parts := make([]string, 0, 3)
	for _, name := range reg.Names() {
		if value := user.Get(name); value != "" {
			parts = append(parts, value)
		}
		if len(parts) == 2 {
			break
		}
	}
	label := "#" + user.ID.String()
	if len(parts) == 0 {
		return label
	}
	return label + " " + strings.Join(parts, " ")
}
