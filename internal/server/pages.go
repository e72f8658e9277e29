package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/store"
	"github.com/goliatone/go-userform/pkg/store/httpstore"
	"github.com/goliatone/go-userform/pkg/submission"
)

// Flash codes carried across the post/redirect/get cycle.
const (
	flashParam   = "flash"
	flashCreated = "created"
	flashUpdated = "updated"
	flashDeleted = "deleted"
)

var flashMessages = map[string]string{
	flashCreated: "User registered successfully!",
	flashUpdated: "User updated successfully!",
	flashDeleted: "User deleted successfully",
}

const (
	saveFailed   = "Error saving user data."
	deleteFailed = "Failed to delete user."
	listFailed   = "API Connection Failed"
	userNotFound = "User not found"
)

type pageHandler struct {
	server *Server
	action string
}

func (h *pageHandler) coordinator() *submission.Coordinator {
	return submission.New(h.server.store, submission.WithLogger(h.server.logger))
}

func (h *pageHandler) show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := render.View{Registry: h.server.registry, Action: h.action}
	if msg, ok := flashMessages[r.URL.Query().Get(flashParam)]; ok {
		view.Flash = &render.Flash{Kind: render.FlashSuccess, Message: msg}
	}

	users, err := h.coordinator().List(ctx)
	if err != nil {
		view.Flash = &render.Flash{Kind: render.FlashError, Message: listFailed}
		view.State = form.New(h.server.registry)
		h.render(w, r, http.StatusBadGateway, view)
		return
	}
	view.Users = users

	status := http.StatusOK
	var seed *model.User
	if id := model.ID(strings.TrimSpace(r.URL.Query().Get("id"))); !id.IsZero() {
		if found, ok := findUser(users, id); ok {
			seed = &found
		} else {
			view.Flash = &render.Flash{Kind: render.FlashError, Message: userNotFound}
			status = http.StatusNotFound
		}
	}
	view.State = form.New(h.server.registry, form.WithSeed(seed))
	h.render(w, r, status, view)
}

func (h *pageHandler) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.server.opts.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("_action") == "delete" {
		h.delete(w, r)
		return
	}

	ctx := r.Context()
	coordinator := h.coordinator()
	view := render.View{Registry: h.server.registry, Action: h.action}

	var seed *model.User
	if id := model.ID(strings.TrimSpace(r.PostForm.Get("id"))); !id.IsZero() {
		found, err := store.Find(ctx, h.server.store, id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			view.Flash = &render.Flash{Kind: render.FlashError, Message: userNotFound}
			view.State = form.New(h.server.registry)
			view.Users = h.users(ctx, coordinator)
			h.render(w, r, http.StatusNotFound, view)
			return
		case err != nil:
			h.saveFailure(w, r, view, form.New(h.server.registry), err)
			return
		}
		seed = &found
	}

	state := form.New(h.server.registry, form.WithSeed(seed))
	applyForm(state, r.PostForm)

	mode := state.Mode()
	_, err := coordinator.Submit(ctx, state)
	switch {
	case err == nil:
		code := flashCreated
		if mode == model.ModeEdit {
			code = flashUpdated
		}
		h.redirect(w, r, code)
	case submission.IsValidation(err):
		view.State = state
		view.Users = h.users(ctx, coordinator)
		h.render(w, r, http.StatusUnprocessableEntity, view)
	default:
		h.saveFailure(w, r, view, state, err)
	}
}

func (h *pageHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	coordinator := h.coordinator()
	id := model.ID(strings.TrimSpace(r.PostForm.Get("id")))
	if _, err := coordinator.Delete(ctx, id); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
		view := render.View{
			Registry: h.server.registry,
			Action:   h.action,
			State:    form.New(h.server.registry),
			Flash:    &render.Flash{Kind: render.FlashError, Message: deleteFailed},
			Users:    h.users(ctx, coordinator),
		}
		h.render(w, r, status, view)
		return
	}
	h.redirect(w, r, flashDeleted)
}

func (h *pageHandler) saveFailure(w http.ResponseWriter, r *http.Request, view render.View, state *form.State, err error) {
	view.State = state
	view.Flash = &render.Flash{Kind: render.FlashError, Message: saveFailed}
	var status *httpstore.StatusError
	if errors.As(err, &status) {
		view = view.WithErrorPayload(status.Fields)
		view.FormErrors = render.MergeFormErrors(view.FormErrors, status.Form...)
	}
	view.Users = h.users(r.Context(), h.coordinator())
	h.render(w, r, http.StatusBadGateway, view)
}

// users lists for a re-rendered page; a failing store yields an empty list.
func (h *pageHandler) users(ctx context.Context, coordinator *submission.Coordinator) []model.User {
	users, err := coordinator.List(ctx)
	if err != nil {
		return nil
	}
	return users
}

func (h *pageHandler) redirect(w http.ResponseWriter, r *http.Request, flash string) {
	target := h.action + "?" + url.Values{flashParam: {flash}}.Encode()
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *pageHandler) render(w http.ResponseWriter, r *http.Request, status int, view render.View) {
	out, err := h.server.renderer.Render(r.Context(), view)
	if err != nil {
		h.server.logger.ErrorContext(r.Context(), "render page failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", h.server.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

// applyForm replays posted values through the state machine the way a user
// would type them: change, then blur.
func applyForm(state *form.State, values url.Values) {
	for _, field := range state.Registry().Fields() {
		if _, posted := values[field.Name]; !posted {
			continue
		}
		raw := values.Get(field.Name)
		if field.Kind == model.KindDate {
			picked, err := model.ParseDate(raw)
			if err == nil {
				state.OnDateChange(field.Name, picked)
			}
		} else {
			state.OnChange(field.Name, raw)
		}
		state.OnBlur(field.Name)
	}
}

func findUser(users []model.User, id model.ID) (model.User, bool) {
	for _, user := range users {
		if user.ID == id {
			return user, true
		}
	}
	return model.User{}, false
}
