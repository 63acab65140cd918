package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hongminglow/finance-be/internal/events"
	"github.com/hongminglow/finance-be/internal/http/respond"
	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/models/dto"
	"github.com/hongminglow/finance-be/internal/storage"
)

// namedResource describes a user-owned resource that only carries a name.
type namedResource[T any] struct {
	label    string // "Account"
	singular string // "account", also the JSON key for one record
	plural   string // "accounts", also the route and list key
	id       func(T) string

	list   func(ctx context.Context, userID string) ([]T, error)
	create func(ctx context.Context, userID, name string) (T, error)
	update func(ctx context.Context, userID, id, name string) (T, error)
	delete func(ctx context.Context, userID, id string) (T, error)

	createdEvent, updatedEvent, deletedEvent string
}

// NamedHandler serves CRUD routes for accounts or categories.
type NamedHandler[T any] struct {
	base
	res namedResource[T]
}

// NewAccountHandler serves /accounts.
func NewAccountHandler(store storage.AccountStore, publisher events.Publisher, logger *slog.Logger) *NamedHandler[models.Account] {
	return &NamedHandler[models.Account]{
		base: newBase(publisher, logger),
		res: namedResource[models.Account]{
			label:        "Account",
			singular:     "account",
			plural:       "accounts",
			id:           func(a models.Account) string { return a.ID },
			list:         store.ListAccounts,
			create:       store.CreateAccount,
			update:       store.UpdateAccount,
			delete:       store.DeleteAccount,
			createdEvent: events.AccountCreated,
			updatedEvent: events.AccountUpdated,
			deletedEvent: events.AccountDeleted,
		},
	}
}

// NewCategoryHandler serves /categories.
func NewCategoryHandler(store storage.CategoryStore, publisher events.Publisher, logger *slog.Logger) *NamedHandler[models.Category] {
	return &NamedHandler[models.Category]{
		base: newBase(publisher, logger),
		res: namedResource[models.Category]{
			label:        "Category",
			singular:     "category",
			plural:       "categories",
			id:           func(c models.Category) string { return c.ID },
			list:         store.ListCategories,
			create:       store.CreateCategory,
			update:       store.UpdateCategory,
			delete:       store.DeleteCategory,
			createdEvent: events.CategoryCreated,
			updatedEvent: events.CategoryUpdated,
			deletedEvent: events.CategoryDeleted,
		},
	}
}

// Register attaches the resource routes to mux behind protect.
func (h *NamedHandler[T]) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	collection := "/" + h.res.plural
	mux.Handle("GET "+collection, protect(http.HandlerFunc(h.handleList)))
	mux.Handle("POST "+collection, protect(http.HandlerFunc(h.handleCreate)))
	for _, pattern := range []string{collection, collection + "/{$}", collection + "/{id}"} {
		mux.Handle("PUT "+pattern, protect(http.HandlerFunc(h.handleUpdate)))
		mux.Handle("DELETE "+pattern, protect(http.HandlerFunc(h.handleDelete)))
	}
}

func (h *NamedHandler[T]) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	items, err := h.res.list(r.Context(), userID)
	if err != nil {
		h.serverError(w, r, "list "+h.res.plural, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{h.res.plural: items})
}

func (h *NamedHandler[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req dto.NameRequest
	if err := decodeName(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.res.create(r.Context(), userID, req.Name)
	if err != nil {
		h.serverError(w, r, "create "+h.res.singular, err)
		return
	}
	h.publish(r.Context(), events.New(h.res.createdEvent, userID, h.res.id(item)))
	respond.JSON(w, http.StatusOK, map[string]any{h.res.singular: item})
}

func (h *NamedHandler[T]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id := pathID(r)
	if id == "" {
		respond.Error(w, http.StatusBadRequest, msgMissingID)
		return
	}
	var req dto.NameRequest
	if err := decodeName(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.res.update(r.Context(), userID, id, req.Name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, h.notFound("update"))
			return
		}
		h.serverError(w, r, "update "+h.res.singular, err)
		return
	}
	h.publish(r.Context(), events.New(h.res.updatedEvent, userID, h.res.id(item)))
	respond.JSON(w, http.StatusOK, map[string]any{h.res.singular: item})
}

func (h *NamedHandler[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id := pathID(r)
	if id == "" {
		respond.Error(w, http.StatusBadRequest, msgMissingID)
		return
	}
	item, err := h.res.delete(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, h.notFound("delete"))
			return
		}
		h.serverError(w, r, "delete "+h.res.singular, err)
		return
	}
	h.publish(r.Context(), events.New(h.res.deletedEvent, userID, h.res.id(item)))
	respond.JSON(w, http.StatusOK, map[string]any{h.res.singular: item})
}

// notFound is the single message for absent and foreign records alike.
func (h *NamedHandler[T]) notFound(action string) string {
	return h.res.label + " not found or you are not authorized to " + action + " this " + h.res.singular + "."
}

func decodeName(w http.ResponseWriter, r *http.Request, req *dto.NameRequest) error {
	if err := decodeJSON(w, r, req); err != nil {
		return err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return errors.New("name is required")
	}
	return nil
}
