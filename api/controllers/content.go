package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pixelprint/pixelprint-backend/api/responses"
	"github.com/pixelprint/pixelprint-backend/api/validators"
	contentsvc "github.com/pixelprint/pixelprint-backend/internal/content"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
	"github.com/pixelprint/pixelprint-backend/pkg/logger"
)

type createBlockRequest struct {
	Slug        string `json:"slug" validate:"required"`
	Kind        string `json:"kind" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Body        string `json:"body"`
	IsPublished bool   `json:"is_published"`
	Position    int    `json:"position" validate:"omitempty,min=0"`
}

type updateBlockRequest struct {
	Title       *string `json:"title,omitempty"`
	Body        *string `json:"body,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
	Position    *int    `json:"position,omitempty" validate:"omitempty,min=0"`
}

// ContentList serves published content blocks to the storefront.
func ContentList(svc contentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listContent(svc, logg, true)
}

// AdminContentList includes drafts for back-office screens.
func AdminContentList(svc contentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listContent(svc, logg, false)
}

func listContent(svc contentsvc.Service, logg *logger.Logger, publishedOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		blocks, err := svc.ListBlocks(r.Context(), validators.QueryStringPtr(r, "kind"), publishedOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, blocks)
	}
}

// ContentDetail serves one published block by slug.
func ContentDetail(svc contentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		block, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "blockSlug"), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, block)
	}
}

// AdminContentCreate creates a content block.
func AdminContentCreate(svc contentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		var payload createBlockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		block, err := svc.CreateBlock(r.Context(), contentsvc.CreateBlockInput{
			Slug:        payload.Slug,
			Kind:        payload.Kind,
			Title:       payload.Title,
			Body:        payload.Body,
			IsPublished: payload.IsPublished,
			Position:    payload.Position,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, block)
	}
}

// AdminContentUpdate mutates a content block.
func AdminContentUpdate(svc contentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "blockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBlockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		block, err := svc.UpdateBlock(r.Context(), id, contentsvc.UpdateBlockInput{
			Title:       payload.Title,
			Body:        payload.Body,
			IsPublished: payload.IsPublished,
			Position:    payload.Position,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, block)
	}
}

// AdminContentDelete removes a content block.
func AdminContentDelete(svc contentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "blockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteBlock(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
