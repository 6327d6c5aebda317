package controllers

import (
	"net/http"
	"time"

	"github.com/pixelprint/pixelprint-backend/api/responses"
	"github.com/pixelprint/pixelprint-backend/api/validators"
	artworksvc "github.com/pixelprint/pixelprint-backend/internal/artwork"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
	"github.com/pixelprint/pixelprint-backend/pkg/logger"
)

type registerArtworkRequest struct {
	FileKey      string `json:"file_key" validate:"required"`
	OriginalName string `json:"original_name" validate:"required"`
	MimeType     string `json:"mime_type" validate:"required"`
	SizeBytes    int64  `json:"size_bytes" validate:"required,min=1"`
}

// ArtworkRegister records an uploaded customer file ahead of checkout.
func ArtworkRegister(svc artworksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		var payload registerArtworkRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, err := svc.Register(r.Context(), artworksvc.RegisterInput{
			FileKey:      payload.FileKey,
			OriginalName: payload.OriginalName,
			MimeType:     payload.MimeType,
			SizeBytes:    payload.SizeBytes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, file)
	}
}

// AdminArtworkDetail loads one artwork record.
func AdminArtworkDetail(svc artworksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "fileId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, file)
	}
}

// AdminArtworkReject flags an unusable customer file.
func AdminArtworkReject(svc artworksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "fileId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, err := svc.Reject(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, file)
	}
}

// AdminArtworkOrphans lists pending uploads no order ever claimed.
func AdminArtworkOrphans(svc artworksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		hours, err := validators.ParseQueryInt(r, "older_than_hours", 24, 1, 24*30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		files, err := svc.ListOrphans(r.Context(), time.Duration(hours)*time.Hour)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, files)
	}
}
