package api

import (
	"errors"
	"mime"
	"net/http"

	"github.com/mmynk/ledger/internal/middleware"
	"github.com/mmynk/ledger/internal/service"
)

const pictureField = "profilePicture"

// multipartOverhead covers form fields and boundaries around the picture.
const multipartOverhead = 64 << 10

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readPicture parses a multipart body and returns the optional picture file.
// The caller must call the returned cleanup.
func (h *Handler) readPicture(w http.ResponseWriter, r *http.Request) (*service.Picture, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, noop, service.Errorf(service.CodeInvalidArgument, "File too large")
		}
		return nil, noop, service.Errorf(service.CodeInvalidArgument, "Invalid multipart form")
	}
	cleanup := func() { r.MultipartForm.RemoveAll() }

	file, header, err := r.FormFile(pictureField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, cleanup, nil
	}
	if err != nil {
		return nil, cleanup, service.Errorf(service.CodeInvalidArgument, "Invalid profile picture")
	}
	return &service.Picture{Filename: header.Filename, Body: file}, func() {
		file.Close()
		cleanup()
	}, nil
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	var picture *service.Picture

	if isMultipart(r) {
		p, cleanup, err := h.readPicture(w, r)
		defer cleanup()
		if err != nil {
			writeError(w, r, err)
			return
		}
		picture = p
		req = registerRequest{
			Name:     r.FormValue("name"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}
	} else if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.cfg.Users.Register(r.Context(), req.Name, req.Email, req.Password, picture)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.cfg.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.cfg.Users.GetUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) updatePicture(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		writeMessage(w, http.StatusBadRequest, "Expected multipart/form-data")
		return
	}

	picture, cleanup, err := h.readPicture(w, r)
	defer cleanup()
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.cfg.Users.UpdateProfilePicture(r.Context(), middleware.GetUserID(r.Context()), picture)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
