package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/ledger/internal/middleware"
	"github.com/mmynk/ledger/internal/service"
)

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addMemberRequest struct {
	Email string `json:"email"`
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	group, err := h.cfg.Groups.CreateGroup(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.cfg.Groups.ListGroups(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(groups))
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.cfg.Groups.GetGroup(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *Handler) editGroup(w http.ResponseWriter, r *http.Request) {
	var patch service.GroupPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	group, err := h.cfg.Groups.EditGroup(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.cfg.Groups.DeleteGroup(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Group and associated expenses deleted successfully")
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	group, err := h.cfg.Groups.AddMember(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	group, err := h.cfg.Groups.RemoveMember(r.Context(), vars["id"], middleware.GetUserID(r.Context()), vars["memberId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}
