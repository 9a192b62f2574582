package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	relationshiperrors "rookery/contexts/social-graph/relationship-service/domain/errors"
	relationshiphttp "rookery/contexts/social-graph/relationship-service/transport/http"
)

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(r)
	if userID == "" {
		writeRelationshipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req relationshiphttp.SendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRelationshipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.relationships.Handler.SendRequestHandler(r.Context(), userID, resolveDisplayName(r), req)
	if err != nil {
		writeRelationshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRespondRequest(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(r)
	if userID == "" {
		writeRelationshipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req relationshiphttp.RespondRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRelationshipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.relationships.Handler.RespondRequestHandler(
		r.Context(),
		userID,
		resolveDisplayName(r),
		r.PathValue("requester_id"),
		req,
	)
	if err != nil {
		writeRelationshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBlockActor(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(r)
	if userID == "" {
		writeRelationshipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req relationshiphttp.BlockActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRelationshipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.relationships.Handler.BlockActorHandler(r.Context(), userID, req)
	if err != nil {
		writeRelationshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRelationships(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(r)
	if userID == "" {
		writeRelationshipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.relationships.Handler.ListRelationshipsHandler(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		writeRelationshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(r)
	if userID == "" {
		writeRelationshipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.relationships.Handler.ListNotificationsHandler(r.Context(), userID)
	if err != nil {
		writeRelationshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRelationshipDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, relationshiperrors.ErrInvalidRequestInput):
		writeRelationshipError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, relationshiperrors.ErrSelfRequest):
		writeRelationshipError(w, http.StatusBadRequest, "self_request", err.Error())
	case errors.Is(err, relationshiperrors.ErrInvalidRespondAction):
		writeRelationshipError(w, http.StatusBadRequest, "invalid_respond_action", err.Error())
	case errors.Is(err, relationshiperrors.ErrAlreadyFriends):
		writeRelationshipError(w, http.StatusConflict, "already_friends", err.Error())
	case errors.Is(err, relationshiperrors.ErrRequestAlreadyPending):
		writeRelationshipError(w, http.StatusConflict, "request_already_pending", err.Error())
	case errors.Is(err, relationshiperrors.ErrSelfBlocked):
		writeRelationshipError(w, http.StatusConflict, "requester_blocked_target", err.Error())
	case errors.Is(err, relationshiperrors.ErrBlockedByAddressee):
		writeRelationshipError(w, http.StatusConflict, "blocked_by_target", err.Error())
	case errors.Is(err, relationshiperrors.ErrRelationshipExists):
		writeRelationshipError(w, http.StatusConflict, "relationship_exists", err.Error())
	case errors.Is(err, relationshiperrors.ErrRequestNotPending):
		writeRelationshipError(w, http.StatusConflict, "request_not_pending", err.Error())
	case errors.Is(err, relationshiperrors.ErrRelationshipNotFound):
		writeRelationshipError(w, http.StatusNotFound, "relationship_not_found", err.Error())
	case errors.Is(err, relationshiperrors.ErrStoreUnavailable):
		writeRelationshipError(w, http.StatusServiceUnavailable, "store_unavailable", "relationship store is unavailable")
	default:
		writeRelationshipError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRelationshipError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, relationshiphttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
