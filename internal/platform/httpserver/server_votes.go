package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	votingerrors "rookery/contexts/social-graph/voting-engine/domain/errors"
	votinghttp "rookery/contexts/social-graph/voting-engine/transport/http"
)

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(r)
	if userID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req votinghttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.voting.Handler.CastVoteHandler(r.Context(), userID, r.PathValue("subject_id"), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubjectVotes(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.SubjectVotesHandler(r.Context(), r.PathValue("subject_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrInvalidVoteInput):
		writeVotingError(w, http.StatusBadRequest, "invalid_vote", err.Error())
	case errors.Is(err, votingerrors.ErrSubjectNotFound):
		writeVotingError(w, http.StatusNotFound, "subject_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrDuplicateVote):
		writeVotingError(w, http.StatusConflict, "duplicate_vote", err.Error())
	case errors.Is(err, votingerrors.ErrStoreUnavailable):
		writeVotingError(w, http.StatusServiceUnavailable, "store_unavailable", "vote store is unavailable")
	default:
		writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
