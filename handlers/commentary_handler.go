package handlers

import (
	"net/http"

	"github.com/padelhub/live-scoring/services"
)

type CommentaryHandler struct {
	commentaryService services.CommentaryService
}

func NewCommentaryHandler(cs services.CommentaryService) *CommentaryHandler {
	return &CommentaryHandler{
		commentaryService: cs,
	}
}

func (h *CommentaryHandler) CreateCommentary(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateCommentaryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	comment, err := h.commentaryService.Create(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"commentary": comment}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CommentaryHandler) ListCommentary(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.commentaryService.List(r.Context(), matchID, limitFromQuery(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"commentary": entries}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
