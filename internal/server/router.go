package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"roomrank/internal/engine"
	"roomrank/internal/rank"
	"roomrank/internal/score"
	"roomrank/internal/selector"
)

// ApiV1Router manages routes for API version 1.
type ApiV1Router struct {
	// service — answers ranking and lookup requests.
	service *selector.Service
	// tokenCookie — cookie identifying the client when the header is absent.
	tokenCookie string
}

// Mux returns a configured *http.ServeMux with registered handlers:
// - POST /api/v1/rankings/importance — importance ranking
// - POST /api/v1/rankings/normalized — normalized ranking
// - POST /api/v1/rankings/facts — ranking by fact rules
// - POST /api/v1/lookup — first room below the temperature limit
// - GET /api/v1/rankings/{client} — recent rankings of a client
// - GET /api/v1/rankings/{client}/latest — newest ranking of a client
func (ar *ApiV1Router) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/rankings/importance", ar.importanceHandler)
	mux.HandleFunc("POST /api/v1/rankings/normalized", ar.normalizedHandler)
	mux.HandleFunc("POST /api/v1/rankings/facts", ar.factsHandler)
	mux.HandleFunc("POST /api/v1/lookup", ar.lookupHandler)
	mux.HandleFunc("GET /api/v1/rankings/{client}", ar.historyHandler)
	mux.HandleFunc("GET /api/v1/rankings/{client}/latest", ar.latestHandler)
	return mux
}

func (ar *ApiV1Router) importanceHandler(w http.ResponseWriter, r *http.Request) {
	var req selector.ImportanceRequest
	if !decode(w, r, &req) {
		return
	}
	ranking, err := ar.service.RankImportance(r.Context(), ar.Client(r), req)
	respond(w, ranking, err)
}

func (ar *ApiV1Router) normalizedHandler(w http.ResponseWriter, r *http.Request) {
	var req selector.NormalizedRequest
	if !decode(w, r, &req) {
		return
	}
	ranking, err := ar.service.RankNormalized(r.Context(), ar.Client(r), req)
	respond(w, ranking, err)
}

func (ar *ApiV1Router) factsHandler(w http.ResponseWriter, r *http.Request) {
	var req selector.FactsRequest
	if !decode(w, r, &req) {
		return
	}
	ranking, err := ar.service.RankFacts(r.Context(), ar.Client(r), req)
	respond(w, ranking, err)
}

func (ar *ApiV1Router) lookupHandler(w http.ResponseWriter, r *http.Request) {
	var req selector.LookupRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := ar.service.Lookup(r.Context(), req)
	respond(w, result, err)
}

// historyHandler returns the rankings stored for the client in the path.
func (ar *ApiV1Router) historyHandler(w http.ResponseWriter, r *http.Request) {
	client := r.PathValue("client")
	rankings, err := ar.service.History(client)
	respond(w, rankings, err)
}

func (ar *ApiV1Router) latestHandler(w http.ResponseWriter, r *http.Request) {
	ranking, err := ar.service.Latest(r.PathValue("client"))
	respond(w, ranking, err)
}

// Client returns the client identity: the X-Client-Token header, then the
// token cookie. Empty if neither is set.
func (ar *ApiV1Router) Client(r *http.Request) string {
	if token := r.Header.Get(ClientHeader); token != "" {
		return token
	}
	if cookie, err := r.Cookie(ar.tokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// decode reads a JSON body into v. An empty body leaves v untouched.
// Writes 400 and returns false on malformed input.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		slog.Warn("Unable to decode request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return false
	}
	return true
}

func respond(w http.ResponseWriter, body any, err error) {
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// statusOf maps service errors to HTTP statuses.
func statusOf(err error) int {
	var (
		missing   *score.MissingCriterionError
		invalid   *score.InvalidCriterionValueError
		duplicate *engine.DuplicateRoomError
		notFound  *selector.HistoryNotFoundError
	)
	switch {
	case errors.Is(err, selector.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, rank.ErrEmptyRoomSet),
		errors.As(err, &missing),
		errors.As(err, &invalid),
		errors.As(err, &duplicate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, selector.ErrNoSuitableRoom), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		slog.Warn("Unable to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// NewApiV1Router creates a new API v1 router.
func NewApiV1Router(service *selector.Service, tokenCookie string) *ApiV1Router {
	return &ApiV1Router{
		service:     service,
		tokenCookie: tokenCookie,
	}
}
