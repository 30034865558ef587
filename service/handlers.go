package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hudsonventura/SnowflakeGuid/guid"
	"github.com/hudsonventura/SnowflakeGuid/snowflake"
)

// snowflakeResponse is the identifier record plus its guid container form.
type snowflakeResponse struct {
	snowflake.Record
	GUID string `json:"guid"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func response(ident snowflake.Identifier) snowflakeResponse {
	return snowflakeResponse{Record: ident.Record(), GUID: guid.Format(ident)}
}

func (s *Service) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Service) mint(w http.ResponseWriter, r *http.Request) {
	ident, err := s.gen.Issue()
	if err != nil {
		// a regressed clock or an exhausted epoch span is a server fault,
		// nothing about the request can fix it
		issuedTotal.WithLabelValues("error").Inc()
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	issuedTotal.WithLabelValues("ok").Inc()
	s.writeJSON(w, http.StatusCreated, response(ident))
}

// decode accepts a code, a bare decimal id, or a guid container. Codes and
// ids are interpreted against the service epoch unless an epoch query
// parameter overrides it. A guid carries its own epoch, so combining one
// with the epoch parameter is rejected.
func (s *Service) decode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	rawEpoch := r.URL.Query().Get("epoch")

	epoch := s.gen.Epoch()
	if rawEpoch != "" {
		parsed, err := time.Parse(time.RFC3339, rawEpoch)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("epoch %q: %w", rawEpoch, err))
			return
		}
		epoch = parsed
	}

	ident, err := snowflake.FromCode(code, epoch)
	if err != nil {
		gident, gerr := guid.Parse(code)
		if gerr != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		if rawEpoch != "" {
			s.writeError(w, http.StatusBadRequest,
				errors.New("service: the epoch parameter conflicts with a guid form value"))
			return
		}
		ident = gident
	}

	s.writeJSON(w, http.StatusOK, response(ident))
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Debugf("encoding response: %v", err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
