package rest

import (
	"encoding/json"
	"net/http"

	"github.com/lvnexus/nexus/model"
)

func (s *Server) HandleFeedLive(w http.ResponseWriter, r *http.Request) {
	state := s.feed.GetLatest()
	respondWithData(w, http.StatusOK, state)
}

func (s *Server) HandleFeedReset(w http.ResponseWriter, r *http.Request) {
	state := s.feed.ResetFeed()
	respondWithData(w, http.StatusOK, state)
}

func (s *Server) HandleGetFeedConfig(w http.ResponseWriter, r *http.Request) {
	respondWithData(w, http.StatusOK, s.feed.GetConfig())
}

func (s *Server) HandleUpdateFeedConfig(w http.ResponseWriter, r *http.Request) {
	var patch struct {
		Frequency *int  `json:"frequency"`
		Chaos     *bool `json:"chaos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid config payload")
		return
	}
	defer r.Body.Close()
	if patch.Frequency == nil || patch.Chaos == nil {
		respondWithError(w, http.StatusBadRequest, "Invalid config payload")
		return
	}
	config := s.feed.UpdateConfig(model.FeedConfigPatch{Frequency: patch.Frequency, Chaos: patch.Chaos})
	respondWithData(w, http.StatusOK, config)
}
