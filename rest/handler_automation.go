package rest

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/lvnexus/nexus/automation"
	"github.com/lvnexus/nexus/logger"
	"github.com/lvnexus/nexus/model"
	"go.uber.org/zap"
)

var mockSummaries = []string{
	"AI Brief: Critical traffic outage on Hamilton St impacting ops.",
	"AI Brief: Infrastructure alert - power flicker in Bethlehem core.",
	"AI Brief: Medical dispatch to 3rd St, Easton - ambulance en route.",
}

func (s *Server) HandleImportWorkflow(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        string                            `json:"name"`
		Nodes       *[]model.WorkflowNode             `json:"nodes"`
		Connections *map[string]model.NodeConnections `json:"connections"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid workflow JSON")
		return
	}
	defer r.Body.Close()
	if payload.Nodes == nil || payload.Connections == nil {
		respondWithError(w, http.StatusBadRequest, "Invalid workflow JSON")
		return
	}
	def := model.Workflow{
		Name:        payload.Name,
		Nodes:       *payload.Nodes,
		Connections: *payload.Connections,
	}
	state, err := s.automation.Create(def)
	if err != nil {
		logger.Error("error importing workflow", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error importing workflow")
		return
	}
	respondWithData(w, http.StatusOK, map[string]string{"id": state.Id})
}

func (s *Server) HandleListWorkflows(w http.ResponseWriter, r *http.Request) {
	s.automation.RunDue()
	workflows, err := s.automation.List()
	if err != nil {
		logger.Error("error listing workflows", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing workflows")
		return
	}
	respondWithData(w, http.StatusOK, model.WorkflowListResponse{Items: workflows, Next: nil})
}

func (s *Server) HandleRunWorkflow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	res, err := s.automation.DryRun(id, false)
	if err != nil {
		var notFound automation.WorkflowNotFoundError
		if errors.As(err, &notFound) {
			respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.Error("error running workflow", zap.String("workflow", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error running workflow")
		return
	}
	respondWithData(w, http.StatusOK, res)
}

func (s *Server) HandleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	var patch struct {
		ScheduleIntervalMs *int64 `json:"scheduleIntervalMs"`
		Enabled            *bool  `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid schedule payload")
		return
	}
	defer r.Body.Close()
	if patch.ScheduleIntervalMs == nil || *patch.ScheduleIntervalMs <= 0 || patch.Enabled == nil {
		respondWithError(w, http.StatusBadRequest, "Invalid schedule payload")
		return
	}
	err := s.automation.UpdateSchedule(id, model.SchedulePatch{ScheduleIntervalMs: patch.ScheduleIntervalMs, Enabled: patch.Enabled})
	if err != nil {
		var notFound automation.WorkflowNotFoundError
		if errors.As(err, &notFound) {
			respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.Error("error updating schedule", zap.String("workflow", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error updating schedule")
		return
	}
	respondWithData(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	url := vars["url"]
	if !strings.HasSuffix(url, ".pdf") {
		respondWithError(w, http.StatusBadRequest, "Invalid PDF URL")
		return
	}
	respondWithData(w, http.StatusOK, model.SummarizeResponse{
		Summary: mockSummaries[rand.Intn(len(mockSummaries))],
		Actions: []string{"preview", "download"},
	})
}
