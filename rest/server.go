package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/lvnexus/nexus/automation"
	"github.com/lvnexus/nexus/feed"
	"github.com/lvnexus/nexus/logger"
	"github.com/lvnexus/nexus/model"
	"go.uber.org/zap"
)

type Server struct {
	http.Server
	Port       int
	feed       *feed.Service
	automation *automation.Service
}

func NewServer(httpPort int, feedService *feed.Service, automationService *automation.Service) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr: fmt.Sprintf(":%d", httpPort),
		},
		feed:       feedService,
		automation: automationService,
		Port:       httpPort,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/feed/live", s.HandleFeedLive).Methods(http.MethodGet)
	router.HandleFunc("/api/feed/reset", s.HandleFeedReset).Methods(http.MethodPost)
	router.HandleFunc("/api/feed/config", s.HandleGetFeedConfig).Methods(http.MethodGet)
	router.HandleFunc("/api/feed/config", s.HandleUpdateFeedConfig).Methods(http.MethodPost)
	router.HandleFunc("/api/automation/workflows", s.HandleImportWorkflow).Methods(http.MethodPost)
	router.HandleFunc("/api/automation/workflows", s.HandleListWorkflows).Methods(http.MethodGet)
	router.HandleFunc("/api/automation/run/{id}", s.HandleRunWorkflow).Methods(http.MethodPost)
	router.HandleFunc("/api/automation/workflows/{id}/schedule", s.HandleUpdateSchedule).Methods(http.MethodPost)
	router.HandleFunc("/api/automation/summarize/{url:.+}", s.HandleSummarize).Methods(http.MethodPost)
	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server")
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func respondWithData(w http.ResponseWriter, code int, data any) {
	response, _ := json.Marshal(model.ApiResponse{Success: true, Data: data})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	response, _ := json.Marshal(model.ApiResponse{Success: false, Error: message})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
