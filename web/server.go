// ABOUTME: Read-only JSON server for the activity timeline
// ABOUTME: Serves reconciled (and optionally bucketed) timelines at localhost
package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/harperreed/revline/api"
	"github.com/harperreed/revline/cache"
	"github.com/harperreed/revline/config"
	"github.com/harperreed/revline/models"
	"github.com/harperreed/revline/timeline"
)

type Server struct {
	client *api.Client
	store  cache.Store
	cfg    *config.Config
}

func NewServer(client *api.Client, store cache.Store, cfg *config.Config) *Server {
	return &Server{client: client, store: store, cfg: cfg}
}

func (s *Server) Start(port int) error {
	http.HandleFunc("/timeline", s.handleTimeline)
	http.HandleFunc("/healthz", s.handleHealth)

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting timeline server at http://localhost%s", addr)
	return http.ListenAndServe(addr, nil)
}

type timelineResponse struct {
	RecordID string                  `json:"record_id"`
	Events   []models.ActivityEvent  `json:"events,omitempty"`
	Buckets  []models.BucketedEvents `json:"buckets,omitempty"`
	Notices  []timeline.Notice       `json:"notices,omitempty"`
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	recordID := r.URL.Query().Get("id")
	if recordID == "" {
		http.Error(w, "id query parameter is required", http.StatusBadRequest)
		return
	}
	recordType, ok := models.ParseRecordType(r.URL.Query().Get("type"))
	if !ok {
		http.Error(w, "type must be one of lead, contact, opportunity, company", http.StatusBadRequest)
		return
	}

	eng := timeline.NewEngine(s.client, s.store, recordType, recordID, timeline.Options{
		SummaryTTL:    s.cfg.SummaryTTL,
		FullTTL:       s.cfg.FullTTL,
		CurrentUserID: s.cfg.CurrentUserID,
	})
	defer eng.Close()

	view := timeline.ViewSummary
	grouped := r.URL.Query().Get("grouped") == "true"
	if grouped || r.URL.Query().Get("view") == "full" {
		view = timeline.ViewFull
	}
	force := r.URL.Query().Get("force") == "true"

	// The request context cancels the load when the client goes away, so a
	// late result never touches anything.
	events, err := eng.Load(r.Context(), view, force)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	resp := timelineResponse{RecordID: recordID, Notices: eng.Notices()}
	if grouped {
		resp.Buckets = eng.Buckets()
	} else {
		resp.Events = events
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("failed to encode timeline response: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
