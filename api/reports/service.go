package reports

import (
	"fmt"
	"log"
	"net/http"

	"EnerTrack/internal/logger"
	"EnerTrack/internal/serviceiface"
)

// ReportsService runs the ingestion HTTP surface.
type ReportsService struct {
	config map[string]interface{}
	stores Stores
	server *http.Server
}

func NewReportsService(cfg map[string]interface{}, stores Stores) serviceiface.Service {
	return &ReportsService{config: cfg, stores: stores}
}

func (s *ReportsService) Name() string {
	return "reports"
}

func (s *ReportsService) Start() error {
	port := 8080
	switch v := s.config["port"].(type) {
	case int:
		port = v
	case float64:
		port = int(v)
	}
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: NewRouter(s.stores),
	}
	go func() {
		log.Printf("[INFO] Reports Service started on :%d", port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Reports Service failed: %v", err)
		}
	}()
	logger.Audit("Reports service listening on port %d", port)
	return nil
}

func (s *ReportsService) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
