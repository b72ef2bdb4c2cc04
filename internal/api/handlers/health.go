package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"
)

type HealthHandler struct {
	db       *sql.DB
	blobRoot string
}

func NewHealthHandler(db *sql.DB, blobRoot string) *HealthHandler {
	return &HealthHandler{db: db, blobRoot: blobRoot}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"database":   "healthy",
		"blob_store": "healthy",
	}
	status := "healthy"

	if err := h.db.Ping(); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		status = "degraded"
	}
	if info, err := os.Stat(h.blobRoot); err != nil || !info.IsDir() {
		checks["blob_store"] = "unhealthy: blob root unavailable"
		status = "degraded"
	}

	statusCode := http.StatusOK
	if status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(struct {
		Status    string            `json:"status"`
		Timestamp int64             `json:"timestamp"`
		Checks    map[string]string `json:"checks"`
	}{
		Status:    status,
		Timestamp: time.Now().Unix(),
		Checks:    checks,
	})
}
