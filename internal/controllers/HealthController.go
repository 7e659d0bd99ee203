package controllers

import (
	"fmt"
	"net/http"
	"ponydiary/internal/offline"
	"ponydiary/internal/structures"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	driver    string
	worker    *offline.Worker
	startTime time.Time
}

type healthResponse struct {
	Status        string        `json:"status"`
	Uptime        string        `json:"uptime"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	Storage       string        `json:"storage"`
	Offline       offlineHealth `json:"offline"`
}

type offlineHealth struct {
	Enabled bool          `json:"enabled"`
	State   offline.State `json:"state"`
	Entries int           `json:"entries"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	status := hc.worker.Status()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Storage:       hc.driver,
		Offline: offlineHealth{
			Enabled: status.Enabled,
			State:   status.State,
			Entries: status.Entries,
		},
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(conf *structures.Config, worker *offline.Worker) *HealthController {
	return &HealthController{
		driver:    conf.Storage.Driver,
		worker:    worker,
		startTime: time.Now(),
	}
}
