package http

import (
	"net/http"

	logx "github.com/ecommerce-admin/server/pkg/logger"
)

const maxReportedCollections = 10

// databaseNamer is implemented by stores that live in a named database.
type databaseNamer interface {
	DatabaseName() string
}

type diagnosticReport struct {
	Backend          string   `json:"backend"`
	Store            string   `json:"store"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// handleDiagnostics always answers 200; store problems are reported in the body.
func (api *AdminAPI) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	report := diagnosticReport{
		Backend:          "running",
		Database:         "not available",
		DatabaseURL:      "not set",
		DatabaseName:     "not set",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}
	if api.diagnostics.DatabaseURLSet {
		report.DatabaseURL = "set"
	}
	if api.diagnostics.DatabaseName != "" {
		report.DatabaseName = api.diagnostics.DatabaseName
	}
	if api.repo == nil {
		writeJSON(w, http.StatusOK, report)
		return
	}
	report.Store = api.repo.Name()
	if named, ok := api.repo.(databaseNamer); ok && named.DatabaseName() != "" {
		report.DatabaseName = named.DatabaseName()
	}

	ctx, cancel := api.opContext(r)
	defer cancel()

	if err := api.repo.Ping(ctx); err != nil {
		logx.Warn().Err(err).Str("store", report.Store).Msg("diagnostic ping failed")
		report.Database = "error: " + truncate(err.Error(), 50)
		writeJSON(w, http.StatusOK, report)
		return
	}
	report.ConnectionStatus = "Connected"

	names, err := api.repo.CollectionNames(ctx)
	if err != nil {
		report.Database = "connected but error: " + truncate(err.Error(), 50)
		writeJSON(w, http.StatusOK, report)
		return
	}
	if len(names) > maxReportedCollections {
		names = names[:maxReportedCollections]
	}
	report.Collections = names
	report.Database = "connected & working"
	writeJSON(w, http.StatusOK, report)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
