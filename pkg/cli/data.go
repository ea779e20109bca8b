package cli

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/fraudlens/fraudlens/pkg/data"
)

// SeriesData is the chart payload shape consumed by the dashboard JS.
type SeriesData[T any] struct {
	Labels []string `json:"labels" yaml:"labels"`
	Data   []T      `json:"data" yaml:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func queryParamInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// writeLoadError surfaces a fatal-load failure as the single user-visible
// message for the render. The missing-column list and missing-file name are
// already part of the loader's error text.
func writeLoadError(w http.ResponseWriter, err error) {
	slog.Error("dataset load failed", "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// transactionList is the selectable-choices payload for the sidebar.
type transactionList struct {
	HasIDs bool     `json:"has_ids" yaml:"has_ids"`
	Count  int      `json:"count" yaml:"count"`
	IDs    []string `json:"ids,omitempty" yaml:"ids,omitempty"`
}

func transactionsAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := cfg.loadDataset()
		if err != nil {
			writeLoadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &transactionList{
			HasIDs: ds.HasIDs(),
			Count:  ds.Len(),
			IDs:    ds.IDs(),
		})
	}
}

func transactionAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := cfg.loadDataset()
		if err != nil {
			writeLoadError(w, err)
			return
		}

		var txn *data.Transaction
		if id := r.URL.Query().Get("id"); id != "" && ds.HasIDs() {
			txn, err = ds.Select(id)
		} else if idx := r.URL.Query().Get("index"); idx != "" {
			i, convErr := strconv.Atoi(idx)
			if convErr != nil {
				writeError(w, http.StatusBadRequest, "index must be an integer")
				return
			}
			txn, err = ds.SelectIndex(i)
		} else {
			writeError(w, http.StatusBadRequest, "id or index parameter required")
			return
		}

		if err != nil {
			if errors.Is(err, data.ErrTransactionNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeLoadError(w, err)
			return
		}

		decision, err := data.MakeDecision(txn)
		if err != nil {
			writeLoadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, decision)
	}
}

func riskLevelsAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSnapshot(cfg, w, func(ins *data.Insights) {
			series := &SeriesData[int]{
				Labels: make([]string, 0, len(ins.RiskLevels)),
				Data:   make([]int, 0, len(ins.RiskLevels)),
			}
			for _, c := range ins.RiskLevels {
				series.Labels = append(series.Labels, c.Level)
				series.Data = append(series.Data, c.Count)
			}
			writeJSON(w, http.StatusOK, series)
		}, 0)
	}
}

func scoreSampleAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := queryParamInt(r, "n", cfg.SampleSize)
		withSnapshot(cfg, w, func(ins *data.Insights) {
			series := &SeriesData[float64]{
				Labels: make([]string, 0, len(ins.Sample)),
				Data:   ins.Sample,
			}
			for i := range ins.Sample {
				series.Labels = append(series.Labels, strconv.Itoa(i+1))
			}
			writeJSON(w, http.StatusOK, series)
		}, n)
	}
}

func summaryAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSnapshot(cfg, w, func(ins *data.Insights) {
			writeJSON(w, http.StatusOK, ins.Summary)
		}, 0)
	}
}

func withSnapshot(cfg *appConfig, w http.ResponseWriter, fn func(*data.Insights), sampleSize int) {
	ds, err := cfg.loadDataset()
	if err != nil {
		writeLoadError(w, err)
		return
	}
	if sampleSize <= 0 {
		sampleSize = cfg.SampleSize
	}
	ins, err := data.GetInsights(ds, sampleSize)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	fn(ins)
}
