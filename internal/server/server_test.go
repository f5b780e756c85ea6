package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uldpack/internal/config"
	"github.com/matzehuels/uldpack/pkg/pipeline"
)

func testServer(t *testing.T, cfg config.Server) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := New(runner, cfg, logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts := testServer(t, config.Server{})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestSolve_Small(t *testing.T) {
	ts := testServer(t, config.Server{})

	req := map[string]any{
		"packages": []map[string]any{
			{"id": "P1", "length": 2, "width": 3, "height": 4, "weight": 5, "cost": 100, "priority": true},
		},
		"ulds": []map[string]any{
			{"id": "U1", "length": 10, "width": 10, "height": 10, "weight": 1000},
		},
		"seed":   1,
		"params": map[string]any{"population": 2, "generations": 3, "elites": 1, "elite_bias": 0.8},
	}

	resp := postJSON(t, ts.URL+"/api", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var result pipeline.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Placements) != 1 {
		t.Fatalf("placed %d, want 1", len(result.Placements))
	}
	rec := result.Placements[0]
	if rec.PackageID != "P1" || rec.ULDID != "U1" {
		t.Errorf("placement = %+v, want P1 in U1", rec)
	}
	if rec.X2 != 2 || rec.Y2 != 3 || rec.Z2 != 4 {
		t.Errorf("placement box = %+v, want max (2,3,4)", rec)
	}
	if len(result.LoadingOrder) != 1 || result.LoadingOrder[0] != "P1" {
		t.Errorf("loading order = %v, want [P1]", result.LoadingOrder)
	}
}

func TestSolve_InvalidInput(t *testing.T) {
	ts := testServer(t, config.Server{})

	resp := postJSON(t, ts.URL+"/api", map[string]any{"packages": []any{}, "ulds": []any{}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSolve_MalformedJSON(t *testing.T) {
	ts := testServer(t, config.Server{})

	resp, err := http.Post(ts.URL+"/api", "application/json", bytes.NewReader([]byte("{nope")))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	ts := testServer(t, config.Server{})

	req := map[string]any{
		"uld_length": 10, "uld_width": 10, "uld_height": 10, "uld_weight": 100,
		"packages": []map[string]any{
			{"x1": 0, "y1": 0, "z1": 0, "x2": 10, "y2": 10, "z2": 5, "weight": 50},
		},
	}

	resp := postJSON(t, ts.URL+"/api/metrics", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["count"] != 1 {
		t.Errorf("count = %v, want 1", body["count"])
	}
	if body["utilization"] != 0.5 {
		t.Errorf("utilization = %v, want 0.5", body["utilization"])
	}
	if body["weight_utilization"] != 0.5 {
		t.Errorf("weight_utilization = %v, want 0.5", body["weight_utilization"])
	}
}

func TestMock(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "sample.csv")
	csv := "uld,package,x1,y1,z1,x2,y2,z2\nU1,P1,0,0,0,2,2,2\nU1,P2,2,0,0,4,2,2\n"
	if err := os.WriteFile(csvPath, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	ts := testServer(t, config.Server{SampleCSV: csvPath})

	resp := postJSON(t, ts.URL+"/api", map[string]any{"mock": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var rows []map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (header skipped)", len(rows))
	}
	if rows[0]["column_1"] != "P1" {
		t.Errorf("column_1 = %q, want P1", rows[0]["column_1"])
	}
}

func TestCORS_Preflight(t *testing.T) {
	ts := testServer(t, config.Server{})

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}
