package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/flowline-dev/flowline/pkg/model"
	"github.com/flowline-dev/flowline/pkg/pipeline"
	"github.com/flowline-dev/flowline/pkg/store"
)

func testServer() *Server {
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, logger)
	return New(runner, store.NewMemoryStore(), logger)
}

func modelJSON() json.RawMessage {
	m := &model.Model{
		Name: "checkout",
		Shapes: []*model.Shape{
			{ID: "start", Type: model.TypeStartEvent},
			{ID: "pay", Type: model.TypeTask},
			{ID: "end", Type: model.TypeEndEvent},
		},
		Connectors: []*model.Connector{
			{ID: "f1", Kind: model.FlowSequence, SourceID: "start", TargetID: "pay"},
			{ID: "f2", Kind: model.FlowSequence, SourceID: "pay", TargetID: "end"},
		},
	}
	data, _ := model.MarshalModel(m)
	return data
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, testServer().Handler(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestResolveEndpoint(t *testing.T) {
	srv := testServer()

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/resolve", resolveRequest{
		Model:    modelJSON(),
		NoEngine: true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp resolveResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Model.Shapes) != 3 {
		t.Errorf("resolved shapes = %d, want 3", len(resp.Model.Shapes))
	}
	for _, s := range resp.Model.Shapes {
		if s.Position == nil || s.Size == nil {
			t.Errorf("shape %s not fully positioned", s.ID)
		}
	}
}

func TestResolveEndpointErrors(t *testing.T) {
	srv := testServer()

	// Missing model
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/resolve", resolveRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing model status = %d, want 400", rec.Code)
	}

	// Invalid mode
	rec = doJSON(t, srv.Handler(), http.MethodPost, "/api/resolve", resolveRequest{
		Model: modelJSON(),
		Mode:  "creative",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid mode status = %d, want 400", rec.Code)
	}

	// Malformed body
	req := httptest.NewRequest(http.MethodPost, "/api/resolve", bytes.NewBufferString("{not json"))
	rec2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec2.Code)
	}
}

func TestDiagramCRUD(t *testing.T) {
	srv := testServer()
	h := srv.Handler()

	// Create
	rec := doJSON(t, h, http.MethodPost, "/api/diagrams", createDiagramRequest{
		Name:  "checkout",
		Model: modelJSON(),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var created store.Diagram
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created diagram: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created diagram should get an ID")
	}

	// List
	rec = doJSON(t, h, http.MethodGet, "/api/diagrams", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var summaries []store.Summary
	if err := json.NewDecoder(rec.Body).Decode(&summaries); err != nil {
		t.Fatalf("decode summaries: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Name != "checkout" {
		t.Errorf("summaries = %+v, want one checkout entry", summaries)
	}

	// Resolve stored diagram
	path := fmt.Sprintf("/api/diagrams/%s/resolve?no_engine=true", created.ID)
	rec = doJSON(t, h, http.MethodPost, path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve status = %d, body %s", rec.Code, rec.Body)
	}

	// Get reflects the persisted resolution
	rec = doJSON(t, h, http.MethodGet, "/api/diagrams/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var fetched store.Diagram
	if err := json.NewDecoder(rec.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode fetched diagram: %v", err)
	}
	if fetched.Resolved == nil {
		t.Error("resolved model should be persisted")
	}

	// Delete
	rec = doJSON(t, h, http.MethodDelete, "/api/diagrams/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/diagrams/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCreateDiagramValidation(t *testing.T) {
	srv := testServer()

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/diagrams", createDiagramRequest{
		Name: "", Model: modelJSON(),
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, srv.Handler(), http.MethodPost, "/api/diagrams", createDiagramRequest{
		Name: "checkout",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing model status = %d, want 400", rec.Code)
	}
}
