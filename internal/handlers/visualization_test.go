package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/viz-backend/internal/dto"
	"github.com/GregMSThompson/viz-backend/internal/errs"
	"github.com/GregMSThompson/viz-backend/internal/models"
)

// --- Stubs ---

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data
	w.WriteHeader(status)
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, _, _ string) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

type stubVisualizationService struct {
	generateViz    *models.Visualization
	generateErr    error
	lastPrompt     string
	lastHint       string
	list           []models.Visualization
	getViz         *models.Visualization
	getErr         error
	lastGetID      string
	lastRemoveID   string
	clearCalled    bool
	renderResp     dto.RenderInstruction
	renderErr      error
	renderAll      []dto.RenderInstruction
	exportName     string
	exportBody     []byte
	exportErr      error
	importViz      *models.Visualization
	importErr      error
	lastImportBody string
}

func (s *stubVisualizationService) GenerateVisualization(_ context.Context, userText, hint string) (*models.Visualization, error) {
	s.lastPrompt = userText
	s.lastHint = hint
	return s.generateViz, s.generateErr
}

func (s *stubVisualizationService) ListVisualizations(_ context.Context) []models.Visualization {
	return s.list
}

func (s *stubVisualizationService) GetVisualization(_ context.Context, id string) (*models.Visualization, error) {
	s.lastGetID = id
	return s.getViz, s.getErr
}

func (s *stubVisualizationService) RemoveVisualization(_ context.Context, id string) {
	s.lastRemoveID = id
}

func (s *stubVisualizationService) ClearVisualizations(_ context.Context) {
	s.clearCalled = true
}

func (s *stubVisualizationService) RenderVisualization(_ context.Context, _ string) (dto.RenderInstruction, error) {
	return s.renderResp, s.renderErr
}

func (s *stubVisualizationService) RenderAll(_ context.Context) []dto.RenderInstruction {
	return s.renderAll
}

func (s *stubVisualizationService) ExportVisualization(_ context.Context, _ string) (string, []byte, error) {
	return s.exportName, s.exportBody, s.exportErr
}

func (s *stubVisualizationService) ImportVisualization(_ context.Context, raw string) (*models.Visualization, error) {
	s.lastImportBody = raw
	return s.importViz, s.importErr
}

// withChiParam injects a chi URL parameter into the request context.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func newTestHandlers(svc *stubVisualizationService, resp *stubResponseHandler) *visualizationHandlers {
	return NewVisualizationHandlers(&Deps{ResponseHandler: resp, VisualizationSvc: svc})
}

// --- Tests ---

func TestGenerateVisualization_OK(t *testing.T) {
	svc := &stubVisualizationService{generateViz: &models.Visualization{ID: "v1"}}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	body := `{"prompt":"Show me quarterly revenue","component":"LineChart"}`
	req := httptest.NewRequest(http.MethodPost, "/visualizations", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.GenerateVisualization(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected WriteSuccess with 201, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastPrompt != "Show me quarterly revenue" || svc.lastHint != "LineChart" {
		t.Errorf("unexpected args passed to service: %q %q", svc.lastPrompt, svc.lastHint)
	}
}

func TestGenerateVisualization_InvalidJSON(t *testing.T) {
	svc := &stubVisualizationService{}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	req := httptest.NewRequest(http.MethodPost, "/visualizations", strings.NewReader("not-json"))
	rr := httptest.NewRecorder()
	h.GenerateVisualization(rr, req)

	if _, ok := resp.handleError.(*errs.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", resp.handleError)
	}
	if svc.lastPrompt != "" {
		t.Error("service should not be called on invalid body")
	}
}

func TestGenerateVisualization_BodyTooLarge(t *testing.T) {
	svc := &stubVisualizationService{}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	body := `{"prompt":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/visualizations", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.GenerateVisualization(rr, req)

	if _, ok := resp.handleError.(*errs.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", resp.handleError)
	}
	if svc.lastPrompt != "" {
		t.Error("service should not be called on an oversized body")
	}
}

func TestGenerateVisualization_ServiceError(t *testing.T) {
	svc := &stubVisualizationService{generateErr: errs.NewValidationError("prompt is required")}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	req := httptest.NewRequest(http.MethodPost, "/visualizations", strings.NewReader(`{"prompt":""}`))
	rr := httptest.NewRecorder()
	h.GenerateVisualization(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError to be called")
	}
}

func TestListVisualizations(t *testing.T) {
	svc := &stubVisualizationService{list: []models.Visualization{{ID: "a"}, {ID: "b"}}}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	rr := httptest.NewRecorder()
	h.ListVisualizations(rr, httptest.NewRequest(http.MethodGet, "/visualizations", nil))

	list, ok := resp.writeSuccessData.([]models.Visualization)
	if !ok || len(list) != 2 {
		t.Fatalf("expected two visualizations, got %#v", resp.writeSuccessData)
	}
}

func TestGetVisualization_NotFound(t *testing.T) {
	svc := &stubVisualizationService{getErr: errs.NewNotFoundError("visualization not found")}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	req := httptest.NewRequest(http.MethodGet, "/visualizations/v9", nil)
	req = withChiParam(req, "visualizationId", "v9")
	rr := httptest.NewRecorder()
	h.GetVisualization(rr, req)

	if svc.lastGetID != "v9" {
		t.Errorf("expected id v9, got %q", svc.lastGetID)
	}
	if _, ok := resp.handleError.(*errs.NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %T", resp.handleError)
	}
}

func TestRemoveVisualization(t *testing.T) {
	svc := &stubVisualizationService{}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	req := httptest.NewRequest(http.MethodDelete, "/visualizations/v1", nil)
	req = withChiParam(req, "visualizationId", "v1")
	rr := httptest.NewRecorder()
	h.RemoveVisualization(rr, req)

	if svc.lastRemoveID != "v1" {
		t.Errorf("expected remove of v1, got %q", svc.lastRemoveID)
	}
	if resp.writeSuccessStatus != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.writeSuccessStatus)
	}
}

func TestClearVisualizations(t *testing.T) {
	svc := &stubVisualizationService{}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	rr := httptest.NewRecorder()
	h.ClearVisualizations(rr, httptest.NewRequest(http.MethodDelete, "/visualizations", nil))

	if !svc.clearCalled {
		t.Fatal("expected ClearVisualizations to be called")
	}
}

func TestRenderVisualization(t *testing.T) {
	svc := &stubVisualizationService{renderResp: dto.RenderInstruction{VisualizationID: "v1", Widget: models.KindCard}}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	req := httptest.NewRequest(http.MethodGet, "/visualizations/v1/render", nil)
	req = withChiParam(req, "visualizationId", "v1")
	rr := httptest.NewRecorder()
	h.RenderVisualization(rr, req)

	ri, ok := resp.writeSuccessData.(dto.RenderInstruction)
	if !ok || ri.Widget != models.KindCard {
		t.Fatalf("unexpected render data: %#v", resp.writeSuccessData)
	}
}

func TestExportVisualization(t *testing.T) {
	svc := &stubVisualizationService{
		exportName: "Quarterly Revenue-v1.json",
		exportBody: []byte("{\n  \"id\": \"v1\"\n}"),
	}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	req := httptest.NewRequest(http.MethodGet, "/visualizations/v1/export", nil)
	req = withChiParam(req, "visualizationId", "v1")
	rr := httptest.NewRecorder()
	h.ExportVisualization(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Disposition"); !strings.Contains(got, "attachment") || !strings.Contains(got, "Quarterly Revenue-v1.json") {
		t.Errorf("unexpected Content-Disposition: %q", got)
	}
	if rr.Body.String() != string(svc.exportBody) {
		t.Errorf("unexpected body: %q", rr.Body.String())
	}
}

func TestExportVisualization_NotFound(t *testing.T) {
	svc := &stubVisualizationService{exportErr: errs.NewNotFoundError("visualization not found")}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	req := httptest.NewRequest(http.MethodGet, "/visualizations/x/export", nil)
	req = withChiParam(req, "visualizationId", "x")
	rr := httptest.NewRecorder()
	h.ExportVisualization(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError to be called")
	}
}

func TestImportVisualization(t *testing.T) {
	svc := &stubVisualizationService{importViz: &models.Visualization{ID: "v2"}}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	body := `{"type":"BarChart","data":[{"name":"a","value":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/visualizations/import", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ImportVisualization(rr, req)

	if svc.lastImportBody != body {
		t.Errorf("unexpected import body %q", svc.lastImportBody)
	}
	if resp.writeSuccessStatus != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.writeSuccessStatus)
	}
}

func TestImportVisualization_BodyTooLarge(t *testing.T) {
	svc := &stubVisualizationService{}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	body := strings.Repeat(" ", maxBodyBytes+1)
	req := httptest.NewRequest(http.MethodPost, "/visualizations/import", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ImportVisualization(rr, req)

	if _, ok := resp.handleError.(*errs.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", resp.handleError)
	}
	if svc.lastImportBody != "" {
		t.Error("service should not be called on an oversized body")
	}
}

func TestVisualizationRoutes_RenderAllNotShadowed(t *testing.T) {
	svc := &stubVisualizationService{renderAll: []dto.RenderInstruction{{VisualizationID: "a"}}}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, resp)

	rr := httptest.NewRecorder()
	h.VisualizationRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/render", nil))

	if svc.lastGetID != "" {
		t.Fatalf("render-all was routed to GetVisualization with id %q", svc.lastGetID)
	}
	if _, ok := resp.writeSuccessData.([]dto.RenderInstruction); !ok {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
}

func TestCatalog(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewCatalogHandlers(&Deps{ResponseHandler: resp})

	rr := httptest.NewRecorder()
	h.GetCatalog(rr, httptest.NewRequest(http.MethodGet, "/catalog", nil))

	c, ok := resp.writeSuccessData.(dto.CatalogResponse)
	if !ok {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
	if c.Components[0] != models.ComponentAuto || len(c.Components) != 8 {
		t.Errorf("unexpected components: %v", c.Components)
	}
	if len(c.Suggestions) == 0 {
		t.Error("expected suggestions")
	}
}
