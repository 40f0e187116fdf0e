package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/viz-backend/internal/dto"
	"github.com/GregMSThompson/viz-backend/internal/models"
	"github.com/GregMSThompson/viz-backend/internal/response"
)

type catalogHandlers struct {
	ResponseHandler response.ResponseHandler
}

func NewCatalogHandlers(deps *Deps) *catalogHandlers {
	return &catalogHandlers{ResponseHandler: deps.ResponseHandler}
}

func (h *catalogHandlers) CatalogRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetCatalog)
	return r
}

// GetCatalog returns the selectable component hints and the quick prompt suggestions.
func (h *catalogHandlers) GetCatalog(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, catalog())
}

func catalog() dto.CatalogResponse {
	kinds := models.ComponentKinds()
	components := make([]string, 0, len(kinds)+1)
	components = append(components, models.ComponentAuto)
	for _, k := range kinds {
		components = append(components, string(k))
	}
	return dto.CatalogResponse{
		Components:  components,
		Suggestions: quickSuggestions,
	}
}

var quickSuggestions = []dto.PromptSuggestion{
	{Text: "Show user analytics for last 30 days", Icon: "👥"},
	{Text: "Display revenue trends this quarter", Icon: "💰"},
	{Text: "Create performance metrics dashboard", Icon: "📊"},
	{Text: "Show top performing products", Icon: "🏆"},
	{Text: "Display customer satisfaction scores", Icon: "😊"},
	{Text: "Show website traffic analytics", Icon: "🌐"},
}
