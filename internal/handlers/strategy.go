package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planweaver/planweaver-backend/internal/catalog"
	"github.com/planweaver/planweaver-backend/internal/logger"
	"github.com/planweaver/planweaver-backend/internal/plan"
	"github.com/planweaver/planweaver-backend/internal/services"
	"github.com/planweaver/planweaver-backend/internal/types"
)

type StrategyHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewStrategyHandler(log *logger.Logger, catalogService services.CatalogService) *StrategyHandler {
	return &StrategyHandler{
		log:            log.With("handler", "StrategyHandler"),
		catalogService: catalogService,
	}
}

// strategyRequest is the write shape shared by create and import. InputFields
// arrive as structured JSON and are encoded into the row's JSON column.
type strategyRequest struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Section     string                 `json:"section"`
	Subsection  string                 `json:"subsection"`
	Content     string                 `json:"content"`
	InputFields []types.InputFieldSpec `json:"input_fields"`
}

func (req *strategyRequest) toStrategy() (*types.Strategy, error) {
	s := &types.Strategy{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Section:     req.Section,
		Subsection:  req.Subsection,
		Content:     req.Content,
	}
	if err := s.SetFields(req.InputFields); err != nil {
		return nil, err
	}
	return s, nil
}

type strategyUpdateRequest struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Category    *string                 `json:"category"`
	Section     *string                 `json:"section"`
	Subsection  *string                 `json:"subsection"`
	Content     *string                 `json:"content"`
	InputFields *[]types.InputFieldSpec `json:"input_fields"`
}

func (req *strategyUpdateRequest) toUpdate() services.StrategyUpdate {
	update := services.StrategyUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Section:     req.Section,
		Subsection:  req.Subsection,
		Content:     req.Content,
	}
	if req.InputFields != nil {
		fields := *req.InputFields
		if fields == nil {
			fields = []types.InputFieldSpec{}
		}
		update.InputFields = fields
	}
	return update
}

func (sh *StrategyHandler) List(c *gin.Context) {
	RespondOK(c, gin.H{"strategies": sh.catalogService.GetStrategies()})
}

func (sh *StrategyHandler) Organized(c *gin.Context) {
	filter := plan.Filter{
		SearchText: c.Query("search"),
		Section:    c.Query("section"),
	}
	RespondOK(c, gin.H{"sections": sh.catalogService.Organized(filter)})
}

func (sh *StrategyHandler) Create(c *gin.Context) {
	var req strategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	s, err := req.toStrategy()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input_fields", err)
		return
	}
	created, err := sh.catalogService.AddStrategy(c.Request.Context(), s)
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateID) {
			RespondError(c, http.StatusConflict, "duplicate_id", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "create_strategy_failed", err)
		return
	}
	RespondOK(c, gin.H{"strategy": created})
}

func (sh *StrategyHandler) Update(c *gin.Context) {
	sh.update(c, false)
}

func (sh *StrategyHandler) Delete(c *gin.Context) {
	sh.delete(c, false)
}

func (sh *StrategyHandler) ListCustom(c *gin.Context) {
	RespondOK(c, gin.H{"strategies": sh.catalogService.GetCustomStrategies()})
}

func (sh *StrategyHandler) CreateCustom(c *gin.Context) {
	var req strategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	s, err := req.toStrategy()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input_fields", err)
		return
	}
	created, err := sh.catalogService.AddCustomStrategy(c.Request.Context(), s)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_strategy_failed", err)
		return
	}
	RespondOK(c, gin.H{"strategy": created})
}

func (sh *StrategyHandler) UpdateCustom(c *gin.Context) {
	sh.update(c, true)
}

func (sh *StrategyHandler) DeleteCustom(c *gin.Context) {
	sh.delete(c, true)
}

func (sh *StrategyHandler) Export(c *gin.Context) {
	RespondOK(c, gin.H{"strategies": sh.catalogService.ExportStrategies()})
}

func (sh *StrategyHandler) Import(c *gin.Context) {
	var req struct {
		Strategies []strategyRequest `json:"strategies"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	incoming := make([]*types.Strategy, 0, len(req.Strategies))
	for i := range req.Strategies {
		s, err := req.Strategies[i].toStrategy()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_input_fields", err)
			return
		}
		incoming = append(incoming, s)
	}
	imported, err := sh.catalogService.ImportStrategies(c.Request.Context(), incoming)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "import_failed", err)
		return
	}
	RespondOK(c, gin.H{"imported": imported})
}

// update serves both route families; customOnly hides builtin rows from the
// custom-strategies endpoints with a plain 404.
func (sh *StrategyHandler) update(c *gin.Context, customOnly bool) {
	id := c.Param("id")
	if customOnly && !sh.isCustom(id) {
		RespondError(c, http.StatusNotFound, "strategy_not_found", catalog.ErrNotFound)
		return
	}

	var req strategyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	updated, err := sh.catalogService.UpdateStrategy(c.Request.Context(), id, req.toUpdate())
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "strategy_not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "update_strategy_failed", err)
		return
	}
	RespondOK(c, gin.H{"strategy": updated})
}

func (sh *StrategyHandler) delete(c *gin.Context, customOnly bool) {
	id := c.Param("id")
	if customOnly && !sh.isCustom(id) {
		RespondError(c, http.StatusNotFound, "strategy_not_found", catalog.ErrNotFound)
		return
	}

	if err := sh.catalogService.DeleteStrategy(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, catalog.ErrBuiltinStrategy):
			RespondError(c, http.StatusConflict, "builtin_not_deletable", err)
		case errors.Is(err, catalog.ErrNotFound):
			RespondError(c, http.StatusNotFound, "strategy_not_found", err)
		default:
			sh.log.Error("Delete strategy failed", "strategy_id", id, "error", err)
			RespondError(c, http.StatusInternalServerError, "delete_strategy_failed", err)
		}
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

func (sh *StrategyHandler) isCustom(id string) bool {
	s, ok := sh.catalogService.GetStrategy(id)
	return ok && s.IsCustom
}
