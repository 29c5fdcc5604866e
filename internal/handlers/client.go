package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/planweaver/planweaver-backend/internal/logger"
	"github.com/planweaver/planweaver-backend/internal/services"
	"github.com/planweaver/planweaver-backend/internal/types"
)

type ClientHandler struct {
	log           *logger.Logger
	clientService services.ClientService
}

func NewClientHandler(log *logger.Logger, clientService services.ClientService) *ClientHandler {
	return &ClientHandler{
		log:           log.With("handler", "ClientHandler"),
		clientService: clientService,
	}
}

func (ch *ClientHandler) Create(c *gin.Context) {
	var req struct {
		Name                   string                       `json:"name"`
		Data                   json.RawMessage              `json:"data"`
		StrategyConfigurations []types.ClientStrategyConfig `json:"strategy_configurations"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	profile, err := ch.clientService.CreateClient(c.Request.Context(), req.Name, req.Data, req.StrategyConfigurations)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_client_failed", err)
		return
	}
	RespondOK(c, gin.H{"client": profile})
}

func (ch *ClientHandler) List(c *gin.Context) {
	profiles, err := ch.clientService.ListClients(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	if profiles == nil {
		profiles = []*types.ClientProfile{}
	}
	RespondOK(c, gin.H{"clients": profiles})
}

func (ch *ClientHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_client_id", err)
		return
	}
	profile, err := ch.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "client_not_found", err)
		return
	}
	RespondOK(c, gin.H{"client": profile})
}

func (ch *ClientHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_client_id", err)
		return
	}
	var req struct {
		Name                   *string                      `json:"name"`
		Data                   json.RawMessage              `json:"data"`
		StrategyConfigurations []types.ClientStrategyConfig `json:"strategy_configurations"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	profile, err := ch.clientService.UpdateClient(c.Request.Context(), id, services.ClientUpdate{
		Name:                   req.Name,
		Data:                   req.Data,
		StrategyConfigurations: req.StrategyConfigurations,
	})
	if err != nil {
		RespondError(c, http.StatusNotFound, "client_not_found", err)
		return
	}
	RespondOK(c, gin.H{"client": profile})
}
