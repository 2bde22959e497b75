package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-lead-orchestrator/internal/compliance"
	"realestate-lead-orchestrator/internal/models"
	"realestate-lead-orchestrator/internal/orchestrator"
	"realestate-lead-orchestrator/internal/session"
)

// InboundHandler exposes the Inbound API (§6): handle-inbound, process-opt-out,
// compliance-status, and session, the only human-facing surface a lead's
// messages ever pass through.
type InboundHandler struct {
	orchestrator *orchestrator.Orchestrator
	sessions     *session.Store
	compliance   *compliance.Gate
}

// NewInboundHandler creates a new inbound handler.
func NewInboundHandler(o *orchestrator.Orchestrator, sessions *session.Store, gate *compliance.Gate) *InboundHandler {
	return &InboundHandler{orchestrator: o, sessions: sessions, compliance: gate}
}

// HandleInboundRequest is the handle-inbound request body.
type HandleInboundRequest struct {
	LeadID       string          `json:"leadID" binding:"required"`
	LeadName     string          `json:"leadName"`
	Channel      models.Channel  `json:"channel" binding:"required"`
	Content      string          `json:"content" binding:"required"`
	Phone        string          `json:"phone"`
	LeadKindHint models.LeadKind `json:"leadKindHint"`
	TenantID     string          `json:"tenantID"`
}

// HandleInboundResponse is the handle-inbound response body.
type HandleInboundResponse struct {
	OutboundPlan    models.OutboundPlan `json:"outboundPlan"`
	SessionSnapshot *models.Session     `json:"sessionSnapshot"`
	Events          []models.Event      `json:"events"`
}

// HandleInbound handles POST /handle-inbound.
func (h *InboundHandler) HandleInbound(c *gin.Context) {
	var req HandleInboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.orchestrator.HandleInbound(c.Request.Context(), orchestrator.Request{
		LeadID:       req.LeadID,
		LeadName:     req.LeadName,
		Channel:      req.Channel,
		Content:      req.Content,
		Phone:        req.Phone,
		LeadKindHint: req.LeadKindHint,
		TenantID:     req.TenantID,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, HandleInboundResponse{
		OutboundPlan:    result.Plan,
		SessionSnapshot: result.Session,
		Events:          result.Events,
	})
}

// ProcessOptOutRequest is the process-opt-out request body.
type ProcessOptOutRequest struct {
	Phone  string              `json:"phone" binding:"required"`
	Reason models.OptOutReason `json:"reason" binding:"required"`
}

// ProcessOptOut handles POST /process-opt-out.
func (h *InboundHandler) ProcessOptOut(c *gin.Context) {
	var req ProcessOptOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.compliance.ProcessOptOut(req.Phone, req.Reason)
	c.JSON(http.StatusOK, gin.H{})
}

// ComplianceStatus handles GET /compliance-status?phone=….
func (h *InboundHandler) ComplianceStatus(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone is required"})
		return
	}
	c.JSON(http.StatusOK, h.compliance.Status(phone))
}

// Session handles GET /session?leadID=….
func (h *InboundHandler) Session(c *gin.Context) {
	leadID := c.Query("leadID")
	if leadID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "leadID is required"})
		return
	}
	snapshot, ok := h.sessions.Snapshot(leadID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
