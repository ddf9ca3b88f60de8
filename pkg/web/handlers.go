package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
	"github.com/dukex/leadflow/pkg/registry"
	"github.com/dukex/leadflow/pkg/workflow"
)

const defaultExecutionsLimit = 50

type APIHandlers struct {
	engine      *workflow.Engine
	tracker     *workflow.Tracker
	aggregator  *workflow.Aggregator
	templates   *workflow.TemplateCatalog
	persistence persistence.Persistence
	registry    *registry.Registry
	validator   *validator.Validate
}

func NewAPIHandlers(
	engine *workflow.Engine,
	tracker *workflow.Tracker,
	aggregator *workflow.Aggregator,
	templates *workflow.TemplateCatalog,
	persistence persistence.Persistence,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		engine:      engine,
		tracker:     tracker,
		aggregator:  aggregator,
		templates:   templates,
		persistence: persistence,
		registry:    registry,
		validator:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register mounts every route on the app. Shared between the api binary and
// the handler tests.
func (h *APIHandlers) Register(app *fiber.App) {
	w := app.Group("/workflows")
	w.Get("/", h.GetWorkflows)
	w.Post("/", h.CreateWorkflow)
	w.Get("/:id", h.GetWorkflow)
	w.Patch("/:id", h.UpdateWorkflow)
	w.Delete("/:id", h.DeleteWorkflow)
	w.Patch("/:id/status", h.UpdateWorkflowStatus)
	w.Post("/:id/execute", h.ExecuteWorkflow)
	w.Get("/:id/executions", h.GetWorkflowExecutions)
	w.Get("/:id/analytics", h.GetWorkflowAnalytics)

	app.Get("/templates", h.GetTemplates)
	app.Post("/templates", h.CreateTemplate)
	app.Get("/monitor", h.Monitor)
	app.Post("/events", h.HandleEvent)
	app.Get("/health", h.HealthCheck)
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	var status *models.WorkflowStatus

	if statusStr := c.Query("status"); statusStr != "" {
		s := models.WorkflowStatus(statusStr)
		status = &s
	}

	workflows, err := h.engine.ListWorkflows(c.Context(), c.Query("site_id"), status)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows":   workflows,
		"total_count": len(workflows),
	})
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.engine.CreateWorkflow(c.Context(), req.SiteID, &models.Workflow{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Triggers:    req.Triggers,
		Actions:     req.Actions,
		Conditions:  req.Conditions,
		Expression:  req.Expression,
		IsActive:    req.IsActive,
	}, req.CreatedBy)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	found, err := h.engine.GetWorkflow(c.Context(), id)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(found)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var patch workflow.WorkflowPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	updated, err := h.engine.UpdateWorkflow(c.Context(), id, patch)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.engine.DeleteWorkflow(c.Context(), id); err != nil {
		return handleEngineError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) UpdateWorkflowStatus(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req UpdateStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.engine.UpdateStatus(c.Context(), id, req.Status)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req ExecuteWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	execution, err := h.engine.Execute(c.Context(), id, req.Trigger, req.Input)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(ExecuteWorkflowResponse{
		ExecutionID: execution.ID,
		Status:      string(execution.Status),
		Output:      execution.Output,
	})
}

func (h *APIHandlers) GetWorkflowExecutions(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	limit := defaultExecutionsLimit

	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return badRequest(c, "Invalid limit: "+limitStr)
		}

		limit = parsed
	}

	executions, err := h.tracker.ListExecutions(c.Context(), id, limit)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"executions":  executions,
		"total_count": len(executions),
	})
}

func (h *APIHandlers) GetWorkflowAnalytics(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	analytics, err := h.aggregator.GetAutomationAnalytics(c.Context(), id)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(analytics)
}

func (h *APIHandlers) GetTemplates(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"templates": h.templates.List(),
	})
}

func (h *APIHandlers) CreateTemplate(c fiber.Ctx) error {
	var req CreateTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created := h.templates.Create(&models.WorkflowTemplate{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Triggers:    req.Triggers,
		Actions:     req.Actions,
	})

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) Monitor(c fiber.Ctx) error {
	siteID := c.Query("site_id")
	if siteID == "" {
		return badRequest(c, "site_id is required")
	}

	overviews, err := h.aggregator.Monitor(c.Context(), siteID)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows": overviews,
	})
}

func (h *APIHandlers) HandleEvent(c fiber.Ctx) error {
	var req EventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	executions, err := h.engine.HandleEvent(c.Context(), req.SiteID, req.Trigger, req.Data)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"matched":    len(executions),
		"executions": executions,
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "Leadflow API is healthy"
	httpStatus := http.StatusOK

	persistenceErr := h.persistence.HealthCheck(c.Context())
	if persistenceErr != nil {
		status = "unhealthy"
		message = "Leadflow API is unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	persistenceStatus := "ok"
	if persistenceErr != nil {
		persistenceStatus = persistenceErr.Error()
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"persistence":  persistenceStatus,
			"action_types": h.registry.ActionTypes(),
		},
		"timestamp": time.Now().UTC(),
	})
}
