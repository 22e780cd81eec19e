package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/excellense/api/internal/core/domain"
	"github.com/excellense/api/internal/core/ports"
)

type AnalysisHandler struct {
	service ports.AnalysisService
}

func NewAnalysisHandler(service ports.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

type saveAnalysisRequest struct {
	UploadID         string `json:"upload_id"          validate:"required"`
	ChartType        string `json:"chart_type"         validate:"required"`
	XAxis            string `json:"x_axis"             validate:"required"`
	YAxis            string `json:"y_axis"             validate:"required"`
	Summary          string `json:"summary"            validate:"required"`
	ChartImageBase64 string `json:"chart_image_base64" validate:"omitempty,base64"`
}

type analysisResponse struct {
	Message  string                `json:"message"`
	Analysis *domain.ChartAnalysis `json:"analysis"`
}

// Save stores an AI chart summary for the caller.
//
// @Summary      Save a chart analysis
// @Tags         chart-analysis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveAnalysisRequest  true  "Chart analysis"
// @Success      201   {object}  analysisResponse
// @Failure      401   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/chart-analysis [post]
func (h *AnalysisHandler) Save(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	var req saveAnalysisRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	saved, err := h.service.Save(c.Request().Context(), who, ports.SaveAnalysisInput{
		UploadID:         req.UploadID,
		ChartType:        req.ChartType,
		XAxis:            req.XAxis,
		YAxis:            req.YAxis,
		Summary:          req.Summary,
		ChartImageBase64: req.ChartImageBase64,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, analysisResponse{Message: "Chart analysis saved successfully", Analysis: saved})
}

// ListOwn returns the caller's analyses, newest first.
//
// @Summary      List my chart analyses
// @Tags         chart-analysis
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.ChartAnalysis
// @Failure      401  {object}  messageResponse
// @Router       /api/chart-analysis [get]
func (h *AnalysisHandler) ListOwn(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	list, err := h.service.ListOwn(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(list))
}
