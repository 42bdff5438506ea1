package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/msoler-dev/envolvente/internal/envelope"
	apierrors "github.com/msoler-dev/envolvente/internal/errors"
	"github.com/msoler-dev/envolvente/internal/geom"
	"github.com/msoler-dev/envolvente/internal/middleware"
	"github.com/msoler-dev/envolvente/internal/models"
	"github.com/msoler-dev/envolvente/internal/services"
)

// AnalysisHandler handles envelope analysis HTTP requests.
type AnalysisHandler struct {
	service services.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler instance.
func NewAnalysisHandler(service services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
	}
}

// AnalyzeRequest is the request body for the analyses endpoint. The records
// are collaborator-produced cadastral data; the engine performs no lookups
// of its own.
type AnalyzeRequest struct {
	Reference        string  `json:"reference" binding:"required,min=14,max=20"`
	TargetUnit       string  `json:"target_unit" binding:"omitempty,len=20"`
	ConstructionYear int     `json:"construction_year" binding:"omitempty,min=1700,max=2100"`
	FloorHeightM     float64 `json:"floor_height_m" binding:"omitempty,gt=0,lte=10"`

	Records   []ConstructionRecordRequest `json:"records" binding:"required,min=1,dive"`
	Parts     []BuildingPartRequest       `json:"parts" binding:"omitempty,dive"`
	Neighbors []geom.Polygon              `json:"neighbor_footprints"`
	Sketches  []FloorSketchRequest        `json:"sketches" binding:"omitempty,dive"`
}

// ConstructionRecordRequest is one per-floor construction record.
type ConstructionRecordRequest struct {
	UseLabel  string `json:"use_label" binding:"required"`
	AreaM2    int    `json:"area_m2" binding:"required,gte=0"`
	FloorCode string `json:"floor_code"`
	Door      string `json:"door"`
	Stair     string `json:"stair"`
	UnitRef   string `json:"unit_ref" binding:"required"`
}

// BuildingPartRequest is one raw building-part description.
type BuildingPartRequest struct {
	Name              string       `json:"name"`
	FloorsAbove       int          `json:"floors_above" binding:"gte=0"`
	FloorsBelow       int          `json:"floors_below" binding:"gte=0"`
	BelowGroundDepthM float64      `json:"below_ground_depth_m" binding:"gte=0"`
	Footprint         geom.Polygon `json:"footprint"`
}

// FloorSketchRequest is one floor's fine-grained sketch polygons in
// geographic coordinates, already split heated/unheated by use code.
type FloorSketchRequest struct {
	FloorCode        string         `json:"floor_code" binding:"required"`
	HeatedPolygons   []geom.Polygon `json:"heated_polygons"`
	UnheatedPolygons []geom.Polygon `json:"unheated_polygons"`
}

// AnalysisResponse wraps the analysis result.
type AnalysisResponse struct {
	Analysis *models.AnalysisResult `json:"analysis"`
}

// Analyze handles POST /api/v1/analyses.
// It estimates the thermal envelope of the referenced building or unit.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if log != nil {
		log.Info("Processing analysis request", map[string]interface{}{
			"reference":   req.Reference,
			"target_unit": req.TargetUnit,
			"records":     len(req.Records),
		})
	}

	result, err := h.service.Analyze(c.Request.Context(), mapAnalyzeRequestToInput(req))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidReference):
			apierrors.InvalidReference(c, err.Error())
		case errors.Is(err, services.ErrNoHeatedArea):
			apierrors.NoHeatedArea(c, "No heated dwelling area found for this reference")
		case errors.Is(err, services.ErrInvalidYear), errors.Is(err, services.ErrInvalidHeight):
			apierrors.BadRequest(c, err.Error(), nil)
		default:
			apierrors.InternalServerError(c, "Failed to analyze reference", err)
		}
		return
	}

	c.JSON(http.StatusOK, AnalysisResponse{Analysis: result})
}

// mapAnalyzeRequestToInput converts the request DTO into the engine input.
func mapAnalyzeRequestToInput(req AnalyzeRequest) envelope.Input {
	in := envelope.Input{
		Reference:          req.Reference,
		TargetUnit:         req.TargetUnit,
		ConstructionYear:   req.ConstructionYear,
		FloorHeightM:       req.FloorHeightM,
		NeighborFootprints: req.Neighbors,
	}

	in.Records = make([]models.ConstructionRecord, 0, len(req.Records))
	for _, r := range req.Records {
		in.Records = append(in.Records, models.ConstructionRecord{
			Use:       r.UseLabel,
			AreaM2:    r.AreaM2,
			FloorCode: r.FloorCode,
			Door:      r.Door,
			Stair:     r.Stair,
			UnitRef:   r.UnitRef,
		})
	}

	in.Parts = make([]models.RawBuildingPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		in.Parts = append(in.Parts, models.RawBuildingPart{
			Name:              p.Name,
			FloorsAbove:       p.FloorsAbove,
			FloorsBelow:       p.FloorsBelow,
			BelowGroundDepthM: p.BelowGroundDepthM,
			Footprint:         p.Footprint,
		})
	}

	in.Sketches = make([]models.FloorSketch, 0, len(req.Sketches))
	for _, s := range req.Sketches {
		in.Sketches = append(in.Sketches, models.FloorSketch{
			FloorCode:        s.FloorCode,
			HeatedPolygons:   s.HeatedPolygons,
			UnheatedPolygons: s.UnheatedPolygons,
		})
	}

	return in
}
