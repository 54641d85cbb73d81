package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/rolefit/rolefit-backend/internal/services"
	"github.com/rolefit/rolefit-backend/internal/types"
)

type AnalysisHandler struct {
	analysisService services.AnalysisService
}

func NewAnalysisHandler(analysisService services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// Recompute runs the full matching pipeline for the caller against the role
// and returns the freshly stored analysis.
func (ah *AnalysisHandler) Recompute(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roleID, ok := roleIDParam(c)
	if !ok {
		return
	}
	analysis, err := ah.analysisService.Recompute(c.Request.Context(), userID, roleID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, analysisPayload(analysis))
}

// GetLatest returns the stored analysis without recomputing. 404 means the
// pair was never analyzed; clients should POST first.
func (ah *AnalysisHandler) GetLatest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roleID, ok := roleIDParam(c)
	if !ok {
		return
	}
	analysis, err := ah.analysisService.GetLatest(c.Request.Context(), userID, roleID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, analysisPayload(analysis))
}

func analysisPayload(analysis *types.SkillGapAnalysis) gin.H {
	return gin.H{
		"role_id":           analysis.RoleID,
		"user_id":           analysis.UserID,
		"overall_readiness": analysis.OverallReadiness,
		"critical_gaps":     analysis.CriticalGaps,
		"recommendations":   analysis.Recommendations,
		"skill_matches":     analysis.SkillMatches,
		"analyzed_at":       analysis.AnalyzedAt,
	}
}
