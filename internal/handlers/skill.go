package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rolefit/rolefit-backend/internal/requestdata"
	"github.com/rolefit/rolefit-backend/internal/services"
	"github.com/rolefit/rolefit-backend/internal/types"
)

type SkillHandler struct {
	skillService services.SkillProfileService
}

func NewSkillHandler(skillService services.SkillProfileService) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing session"))
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func (sh *SkillHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	records, err := sh.skillService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"skills": records})
}

func (sh *SkillHandler) Upsert(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		SkillName        string `json:"skill_name"`
		ProficiencyLevel int    `json:"proficiency_level"`
		Source           string `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	record, err := sh.skillService.UpsertSkill(c.Request.Context(), userID, req.SkillName, req.ProficiencyLevel, req.Source)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"skill": record})
}

func (sh *SkillHandler) UpsertBatch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Skills []struct {
			SkillName        string `json:"skill_name"`
			ProficiencyLevel int    `json:"proficiency_level"`
			Source           string `json:"source"`
		} `json:"skills"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	records := make([]*types.SkillRecord, 0, len(req.Skills))
	for _, s := range req.Skills {
		records = append(records, &types.SkillRecord{
			SkillName:        s.SkillName,
			ProficiencyLevel: s.ProficiencyLevel,
			Source:           s.Source,
		})
	}
	if err := sh.skillService.UpsertSkills(c.Request.Context(), userID, records); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"count": len(records)})
}

func (sh *SkillHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid skill id"))
		return
	}
	if err := sh.skillService.RemoveSkill(c.Request.Context(), userID, recordID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": recordID})
}
