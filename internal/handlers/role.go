package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rolefit/rolefit-backend/internal/services"
	"github.com/rolefit/rolefit-backend/internal/types"
)

type RoleHandler struct {
	roleService services.RoleService
}

func NewRoleHandler(roleService services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func roleIDParam(c *gin.Context) (uuid.UUID, bool) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid role id"))
		return uuid.Nil, false
	}
	return roleID, true
}

func (rh *RoleHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Requirements []struct {
			SkillName     string `json:"skill_name"`
			RequiredLevel int    `json:"required_level"`
			Priority      string `json:"priority"`
		} `json:"requirements"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	requirements := make([]*types.RequiredSkill, 0, len(req.Requirements))
	for _, r := range req.Requirements {
		requirements = append(requirements, &types.RequiredSkill{
			SkillName:     r.SkillName,
			RequiredLevel: r.RequiredLevel,
			Priority:      r.Priority,
		})
	}
	role, err := rh.roleService.CreateRole(c.Request.Context(), userID, req.Title, req.Description, requirements)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"role": role})
}

func (rh *RoleHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roles, err := rh.roleService.ListRoles(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"roles": roles})
}

func (rh *RoleHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roleID, ok := roleIDParam(c)
	if !ok {
		return
	}
	role, err := rh.roleService.GetRole(c.Request.Context(), userID, roleID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"role": role})
}

func (rh *RoleHandler) ListRequirements(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roleID, ok := roleIDParam(c)
	if !ok {
		return
	}
	requirements, err := rh.roleService.ListRequirements(c.Request.Context(), userID, roleID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"requirements": requirements})
}
