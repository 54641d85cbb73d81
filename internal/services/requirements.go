package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rolefit/rolefit-backend/internal/logger"
	"github.com/rolefit/rolefit-backend/internal/types"
)

// RequirementGenerator produces a role's required-skill list when none has
// been stored yet. It is a black box to the analysis engine: any failure is
// treated as "requirements unavailable" and nothing is persisted.
type RequirementGenerator interface {
	GenerateForRole(ctx context.Context, role *types.TargetRole) ([]*types.RequiredSkill, error)
}

type aiRequirementGenerator struct {
	log *logger.Logger
	ai  AIClient
}

func NewAIRequirementGenerator(log *logger.Logger, ai AIClient) RequirementGenerator {
	return &aiRequirementGenerator{
		log: log.With("service", "RequirementGenerator"),
		ai:  ai,
	}
}

const requirementSystemPrompt = `You are a career research assistant. Given a target job role, ` +
	`list the skills the role requires. For each skill give a required proficiency level from 1 ` +
	`(beginner) to 5 (expert) and a priority of critical, high, medium or low. List the most ` +
	`important skills first. Return between 5 and 15 skills.`

var requirementSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"skills": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"skill_name":     map[string]any{"type": "string"},
					"required_level": map[string]any{"type": "integer"},
					"priority":       map[string]any{"type": "string"},
				},
				"required":             []string{"skill_name", "required_level", "priority"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"skills"},
	"additionalProperties": false,
}

type generatedRequirement struct {
	SkillName     string `json:"skill_name"`
	RequiredLevel int    `json:"required_level"`
	Priority      string `json:"priority"`
}

type generatedRequirementList struct {
	Skills []generatedRequirement `json:"skills"`
}

func (g *aiRequirementGenerator) GenerateForRole(ctx context.Context, role *types.TargetRole) ([]*types.RequiredSkill, error) {
	if role == nil {
		return nil, fmt.Errorf("role required")
	}
	userPrompt := "Target role: " + role.Title
	if strings.TrimSpace(role.Description) != "" {
		userPrompt += "\nDescription: " + role.Description
	}

	obj, err := g.ai.GenerateJSON(ctx, requirementSystemPrompt, userPrompt, "role_requirements", requirementSchema)
	if err != nil {
		return nil, fmt.Errorf("generate requirements: %w", err)
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("re-encode requirements: %w", err)
	}
	var parsed generatedRequirementList
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse requirements: %w", err)
	}

	out := make([]*types.RequiredSkill, 0, len(parsed.Skills))
	for _, gs := range parsed.Skills {
		name := strings.TrimSpace(gs.SkillName)
		if name == "" {
			continue
		}
		level := gs.RequiredLevel
		if level < 1 {
			level = 1
		}
		if level > 5 {
			level = 5
		}
		priority := strings.ToLower(strings.TrimSpace(gs.Priority))
		if !types.ValidPriority(priority) {
			priority = types.PriorityMedium
		}
		out = append(out, &types.RequiredSkill{
			SkillName:     name,
			RequiredLevel: level,
			Priority:      priority,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("generator returned no usable skills")
	}
	g.log.Info("Generated role requirements", "role_id", role.ID, "count", len(out))
	return out, nil
}
