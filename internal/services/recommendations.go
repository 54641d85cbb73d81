package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rolefit/rolefit-backend/internal/logger"
	"github.com/rolefit/rolefit-backend/internal/types"
)

// GapRecommendations is remediation text for one analysis: role-level
// guidance plus per-skill suggestions keyed by the required skill's exact
// name.
type GapRecommendations struct {
	RoleLevel []string
	PerSkill  map[string][]string
}

// RecommendationGenerator enriches a computed gap list with remediation
// text. It is enrichment only: the analysis engine degrades to empty
// recommendations when this collaborator fails.
type RecommendationGenerator interface {
	GenerateForGaps(ctx context.Context, role *types.TargetRole, gaps []types.SkillGap) (*GapRecommendations, error)
}

type aiRecommendationGenerator struct {
	log *logger.Logger
	ai  AIClient
}

func NewAIRecommendationGenerator(log *logger.Logger, ai AIClient) RecommendationGenerator {
	return &aiRecommendationGenerator{
		log: log.With("service", "RecommendationGenerator"),
		ai:  ai,
	}
}

const recommendationSystemPrompt = `You are a career coach. Given a target role and the user's ` +
	`skill gaps, suggest concrete ways to close each gap (courses, projects, practice) and two or ` +
	`three role-level next steps. Keep each suggestion to one sentence. Use each gap's skill name ` +
	`verbatim as the key.`

var recommendationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"role_level": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"per_skill": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"skill_name": map[string]any{"type": "string"},
					"suggestions": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required":             []string{"skill_name", "suggestions"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"role_level", "per_skill"},
	"additionalProperties": false,
}

type generatedRecommendations struct {
	RoleLevel []string `json:"role_level"`
	PerSkill  []struct {
		SkillName   string   `json:"skill_name"`
		Suggestions []string `json:"suggestions"`
	} `json:"per_skill"`
}

func (g *aiRecommendationGenerator) GenerateForGaps(ctx context.Context, role *types.TargetRole, gaps []types.SkillGap) (*GapRecommendations, error) {
	if role == nil {
		return nil, fmt.Errorf("role required")
	}
	if len(gaps) == 0 {
		return &GapRecommendations{PerSkill: map[string][]string{}}, nil
	}

	var b strings.Builder
	b.WriteString("Target role: ")
	b.WriteString(role.Title)
	b.WriteString("\nSkill gaps:\n")
	for _, gap := range gaps {
		fmt.Fprintf(&b, "- %s: current level %d, required level %d, priority %s\n",
			gap.SkillName, gap.CurrentLevel, gap.RequiredLevel, gap.Priority)
	}

	obj, err := g.ai.GenerateJSON(ctx, recommendationSystemPrompt, b.String(), "gap_recommendations", recommendationSchema)
	if err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("re-encode recommendations: %w", err)
	}
	var parsed generatedRecommendations
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse recommendations: %w", err)
	}

	out := &GapRecommendations{
		RoleLevel: parsed.RoleLevel,
		PerSkill:  make(map[string][]string, len(parsed.PerSkill)),
	}
	for _, ps := range parsed.PerSkill {
		name := strings.TrimSpace(ps.SkillName)
		if name == "" || len(ps.Suggestions) == 0 {
			continue
		}
		out.PerSkill[name] = ps.Suggestions
	}
	return out, nil
}
