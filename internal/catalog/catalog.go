// Package catalog builds the ordered stage list a new interview process is
// configured with.
package catalog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BTreeMap/TalentPipe/internal/models"
	"github.com/BTreeMap/TalentPipe/internal/util"
)

// BuildStages turns an ordered list of stage configurations into fresh
// InterviewStage values: new ids, order matching position, pending status,
// no verdict, no questions. Pure construction; nothing is persisted here.
func BuildStages(configs []models.StageConfig) ([]models.InterviewStage, error) {
	if len(configs) < models.MinProcessStages || len(configs) > models.MaxProcessStages {
		slog.Debug("BuildStages rejected stage count", "count", len(configs))
		return nil, fmt.Errorf("stage count must be between %d and %d, got %d: %w",
			models.MinProcessStages, models.MaxProcessStages, len(configs), models.ErrValidation)
	}

	stages := make([]models.InterviewStage, 0, len(configs))
	for i, cfg := range configs {
		name := strings.TrimSpace(cfg.Name)
		if name == "" {
			return nil, fmt.Errorf("stage %d: name is required: %w", i, models.ErrValidation)
		}
		if !models.IsValidStageType(cfg.Type) {
			return nil, fmt.Errorf("stage %d: unknown stage type %q: %w", i, cfg.Type, models.ErrValidation)
		}
		stages = append(stages, models.InterviewStage{
			ID:        util.GenerateStageID(),
			Name:      name,
			Type:      cfg.Type,
			Order:     i,
			Status:    models.StageStatusPending,
			Questions: []models.Question{},
		})
	}
	slog.Debug("BuildStages succeeded", "count", len(stages))
	return stages, nil
}

// DefaultStages returns the product's standard three-stage configuration,
// truncated to count. Used when a process is started without explicit
// stage configuration.
func DefaultStages(count int) []models.StageConfig {
	defaults := []models.StageConfig{
		{Name: "Technical Interview", Type: models.StageTypeTechnical},
		{Name: "Behavioral Interview", Type: models.StageTypeBehavioral},
		{Name: "Final Interview", Type: models.StageTypeFinal},
	}
	if count < models.MinProcessStages {
		count = models.MinProcessStages
	}
	if count > len(defaults) {
		count = len(defaults)
	}
	return defaults[:count]
}
