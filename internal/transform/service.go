package transform

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edgedev/renata/internal/ai"
	"github.com/edgedev/renata/internal/classifier"
	"github.com/edgedev/renata/internal/config"
	"github.com/edgedev/renata/internal/llm"
	"github.com/edgedev/renata/internal/logging"
	"github.com/edgedev/renata/internal/retry"
	"github.com/edgedev/renata/internal/validator"
	"github.com/edgedev/renata/pkg/models"
)

// Service assembles coordinators from configuration. It is the shared
// entry point for the CLI and the HTTP API: one Service per process, one
// coordinator per submission.
type Service struct {
	cfg        *config.Config
	provider   ai.Provider
	classifier *classifier.Classifier
	validator  *validator.Validator
}

// NewService builds a service around a provider. A rules file configured
// in general.rules_file overrides the built-in classification table.
func NewService(cfg *config.Config, provider ai.Provider) (*Service, error) {
	rules := classifier.DefaultRules()
	if cfg.General.RulesFile != "" {
		loaded, err := classifier.LoadRules(cfg.General.RulesFile)
		if err != nil {
			return nil, err
		}
		rules = loaded
		log.Info().Str("path", cfg.General.RulesFile).Int("rules", len(loaded)).Msg("Loaded classifier rule table")
	}

	return &Service{
		cfg:        cfg,
		provider:   provider,
		classifier: classifier.New(rules),
		validator: validator.New(validator.Weights{
			Structure: cfg.Validator.StructureWeight,
			Syntax:    cfg.Validator.SyntaxWeight,
			Logic:     cfg.Validator.LogicWeight,
		}),
	}, nil
}

// Classify exposes the classifier without running the full pipeline.
func (s *Service) Classify(source string) models.ClassificationResult {
	return s.classifier.Classify(source)
}

// Run executes one transform submission end to end and returns the result
// together with the full attempt log. Session artifacts land in
// general.log_dir when configured.
func (s *Service) Run(ctx context.Context, req models.TransformRequest, sessionID string) (*models.TransformResult, []models.GenerationAttempt, error) {
	var sessionLogger *logging.SessionLogger
	if s.cfg.General.LogDir != "" {
		sl, err := logging.StartSessionLogging(s.cfg.General.LogDir, sessionID)
		if err != nil {
			log.Warn().Err(err).Msg("Session log unavailable; continuing without it")
		} else {
			sessionLogger = sl
			defer sessionLogger.Close()
		}
	}

	retryConfig := retry.Config{
		MaxRetries: s.cfg.Retry.MaxRetries,
		BaseDelay:  time.Duration(s.cfg.Retry.BaseDelayMS) * time.Millisecond,
		MaxDelay:   time.Duration(s.cfg.Retry.MaxDelayMS) * time.Millisecond,
		Multiplier: s.cfg.Retry.Multiplier,
		Jitter:     s.cfg.Retry.Jitter,
		LogRetries: true,
	}
	client := llm.NewResilientClient(s.provider, retryConfig, s.cfg.LLMTimeout(), sessionLogger)

	maxAttempts := s.cfg.General.MaxAttempts
	if req.MaxAttempts > 0 {
		maxAttempts = req.MaxAttempts
	}
	strictness := s.cfg.General.Strictness
	if req.Strictness != "" {
		strictness = req.Strictness
	}

	coordinator := New(client, s.classifier, s.validator, sessionLogger, Options{
		MaxAttempts: maxAttempts,
		Strictness:  strictness,
		JSONMode:    s.cfg.LLM.JSONMode,
		ModelName:   s.cfg.LLM.Model,
		LLM: ai.Options{
			Temperature: s.cfg.LLM.Temperature,
			MaxTokens:   s.cfg.LLM.MaxTokens,
		},
	})

	result, err := coordinator.Transform(ctx, req)
	if err != nil {
		return nil, coordinator.Attempts(), err
	}

	log.Info().
		Str("session", sessionID).
		Str("archetype", string(result.Classification.Archetype)).
		Int("attempts", result.Attempts).
		Int("score", result.Report.OverallScore).
		Bool("fully_validated", result.FullyValidated).
		Msg("Transform complete")
	return result, coordinator.Attempts(), nil
}
