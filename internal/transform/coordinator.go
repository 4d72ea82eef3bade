// Package transform runs the full submission pipeline: classify the source,
// build a prompt, call the model, extract and validate the candidate, and
// retry with corrective feedback until the candidate passes or the attempt
// budget runs out.
package transform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/edgedev/renata/internal/ai"
	"github.com/edgedev/renata/internal/classifier"
	"github.com/edgedev/renata/internal/extractor"
	"github.com/edgedev/renata/internal/llm"
	"github.com/edgedev/renata/internal/logging"
	"github.com/edgedev/renata/internal/prompts"
	"github.com/edgedev/renata/internal/templates"
	"github.com/edgedev/renata/internal/validator"
	"github.com/edgedev/renata/pkg/models"
)

// State names one phase of the attempt loop. Success and Exhausted are
// terminal.
type State string

const (
	StateInit       State = "init"
	StateGenerating State = "generating"
	StateExtracting State = "extracting"
	StateValidating State = "validating"
	StateRetrying   State = "retrying"
	StateSuccess    State = "success"
	StateExhausted  State = "exhausted"
)

// Strictness settings for accepting a candidate.
const (
	StrictnessDeploy = "deploy" // require CanDeploy (overall >= 90)
	StrictnessGood   = "good"   // accept status good or better (overall >= 75)
)

const (
	// DefaultMaxAttempts bounds the generate/validate loop.
	DefaultMaxAttempts = 3

	// minSourceLen rejects obviously-truncated script submissions before
	// any classification or LLM spend. Build-from-scratch descriptions are
	// exempt: a terse prose request can be shorter than any real script.
	minSourceLen = 20

	goodThreshold = 75
)

var (
	ErrSourceTooShort   = errors.New("transform: source too short")
	ErrUnknownTask      = errors.New("transform: unknown task")
	ErrGenerationFailed = errors.New("transform: generation failed")
)

// Generator is the LLM boundary the coordinator calls. Satisfied by
// llm.ResilientClient.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts ai.Options) (string, llm.RetryMeta, error)
}

// Options tunes a single coordinator run.
type Options struct {
	MaxAttempts int
	Strictness  string
	JSONMode    bool
	ModelName   string // label for session logs only
	LLM         ai.Options
}

// Coordinator drives one submission through the pipeline. One instance per
// submission; concurrent submissions get independent coordinators sharing
// only the read-only template corpus.
type Coordinator struct {
	generator  Generator
	classifier *classifier.Classifier
	builder    *prompts.Builder
	validator  *validator.Validator
	logger     *logging.SessionLogger
	opts       Options

	state    State
	attempts []models.GenerationAttempt
}

// New creates a coordinator. A nil classifier or validator falls back to
// the defaults; the logger may be nil.
func New(generator Generator, cls *classifier.Classifier, val *validator.Validator, logger *logging.SessionLogger, opts Options) *Coordinator {
	if cls == nil {
		cls = classifier.New(classifier.DefaultRules())
	}
	if val == nil {
		val = validator.New(validator.DefaultWeights())
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Strictness == "" {
		opts.Strictness = StrictnessDeploy
	}
	return &Coordinator{
		generator:  generator,
		classifier: cls,
		builder:    prompts.NewBuilder(),
		validator:  val,
		logger:     logger,
		opts:       opts,
		state:      StateInit,
	}
}

// State reports the coordinator's current (or terminal) state.
func (c *Coordinator) State() State {
	return c.state
}

// Attempts returns the full attempt log for the completed run.
func (c *Coordinator) Attempts() []models.GenerationAttempt {
	return c.attempts
}

// Transform runs the attempt loop. The caller always gets a result when at
/// least one attempt completed: on exhaustion the best-scoring attempt comes
// back with FullyValidated=false rather than an error. Only input errors,
// fatal provider errors, and cancellation before any attempt surface as
// errors.
func (c *Coordinator) Transform(ctx context.Context, req models.TransformRequest) (*models.TransformResult, error) {
	if err := c.checkInput(req); err != nil {
		return nil, err
	}

	cls := c.classifier.Classify(req.Source)
	c.logger.Log("Classified as %s (confidence %.2f)", cls.Archetype, cls.Confidence)
	examples := templates.ForClassification(cls)

	var (
		best        *models.GenerationAttempt
		priorIssues []models.ValidationIssue
	)

	for attemptNum := 1; attemptNum <= c.opts.MaxAttempts; attemptNum++ {
		c.state = StateGenerating
		start := time.Now()

		prompt := c.builder.Build(prompts.BuildRequest{
			Task:         req.Task,
			Source:       req.Source,
			Instructions: req.Instructions,
			Examples:     examples,
			PriorIssues:  priorIssues,
			JSONMode:     c.opts.JSONMode,
		})
		c.logger.LogRequest(attemptNum, c.opts.ModelName, prompt)

		raw, _, err := c.generator.Generate(ctx, prompt, c.opts.LLM)
		if err != nil {
			return c.abort(ctx, cls, best, err)
		}
		c.logger.LogResponse(attemptNum, raw)

		c.state = StateExtracting
		attempt := models.GenerationAttempt{
			AttemptNumber: attemptNum,
			Prompt:        prompt,
			RawResponse:   raw,
		}

		code, extractErr := c.extract(raw)
		if extractErr != nil {
			// No scoreable code: synthesize a critical issue and spend the
			// attempt on the normal retry path.
			attempt.Report = validator.ExtractionFailureReport("no code found in response")
			attempt.Duration = time.Since(start)
			c.logger.LogError("extraction", extractErr)
		} else {
			c.state = StateValidating
			attempt.ExtractedCode = code
			attempt.Report = c.validator.Validate(code, cls)
			attempt.Duration = time.Since(start)
			c.logger.Log("Attempt %d scored %d (%s)", attemptNum, attempt.Report.OverallScore, attempt.Report.Status)
		}
		c.attempts = append(c.attempts, attempt)

		if c.accepted(attempt.Report) {
			c.state = StateSuccess
			return &models.TransformResult{
				Code:           attempt.ExtractedCode,
				Report:         attempt.Report,
				Attempts:       attemptNum,
				Classification: cls,
				FullyValidated: true,
			}, nil
		}

		// Earlier attempt wins ties, so only a strictly better score
		// displaces the current best.
		if best == nil || attempt.Report.OverallScore > best.Report.OverallScore {
			saved := attempt
			best = &saved
		}
		priorIssues = attempt.Report.Issues
		if attemptNum < c.opts.MaxAttempts {
			c.state = StateRetrying
			c.logger.LogSection(fmt.Sprintf("Retrying with %d issues", len(priorIssues)))
		}
	}

	c.state = StateExhausted
	c.logger.Log("Attempt budget exhausted; returning best attempt (score %d)", best.Report.OverallScore)
	return c.exhaustedResult(cls, best), nil
}

func (c *Coordinator) checkInput(req models.TransformRequest) error {
	switch req.Task {
	case models.TaskFormat, models.TaskBuildFromScratch, models.TaskModify:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTask, req.Task)
	}
	if req.Task != models.TaskBuildFromScratch && len(strings.TrimSpace(req.Source)) < minSourceLen {
		return fmt.Errorf("%w (need at least %d characters)", ErrSourceTooShort, minSourceLen)
	}
	return nil
}

func (c *Coordinator) extract(raw string) (string, error) {
	var (
		code string
		err  error
	)
	if c.opts.JSONMode {
		code, _, err = extractor.ExtractStructured(raw)
	} else {
		code, err = extractor.Extract(raw)
	}
	if err != nil {
		return "", err
	}
	if err := extractor.CheckPlausible(code); err != nil {
		return "", err
	}
	return code, nil
}

func (c *Coordinator) accepted(report models.ValidationReport) bool {
	if report.CanDeploy {
		return true
	}
	return c.opts.Strictness == StrictnessGood && report.OverallScore >= goodThreshold
}

// abort handles a failed generation call: cancellation and fatal provider
// errors both terminate the loop, falling back to the best attempt so far
// when one exists.
func (c *Coordinator) abort(ctx context.Context, cls models.ClassificationResult, best *models.GenerationAttempt, err error) (*models.TransformResult, error) {
	c.state = StateExhausted
	c.logger.LogError("generation", err)

	if ctx.Err() != nil {
		if best != nil {
			return c.exhaustedResult(cls, best), nil
		}
		return nil, fmt.Errorf("transform: cancelled before any attempt completed: %w", ctx.Err())
	}
	if ai.IsFatal(err) {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if best != nil {
		return c.exhaustedResult(cls, best), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
}

func (c *Coordinator) exhaustedResult(cls models.ClassificationResult, best *models.GenerationAttempt) *models.TransformResult {
	return &models.TransformResult{
		Code:           best.ExtractedCode,
		Report:         best.Report,
		Attempts:       len(c.attempts),
		Classification: cls,
		FullyValidated: false,
	}
}
