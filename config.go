package peergrade

import (
	"fmt"
	"time"
)

// Config is the per-peerforum configuration for the Engine.
//
// All duration fields accept standard Go duration strings like "72h" in yaml.
type Config struct {
	// CourseID is the course this forum instance belongs to.
	CourseID int64 `yaml:"courseId"`

	// PeerforumID identifies the forum instance.
	PeerforumID int64 `yaml:"peerforumId"`

	// MinReviewers is the completed-review quorum for a submission to be
	// considered finished.
	MinReviewers int `yaml:"minReviewers"`

	// MaxReviewers is the number of reviewers the coordinator tries to
	// match to each new submission.
	MaxReviewers int `yaml:"maxReviewers"`

	// GradingWindow is how long a reviewer has to grade a pending match
	// before it expires. A zero window disables expiration and makes sweep
	// report a configuration error per match.
	GradingWindow time.Duration `yaml:"gradingWindow"`

	// AutoAssignReplies makes replies inherit the reviewer set of the
	// nearest ancestor that already has reviewers.
	AutoAssignReplies bool `yaml:"autoAssignReplies"`

	// ThreadedGrading switches assignment to the topic-affinity selector.
	ThreadedGrading bool `yaml:"threadedGrading"`

	// FinishGrading enables the completion evaluator. When off, IsFinished
	// always reports false.
	FinishGrading bool `yaml:"finishGrading"`

	// MaxAncestorDepth caps the reply-chain walk during reviewer
	// inheritance. Exceeding it is treated as data corruption.
	MaxAncestorDepth int `yaml:"maxAncestorDepth"`

	// TopicTargetBase is the fixed-reviewer target per topic when the
	// distribution config asks for a single student per topic.
	TopicTargetBase int `yaml:"topicTargetBase"`

	// TopicTargetFactor scales studentsPerTopicTarget into the
	// fixed-reviewer target per topic otherwise.
	TopicTargetFactor int `yaml:"topicTargetFactor"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Course and forum ids are zero and must be set by the caller.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		MinReviewers:      2,
		MaxReviewers:      5,
		GradingWindow:     7 * 24 * time.Hour,
		MaxAncestorDepth:  64,
		TopicTargetBase:   6,
		TopicTargetFactor: 5,
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.MinReviewers == 0 {
		cfg.MinReviewers = defaults.MinReviewers
	}
	if cfg.MaxReviewers == 0 {
		cfg.MaxReviewers = defaults.MaxReviewers
	}
	if cfg.MaxAncestorDepth == 0 {
		cfg.MaxAncestorDepth = defaults.MaxAncestorDepth
	}
	if cfg.TopicTargetBase == 0 {
		cfg.TopicTargetBase = defaults.TopicTargetBase
	}
	if cfg.TopicTargetFactor == 0 {
		cfg.TopicTargetFactor = defaults.TopicTargetFactor
	}
	// Note: GradingWindow of 0 is valid (expiration disabled), so we don't
	// apply a default.
}

// Validate checks configuration constraints and returns an error for invalid values.
//
// Hard Validation Rules:
//   - CourseID and PeerforumID must be set
//   - MinReviewers >= 1 and MaxReviewers >= MinReviewers
//   - GradingWindow >= 0
//   - MaxAncestorDepth >= 1
//   - TopicTargetBase >= 1 and TopicTargetFactor >= 1
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.CourseID <= 0 {
		return fmt.Errorf("CourseID must be set, got %d", cfg.CourseID)
	}
	if cfg.PeerforumID <= 0 {
		return fmt.Errorf("PeerforumID must be set, got %d", cfg.PeerforumID)
	}
	if cfg.MinReviewers < 1 {
		return fmt.Errorf("MinReviewers must be >= 1, got %d", cfg.MinReviewers)
	}
	if cfg.MaxReviewers < cfg.MinReviewers {
		return fmt.Errorf(
			"MaxReviewers (%d) must be >= MinReviewers (%d)",
			cfg.MaxReviewers, cfg.MinReviewers,
		)
	}
	if cfg.GradingWindow < 0 {
		return fmt.Errorf("GradingWindow must be >= 0, got %v", cfg.GradingWindow)
	}
	if cfg.MaxAncestorDepth < 1 {
		return fmt.Errorf("MaxAncestorDepth must be >= 1, got %d", cfg.MaxAncestorDepth)
	}
	if cfg.TopicTargetBase < 1 {
		return fmt.Errorf("TopicTargetBase must be >= 1, got %d", cfg.TopicTargetBase)
	}
	if cfg.TopicTargetFactor < 1 {
		return fmt.Errorf("TopicTargetFactor must be >= 1, got %d", cfg.TopicTargetFactor)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for
// non-recommended values.
//
// This is called after Validate() in NewEngine() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.GradingWindow == 0 {
		logger.Warn(
			"GradingWindow is unset, pending matches will never expire",
			"peerforum", cfg.PeerforumID,
		)
	}

	if cfg.GradingWindow > 0 && cfg.GradingWindow < 24*time.Hour {
		logger.Warn(
			"GradingWindow is very short, reviewers may expire before grading",
			"window", cfg.GradingWindow,
			"recommended", "72h or longer",
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Use DefaultConfig() for production deployments.
//
// Returns:
//   - Config: Configuration with small counts and a short grading window
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.CourseID = 1
	cfg.PeerforumID = 1
	cfg.MinReviewers = 2
	cfg.MaxReviewers = 3
	cfg.GradingWindow = 3 * 24 * time.Hour

	return cfg
}
