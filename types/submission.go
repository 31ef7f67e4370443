package types

import "time"

// Submission is a reviewable unit: a student-authored forum post.
//
// Submissions are owned by the external SubmissionRepository. The engine only
// reads the descriptive fields and writes the derived Reviewers set, which is
// persisted back onto the submission for fast membership checks.
type Submission struct {
	// ID uniquely identifies the submission within the repository.
	ID int64 `json:"id"`

	// AuthorID is the user who wrote the submission.
	AuthorID int64 `json:"authorId"`

	// DiscussionID is the discussion thread the submission belongs to.
	DiscussionID int64 `json:"discussionId"`

	// TopicName is the topic label inherited from the discussion, if any.
	TopicName string `json:"topicName,omitempty"`

	// ParentID is the submission this one replies to (0 for a root post).
	ParentID int64 `json:"parentId"`

	// CreatedAt is when the submission was authored.
	CreatedAt time.Time `json:"createdAt"`

	// Reviewers is the current set of assigned reviewer ids.
	// Derived data: written only by the assignment coordinator.
	Reviewers IDSet `json:"reviewers,omitempty"`
}

// IsRoot reports whether the submission starts a thread (has no parent).
func (s *Submission) IsRoot() bool {
	return s.ParentID == 0
}

// Clone returns a deep copy of the submission.
func (s *Submission) Clone() *Submission {
	c := *s
	if s.Reviewers != nil {
		c.Reviewers = s.Reviewers.Clone()
	}

	return &c
}

// Discussion is a thread within a peerforum.
//
// When threaded grading is enabled a discussion can be topic-defining, which
// makes the topic-affinity selector prefer reviewers locked to its topic.
type Discussion struct {
	// ID uniquely identifies the discussion.
	ID int64 `json:"id"`

	// PeerforumID is the forum instance the discussion belongs to.
	PeerforumID int64 `json:"peerforumId"`

	// TopicName is the discussion's topic label.
	TopicName string `json:"topicName,omitempty"`

	// TopicDefining marks the discussion as defining a grading topic.
	TopicDefining bool `json:"topicDefining"`
}
