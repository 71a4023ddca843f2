package model

// Recommendation run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusOK        = "ok"
	RunStatusLocalOnly = "local-only"
	RunStatusError     = "error"
)

// Recommendation run stages, in pipeline order.
const (
	StageCollect  = "collect"
	StageLocal    = "local"
	StageGemini   = "gemini"
	StageYouTube  = "youtube"
	StageFinalize = "finalize"
)

// Candidate sources.
const (
	CandidateSourceLocal   = "local"
	CandidateSourceYouTube = "youtube"
)

// Candidate statuses.
const (
	CandidateNew       = "new"
	CandidateAccepted  = "accepted"
	CandidateDiscarded = "discarded"
)

// Candidate assignment outcomes after acceptance.
const (
	AssignmentAssigned = "assigned"
	AssignmentAdded    = "added"
)

// Auto-fill outcomes recorded on an accepted candidate.
const (
	AutofillSuccess = "success"
	AutofillFailed  = "failed"
	AutofillSkipped = "skipped"
)

// StageDetail carries progress counters for the in-flight stage. It is nil
// once a run finalizes.
type StageDetail struct {
	YouTubeTotal int    `json:"youtube_total,omitempty"`
	YouTubeDone  int    `json:"youtube_done"`
	CurrentIdea  string `json:"current_idea,omitempty"`
}

// RunStats are aggregate counters for one run.
type RunStats struct {
	ExistingCount int `json:"existing_count"`
}

// Candidate is one suggested dish inside a recommendation run.
type Candidate struct {
	ID               string   `json:"id"`
	RunID            string   `json:"run_id"`
	Source           string   `json:"source"`
	Title            string   `json:"title"`
	RecipeID         string   `json:"recipe_id,omitempty"`
	SourceURL        string   `json:"source_url,omitempty"`
	IsExisting       bool     `json:"is_existing"`
	ThumbnailURL     string   `json:"thumbnail_url,omitempty"`
	MealTypes        []string `json:"meal_types,omitempty"`
	Reason           string   `json:"reason,omitempty"`
	Score            float64  `json:"score,omitempty"`
	Rank             int      `json:"rank"`
	Status           string   `json:"status"`
	AssignmentStatus string   `json:"assignment_status,omitempty"`
	AutofillStatus   string   `json:"autofill_status,omitempty"`
	AutofillModel    string   `json:"autofill_model,omitempty"`
	AutofillCached   bool     `json:"autofill_cached,omitempty"`
	AutofillError    string   `json:"autofill_error,omitempty"`
}

// RecommendationRun is one dated batch of candidate suggestions with its
// pipeline progress snapshot.
type RecommendationRun struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	CreatedAt   string       `json:"created_at"`
	Status      string       `json:"status"`
	Stage       string       `json:"stage"`
	StageDetail *StageDetail `json:"stage_detail,omitempty"`
	Model       string       `json:"model,omitempty"`
	Language    string       `json:"language"`
	Reason      string       `json:"reason,omitempty"`
	Stats       RunStats     `json:"stats"`
	Candidates  []*Candidate `json:"candidates"`
}

// Candidate returns the candidate with the given id, or nil.
func (r *RecommendationRun) Candidate(id string) *Candidate {
	for _, c := range r.Candidates {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// RecommendationStore is the persisted collection of retained runs.
type RecommendationStore struct {
	Runs []*RecommendationRun `json:"runs"`
}

// RunByID returns the run with the given id, or nil.
func (s *RecommendationStore) RunByID(id string) *RecommendationRun {
	for _, r := range s.Runs {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// RunForDate returns the retained run for a calendar date, or nil.
func (s *RecommendationStore) RunForDate(date string) *RecommendationRun {
	for _, r := range s.Runs {
		if r.Date == date {
			return r
		}
	}
	return nil
}

// GeminiIdea is one new-dish suggestion parsed from the idea model's JSON
// reply.
type GeminiIdea struct {
	Title     string   `json:"title"`
	MealTypes []string `json:"meal_types"`
	Keywords  []string `json:"keywords"`
	Reason    string   `json:"reason"`
}
