package domain

// AliasRow is one row of the read-only alias table. Many aliases map to one
// canonical client code; Weight reflects how often the alias was confirmed.
type AliasRow struct {
	ClientCode string
	Alias      string
	Weight     float64
}

type Client struct {
	Code string `json:"client_code"`
	Name string `json:"client_name"`
}

type ClientCandidate struct {
	ClientCode string  `json:"clientCode"`
	ClientName string  `json:"clientName"`
	Score      float64 `json:"score"`
}

type ResolutionStatus string

const (
	StatusResolved          ResolutionStatus = "resolved"
	StatusNeedsReviewClient ResolutionStatus = "needs_review_client"
	StatusNeedsReviewItems  ResolutionStatus = "needs_review_items"
)

type ResolutionMethod string

const (
	MethodExactCode          ResolutionMethod = "exact_code"
	MethodExactNormFirstline ResolutionMethod = "exact_norm_firstline"
	MethodFuzzyAuto          ResolutionMethod = "fuzzy_auto"
	MethodFuzzyForce         ResolutionMethod = "fuzzy_force"
)

// ClientResolution is a discriminated variant: when Status is resolved the
// ClientCode/ClientName/Method fields are set; otherwise Candidates carries
// the ranked shortlist for human review.
type ClientResolution struct {
	Status     ResolutionStatus  `json:"status"`
	ClientCode string            `json:"clientCode,omitempty"`
	ClientName string            `json:"clientName,omitempty"`
	Method     ResolutionMethod  `json:"method,omitempty"`
	Candidates []ClientCandidate `json:"candidates,omitempty"`
	HintUsed   string            `json:"hint_used,omitempty"`
}

func (r ClientResolution) Resolved() bool {
	return r.Status == StatusResolved
}
