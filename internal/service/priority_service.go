package service

import (
	"math"
	"strings"
	"time"

	"github.com/spec-kit/zendesk-mcp/internal/domain"
)

const (
	slaEnterpriseScore = 100
	agePointsPerDay    = 5
	idlePointsPerDay   = 10
)

// statusScores is keyed by lower-cased status. Unknown statuses score 0.
var statusScores = map[string]float64{
	"open":                           100,
	"new":                            75,
	"pending":                        25,
	"feature request review pending": 0,
	"eng confirmed bug":              0,
}

// PriorityScorer computes the urgency breakdown for a ticket.
type PriorityScorer struct {
	now func() time.Time
}

// NewPriorityScorer builds a scorer reading the given clock; nil means time.Now.
func NewPriorityScorer(now func() time.Time) *PriorityScorer {
	if now == nil {
		now = time.Now
	}
	return &PriorityScorer{now: now}
}

// Score sums the SLA, age, idle-time and status factors.
func (s *PriorityScorer) Score(ticket *domain.Ticket, comments []domain.Comment) domain.PriorityBreakdown {
	now := s.now()
	var out domain.PriorityBreakdown

	if ticket.HasTag(domain.TagSLAEnterprise) {
		out.SLAEnterprise = slaEnterpriseScore
	}

	if !ticket.CreatedAt.IsZero() {
		out.AgeScore = daysSince(now, ticket.CreatedAt) * agePointsPerDay
	}

	if latest, ok := latestComment(comments); ok {
		out.ResponseScore = daysSince(now, latest.CreatedAt) * idlePointsPerDay
	}

	out.StatusScore = statusScores[strings.ToLower(ticket.Status)]

	sum := out.SLAEnterprise + out.AgeScore + out.ResponseScore + out.StatusScore
	out.Total = int64(math.Floor(sum + 0.5))
	return out
}

// latestComment picks the newest comment; on equal timestamps the earliest in the slice wins.
func latestComment(comments []domain.Comment) (domain.Comment, bool) {
	if len(comments) == 0 {
		return domain.Comment{}, false
	}
	latest := comments[0]
	for _, c := range comments[1:] {
		if c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	return latest, true
}

func daysSince(now, then time.Time) float64 {
	return now.Sub(then).Hours() / 24
}
