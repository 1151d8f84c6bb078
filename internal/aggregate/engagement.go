package aggregate

import (
	"math"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

// EngagementNormalizer maps a source's heterogeneous engagement payload onto
// two common scales: an attention contribution and a quality signal used by
// the confidence score. Malformed or missing payload keys degrade to zero
// contribution.
type EngagementNormalizer interface {
	Attention(engagement map[string]float64) float64
	Quality(engagement map[string]float64) float64
}

// NormalizerFor selects the normalizer for a source. Sources without
// engagement semantics get the null normalizer.
func NormalizerFor(src domain.Source) EngagementNormalizer {
	switch src {
	case domain.SourceReddit:
		return redditNormalizer{}
	case domain.SourceYouTube:
		return youtubeNormalizer{}
	default:
		return nullNormalizer{}
	}
}

// redditNormalizer treats comments as worth twice the vote score. Scores can
// be negative; contributions clamp at zero.
type redditNormalizer struct{}

func (redditNormalizer) Attention(engagement map[string]float64) float64 {
	value := engagement["score"] + 2*engagement["num_comments"]

	return math.Log1p(math.Max(0, value))
}

func (redditNormalizer) Quality(engagement map[string]float64) float64 {
	return math.Log1p(math.Max(0, engagement["score"]))
}

// youtubeNormalizer combines views, likes and comments on a log scale.
// Views run thousands of times larger than likes, so they are divided down
// and the three terms are blended 3:2:1.
type youtubeNormalizer struct{}

const (
	ytViewScale    = 1000.0
	ytLikeScale    = 10.0
	ytCommentScale = 5.0
	ytViewWeight   = 3.0
	ytLikeWeight   = 2.0
	ytCommentTerm  = 1.0
	ytWeightTotal  = 6.0
)

func (youtubeNormalizer) Attention(engagement map[string]float64) float64 {
	views := math.Max(0, engagement["view_count"])
	likes := math.Max(0, engagement["like_count"])
	comments := math.Max(0, engagement["comment_count"])

	return (math.Log1p(views/ytViewScale)*ytViewWeight +
		math.Log1p(likes*ytLikeScale)*ytLikeWeight +
		math.Log1p(comments*ytCommentScale)*ytCommentTerm) / ytWeightTotal
}

func (youtubeNormalizer) Quality(engagement map[string]float64) float64 {
	views := math.Max(0, engagement["view_count"])
	if views > 0 {
		return math.Log1p(views / 100.0)
	}

	return math.Log1p(math.Max(0, engagement["like_count"]))
}

// nullNormalizer contributes nothing; used for news and editorial items
// whose payloads carry no comparable engagement counts.
type nullNormalizer struct{}

func (nullNormalizer) Attention(map[string]float64) float64 { return 0 }

func (nullNormalizer) Quality(map[string]float64) float64 { return 0 }
