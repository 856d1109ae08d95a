package search

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/myblog/blog/internal/post"
	"github.com/myblog/blog/internal/post/repository"
	"github.com/myblog/blog/pkg/logger"
	"github.com/myblog/blog/pkg/metrics"
)

// MaxQueryLength bounds the accepted query size in runes. It stays above
// post.MaxTitleLength so any title can be searched verbatim.
const MaxQueryLength = 256

var ErrMalformedQuery = errors.New("malformed search query")

// Store is the read side of the post repository the engine needs.
type Store interface {
	ListPublished(ctx context.Context, q repository.Query) ([]*post.Post, error)
}

// Result is a post with its combined relevance score.
type Result struct {
	Post  *post.Post `json:"post"`
	Score float64    `json:"score"`
}

// Engine ranks published posts against free-text queries. It holds no
// per-call state and is safe for concurrent use.
type Engine struct {
	store    Store
	analyzer *Analyzer
	fields   []FieldWeight
}

func NewEngine(store Store, analyzer *Analyzer) *Engine {
	return &Engine{store: store, analyzer: analyzer, fields: DefaultFields}
}

// ParseQuery trims raw and rejects input that is not valid UTF-8, is too
// long, or carries control characters.
func ParseQuery(raw string) (string, error) {
	if !utf8.ValidString(raw) {
		return "", ErrMalformedQuery
	}
	q := strings.TrimSpace(raw)
	if utf8.RuneCountInString(q) > MaxQueryLength {
		return "", ErrMalformedQuery
	}
	for _, r := range q {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return "", ErrMalformedQuery
		}
	}
	return q, nil
}

// Search returns published posts scoring at least RelevanceFloor, best first.
// Empty and malformed queries give an empty result; only store failures are
// returned as errors.
func (e *Engine) Search(ctx context.Context, query string) ([]Result, error) {
	q, err := ParseQuery(query)
	if err != nil {
		logger.Debugf("search: dropping malformed query: %v", err)
		metrics.SearchRequests.WithLabelValues("malformed").Inc()
		return []Result{}, nil
	}
	terms := e.analyzer.Distinct(q)
	if len(terms) == 0 {
		metrics.SearchRequests.WithLabelValues("empty").Inc()
		return []Result{}, nil
	}

	candidates, err := e.store.ListPublished(ctx, repository.Query{Text: q})
	if err != nil {
		metrics.SearchRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	results := make([]Result, 0, len(candidates))
	for _, p := range candidates {
		if !p.IsPublished() {
			continue
		}
		score := e.score(terms, p)
		if score < RelevanceFloor {
			continue
		}
		results = append(results, Result{Post: p, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	metrics.SearchRequests.WithLabelValues("ok").Inc()
	metrics.SearchResults.Observe(float64(len(results)))
	logger.Debugf("search: query=%q terms=%v candidates=%d results=%d", q, terms, len(candidates), len(results))
	return results, nil
}

// Score computes the combined relevance of p for query without applying the floor.
func (e *Engine) Score(query string, p *post.Post) float64 {
	return e.score(e.analyzer.Distinct(query), p)
}

func (e *Engine) score(terms []string, p *post.Post) float64 {
	var total float64
	for _, fw := range e.fields {
		total += float64(fw.Weight) * signal(terms, e.analyzer.Frequencies(fieldText(p, fw.Field)))
	}
	return total
}

// signal is the mean saturated term frequency of terms in a field, in [0, 1).
func signal(terms []string, tf map[string]int) float64 {
	if len(terms) == 0 {
		return 0
	}
	var sum float64
	for _, t := range terms {
		if n := tf[t]; n > 0 {
			sum += float64(n) / (float64(n) + termSaturation)
		}
	}
	return sum / float64(len(terms))
}

func fieldText(p *post.Post, f Field) string {
	switch f {
	case FieldTitle:
		return p.Title
	case FieldBody:
		return p.Body
	}
	return ""
}
