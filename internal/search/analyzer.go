package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/registry"
)

// Analyzer turns text into normalized terms: unicode tokenization,
// possessive stripping, lowercasing, English stop-word removal and
// snowball stemming.
type Analyzer struct {
	a analysis.Analyzer
}

func NewAnalyzer() (*Analyzer, error) {
	a, err := registry.NewCache().AnalyzerNamed(en.AnalyzerName)
	if err != nil {
		return nil, fmt.Errorf("load %s analyzer: %w", en.AnalyzerName, err)
	}
	return &Analyzer{a: a}, nil
}

// Terms returns the stemmed terms of text in order, duplicates kept.
func (z *Analyzer) Terms(text string) []string {
	if text == "" {
		return nil
	}
	stream := z.a.Analyze([]byte(text))
	out := make([]string, 0, len(stream))
	for _, tok := range stream {
		if len(tok.Term) == 0 {
			continue
		}
		out = append(out, string(tok.Term))
	}
	return out
}

// Frequencies counts each term of text.
func (z *Analyzer) Frequencies(text string) map[string]int {
	terms := z.Terms(text)
	tf := make(map[string]int, len(terms))
	for _, t := range terms {
		tf[t]++
	}
	return tf
}

// Distinct returns the unique terms of text, first occurrence order.
func (z *Analyzer) Distinct(text string) []string {
	terms := z.Terms(text)
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
