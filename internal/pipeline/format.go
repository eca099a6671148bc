package pipeline

import (
	"sort"

	"github.com/ppiankov/veracity/internal/model"
)

// MaxArticles is how many corroborating articles a payload lists
const MaxArticles = 6

// Format converts a verdict into its presentation payload.
// ID and AnalyzedAt are left for the caller to stamp.
func Format(claim model.Claim, result model.VerdictResult, evidence model.EvidenceSet) model.Payload {
	payload := model.Payload{
		Claim:        claim.Text,
		Label:        result.Label,
		Confidence:   result.Confidence,
		Score:        result.Score,
		Verdict:      result.Verdict,
		Tier:         result.Tier,
		Explanations: make([]model.Explanation, 0, len(result.Signals)),
		Failed:       make(map[string]string, len(evidence.Failures)),
	}

	for _, s := range result.Signals {
		payload.Explanations = append(payload.Explanations, model.Explanation{
			Signal: s.Name,
			Text:   s.Description,
			Stance: s.Stance,
			Points: s.Points,
		})
	}

	for name, msg := range evidence.Failures {
		payload.Failed[name] = msg
	}

	payload.Counters = counters(result, evidence)
	payload.FactCheck = factCheckSummary(result.FactCheck)
	payload.Articles = topArticles(result.Evidence, MaxArticles)

	return payload
}

func counters(result model.VerdictResult, evidence model.EvidenceSet) model.Counters {
	c := model.Counters{
		SourcesFound:               make(map[string]int, len(evidence.Counts)),
		SearchResults:              len(evidence.Search),
		ArticlesFound:              len(evidence.News),
		TrustedDomains:             nonNil(result.TrustedDomains),
		FakeDomains:                nonNil(result.FakeDomains),
		BestSimilarity:             result.BestSimilarity,
		AvgCorroborationSimilarity: result.AvgCorroborationSimilarity,
	}
	for name, n := range evidence.Counts {
		c.SourcesFound[name] = n
	}
	for _, item := range result.Evidence {
		if item.Verdict.IsTrusted {
			c.TrustedHits++
		}
	}
	return c
}

func factCheckSummary(record *model.FactCheckRecord) model.FactCheckSummary {
	if record == nil {
		return model.FactCheckSummary{}
	}
	return model.FactCheckSummary{
		Found:     true,
		Claim:     record.ClaimText,
		Rating:    record.Rating,
		Publisher: record.Publisher,
		URL:       record.ReviewURL,
		Date:      record.PublishedAt,
	}
}

// topArticles orders trusted items first, then by similarity, keeping collector order on ties
func topArticles(items []model.ScoredItem, limit int) []model.Article {
	sorted := make([]model.ScoredItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Verdict.IsTrusted != sorted[j].Verdict.IsTrusted {
			return sorted[i].Verdict.IsTrusted
		}
		return sorted[i].Similarity > sorted[j].Similarity
	})

	articles := make([]model.Article, 0, limit)
	seen := make(map[string]bool)
	for _, s := range sorted {
		if len(articles) == limit {
			break
		}
		if s.Item.URL != "" && seen[s.Item.URL] {
			continue
		}
		seen[s.Item.URL] = true

		articles = append(articles, model.Article{
			Title:      s.Item.Title,
			URL:        s.Item.URL,
			Domain:     s.Verdict.Domain,
			Source:     s.Item.Source,
			Trusted:    s.Verdict.IsTrusted,
			Similarity: s.Similarity,
		})
	}
	return articles
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
