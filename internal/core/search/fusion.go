package search

import (
	"math"
	"sort"
)

// Fuser 加權 RRF（Reciprocal Rank Fusion）融合器
// 融合分數 = w_lex * 1/(k + rank_lex) + w_sem * 1/(k + rank_sem)
// 只出現在單側名單的候選，缺席側貢獻 0
type Fuser struct {
	LexicalWeight  float64
	SemanticWeight float64
	K              int
}

// NewFuser 創建融合器
func NewFuser(lexicalWeight, semanticWeight float64, k int) *Fuser {
	return &Fuser{
		LexicalWeight:  lexicalWeight,
		SemanticWeight: semanticWeight,
		K:              k,
	}
}

// Fuse 融合兩路排名並回傳依融合分數降序的候選
// 同分時以關鍵詞排名升序、再以食譜 ID 升序決定順序，保證結果可重現
func (f *Fuser) Fuse(lexical, semantic []Hit) []ScoredCandidate {
	byID := make(map[string]*ScoredCandidate, len(lexical)+len(semantic))

	for i, hit := range lexical {
		byID[hit.Recipe.ID] = &ScoredCandidate{
			Recipe:      hit.Recipe,
			LexicalRank: i + 1,
		}
	}

	for i, hit := range semantic {
		if candidate, exists := byID[hit.Recipe.ID]; exists {
			candidate.SemanticRank = i + 1
			continue
		}
		byID[hit.Recipe.ID] = &ScoredCandidate{
			Recipe:       hit.Recipe,
			SemanticRank: i + 1,
		}
	}

	candidates := make([]ScoredCandidate, 0, len(byID))
	for _, candidate := range byID {
		candidate.FusedScore = f.score(candidate.LexicalRank, candidate.SemanticRank)
		candidates = append(candidates, *candidate)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.FusedScore != b.FusedScore {
			return a.FusedScore > b.FusedScore
		}
		if ra, rb := effectiveRank(a.LexicalRank), effectiveRank(b.LexicalRank); ra != rb {
			return ra < rb
		}
		return a.Recipe.ID < b.Recipe.ID
	})

	return candidates
}

// score 計算單一候選的融合分數，rank 為 0 時該側貢獻 0
func (f *Fuser) score(lexRank, semRank int) float64 {
	score := 0.0
	if lexRank > 0 {
		score += f.LexicalWeight / float64(f.K+lexRank)
	}
	if semRank > 0 {
		score += f.SemanticWeight / float64(f.K+semRank)
	}
	return score
}

// effectiveRank 缺席的排名視為無限大，排序時自然墊底
func effectiveRank(rank int) int {
	if rank == 0 {
		return math.MaxInt
	}
	return rank
}
