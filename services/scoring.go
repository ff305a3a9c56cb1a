package services

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"screenai/models"
)

// roleSkills maps a role bucket to its skill vocabulary. Order matters: the
// first five entries of a bucket feed the fuzzy keyword score.
var roleSkills = map[string][]string{
	"uiux":     {"figma", "sketch", "adobe xd", "wireframes", "prototyping", "user research", "usability testing", "design systems", "heuristic evaluation", "component libraries", "design tokens"},
	"frontend": {"react", "next.js", "typescript", "javascript", "html", "css", "tailwind", "jest", "playwright", "redux"},
	"data":     {"sql", "python", "pandas", "numpy", "power bi", "tableau", "dashboards", "etl"},
	"ml":       {"python", "pytorch", "tensorflow", "ml pipelines", "feature engineering", "model deployment", "airflow", "mlops"},
	"backend":  {"java", "node", "microservices", "distributed systems", "kafka", "docker", "kubernetes", "postgres"},
	"devops":   {"ci/cd", "docker", "kubernetes", "terraform", "ansible", "aws", "gcp", "azure", "monitoring"},
}

var genericSkills = []string{
	"excel", "sql", "python", "react", "figma", "docker", "kubernetes", "gcp", "aws", "azure",
	"pandas", "power bi", "adobe xd", "tableau", "typescript", "next.js", "wireframes",
	"prototyping", "user research", "usability testing", "design systems",
}

var stopWords = map[string]bool{
	"a": true, "about": true, "above": true, "after": true, "again": true, "all": true,
	"an": true, "and": true, "any": true, "are": true, "as": true, "at": true, "be": true,
	"because": true, "been": true, "before": true, "being": true, "below": true,
	"between": true, "both": true, "but": true, "by": true, "can": true, "did": true,
	"do": true, "does": true, "doing": true, "down": true, "during": true, "each": true,
	"few": true, "for": true, "from": true, "further": true, "had": true, "has": true,
	"have": true, "having": true, "he": true, "her": true, "here": true, "hers": true,
	"him": true, "his": true, "how": true, "i": true, "if": true, "in": true, "into": true,
	"is": true, "it": true, "its": true, "just": true, "me": true, "more": true,
	"most": true, "my": true, "no": true, "nor": true, "not": true, "now": true,
	"of": true, "off": true, "on": true, "once": true, "only": true, "or": true,
	"other": true, "our": true, "out": true, "over": true, "own": true, "same": true,
	"she": true, "should": true, "so": true, "some": true, "such": true, "than": true,
	"that": true, "the": true, "their": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "those": true, "through": true, "to": true,
	"too": true, "under": true, "until": true, "up": true, "using": true, "very": true,
	"was": true, "we": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "while": true, "who": true, "whom": true, "why": true, "will": true,
	"with": true, "you": true, "your": true, "yours": true,
}

var yearsPattern = regexp.MustCompile(`(\d+)\s*\+?\s*years?`)
var wordPattern = regexp.MustCompile(`[a-z0-9]{2,}`)
var spacePattern = regexp.MustCompile(`\s+`)

// foldText lowercases text and strips diacritics so "résumé" matches "resume".
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldText(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// ResumeInfo is what the parser extracts from raw resume text.
type ResumeInfo struct {
	Skills   []string `json:"skills"`
	YearsExp float64  `json:"years_exp"`
}

// DetectRoleBucket assigns a role bucket from the posting's role and JD text.
func DetectRoleBucket(role, jd string) string {
	t := strings.ToLower(role + " " + jd)
	contains := func(kws ...string) bool {
		for _, k := range kws {
			if strings.Contains(t, k) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("ui", "ux", "designer", "design"):
		return "uiux"
	case contains("frontend", "react", "next"):
		return "frontend"
	case contains("data analyst", "analytics", "bi"):
		return "data"
	case contains("ml", "machine learning", "ai"):
		return "ml"
	case contains("backend", "distributed", "microservices"):
		return "backend"
	case contains("devops", "sre", "platform"):
		return "devops"
	}
	return "frontend"
}

// ParseResumeText pulls detected skills and the largest claimed experience
// span out of raw resume text. Skills are reported sorted.
func ParseResumeText(txt string) ResumeInfo {
	low := foldText(txt)

	years := 0.0
	for _, m := range yearsPattern.FindAllStringSubmatch(low, -1) {
		var n float64
		for _, c := range m[1] {
			n = n*10 + float64(c-'0')
		}
		if n > years {
			years = n
		}
	}

	vocab := map[string]bool{}
	for _, skills := range roleSkills {
		for _, s := range skills {
			vocab[s] = true
		}
	}
	for _, s := range genericSkills {
		vocab[s] = true
	}

	found := []string{}
	for s := range vocab {
		if strings.Contains(low, s) {
			found = append(found, s)
		}
	}
	sort.Strings(found)

	return ResumeInfo{Skills: found, YearsExp: years}
}

// tfidfSimilarity computes cosine similarity between two documents over a
// two-document TF-IDF space (smoothed IDF, stop words removed), clamped to
// [0,1].
func tfidfSimilarity(a, b string) float64 {
	ta := termFreq(a)
	tb := termFreq(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	vocab := map[string]bool{}
	for t := range ta {
		vocab[t] = true
	}
	for t := range tb {
		vocab[t] = true
	}

	var dot, na, nb float64
	for t := range vocab {
		df := 0
		if ta[t] > 0 {
			df++
		}
		if tb[t] > 0 {
			df++
		}
		// smooth idf over n=2 documents
		idf := math.Log(3.0/float64(1+df)) + 1.0

		wa := float64(ta[t]) * idf
		wb := float64(tb[t]) * idf
		dot += wa * wb
		na += wa * wa
		nb += wb * wb
	}
	if na == 0 || nb == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return clamp01(sim)
}

func termFreq(doc string) map[string]int {
	tf := map[string]int{}
	for _, w := range wordPattern.FindAllString(foldText(doc), -1) {
		if stopWords[w] {
			continue
		}
		tf[w]++
	}
	return tf
}

// fuzzyKeywordScore averages, over all keywords, the best partial match of
// the keyword against the whitespace-normalized resume text.
func fuzzyKeywordScore(keywords []string, text string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	hay := spacePattern.ReplaceAllString(foldText(text), " ")

	total := 0.0
	for _, kw := range keywords {
		total += partialRatio(strings.TrimSpace(foldText(kw)), hay)
	}
	return total / float64(len(keywords))
}

// partialRatio returns the best normalized similarity of needle against any
// needle-sized window of hay, in [0,1].
func partialRatio(needle, hay string) float64 {
	if needle == "" {
		return 0
	}
	if strings.Contains(hay, needle) {
		return 1
	}
	n := []rune(needle)
	h := []rune(hay)
	if len(h) <= len(n) {
		return levenshteinRatio(n, h)
	}

	best := 0.0
	for i := 0; i+len(n) <= len(h); i++ {
		r := levenshteinRatio(n, h[i:i+len(n)])
		if r > best {
			best = r
		}
		if best == 1 {
			break
		}
	}
	return best
}

func levenshteinRatio(a, b []rune) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// ComputeScore blends the scoring signals into the final analysis:
// 42% must-have coverage, 28% JD similarity, 15% fuzzy nice-to-have match,
// 10% experience factor, 5% weighted skill mix.
func ComputeScore(company, role, jdText string, mustHave, niceToHave []string, minExp float64, info ResumeInfo, fullText string) models.Analysis {
	bucket := DetectRoleBucket(role, jdText)
	dynamicSkills := roleSkills[bucket]

	skills := map[string]bool{}
	for _, s := range info.Skills {
		skills[strings.ToLower(s)] = true
	}

	mustHits := 0
	for _, m := range mustHave {
		if skills[strings.ToLower(strings.TrimSpace(m))] {
			mustHits++
		}
	}
	mustCov := float64(mustHits) / math.Max(1, float64(len(mustHave)))

	sim := tfidfSimilarity(jdText, fullText)

	fuzzyKW := append([]string{}, niceToHave...)
	if len(dynamicSkills) > 5 {
		fuzzyKW = append(fuzzyKW, dynamicSkills[:5]...)
	} else {
		fuzzyKW = append(fuzzyKW, dynamicSkills...)
	}
	fuzzy := fuzzyKeywordScore(fuzzyKW, fullText)

	expFactor := 1.0
	if minExp > 0 {
		expFactor = math.Min(1, info.YearsExp/minExp)
	}

	weightedNorm := 0.0
	if len(skills) > 0 {
		boostTerms := append([]string{}, dynamicSkills...)
		boostTerms = append(boostTerms, strings.ToLower(company), strings.ToLower(role))

		weightedSum := 0.0
		for s := range skills {
			w := 1.0
			for _, t := range boostTerms {
				if t != "" && strings.Contains(s, t) {
					w = 1.25
					break
				}
			}
			weightedSum += w
		}
		weightedNorm = weightedSum / float64(len(skills))
	}

	internal := 0.42*mustCov + 0.28*sim + 0.15*fuzzy + 0.10*expFactor + 0.05*math.Min(1, weightedNorm/1.25)

	return models.Analysis{
		Accuracy: normalize0100(internal),
		Components: models.ScoreComponents{
			MustCov:    round3(mustCov),
			Similarity: round3(sim),
			Fuzzy:      round3(fuzzy),
			Experience: round3(expFactor),
			Weighted:   round3(math.Min(1, weightedNorm/1.25)),
		},
		Bucket: bucket,
		Skills: info.Skills,
	}
}

// normalize0100 clamps to [0,1] then scales to a 0-100 score with one
// decimal place.
func normalize0100(v float64) float64 {
	return math.Round(clamp01(v)*1000) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
