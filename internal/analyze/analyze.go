// Package analyze classifies a user question into a search strategy and
// produces the ordered search terms the retrieval engine runs with.
package analyze

import (
	"regexp"
	"strings"
)

type Strategy string

const (
	StrategyClauseSpecific Strategy = "CLAUSE_SPECIFIC"
	StrategyLegalDocument  Strategy = "LEGAL_DOCUMENT"
	StrategyGeneral        Strategy = "GENERAL"
)

type Priority string

const (
	PriorityVeryHigh Priority = "VERY_HIGH"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
)

type QuestionType string

const (
	QuestionDefinition  QuestionType = "DEFINITION"
	QuestionProcedure   QuestionType = "PROCEDURE"
	QuestionPenalty     QuestionType = "PENALTY"
	QuestionRights      QuestionType = "RIGHTS"
	QuestionObligations QuestionType = "OBLIGATIONS"
	QuestionConditions  QuestionType = "CONDITIONS"
	QuestionGeneral     QuestionType = "GENERAL"
)

type Result struct {
	Strategy     Strategy
	Priority     Priority
	QuestionType QuestionType
	// Terms is the ordered search term list; Terms[0] is the primary term
	// the scorer weighs against.
	Terms []string
	// Phrases are the full matched phrases, Keywords the phrases with
	// their leading category word stripped (or the general tokens).
	Phrases  []string
	Keywords []string
	// Clause detail, set only for StrategyClauseSpecific.
	ClauseNumber string
	ClauseTitle  string
}

var (
	clauseWithTitleRe = regexp.MustCompile(`(?i)điều\s+(\d+|[IVX]+)\.\s*([^.]+)`)
	clauseNumberRe    = regexp.MustCompile(`(?i)điều\s+(\d+|[IVX]+)`)
)

// Ordered legal reference patterns. The clause patterns are not here: the
// clause detection pass runs first and owns them.
var legalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(luật|bộ luật)\s+([a-zA-ZÀ-ỹ\s]+)(\s+số\s+\d+/\d+)?`),
	regexp.MustCompile(`(?i)(nghị định|quy định)\s+số\s+\d+/\d+`),
	regexp.MustCompile(`(?i)(thông tư|quyết định)\s+số\s+\d+/\d+`),
	regexp.MustCompile(`(?i)(pháp luật|văn bản)\s+([a-zA-ZÀ-ỹ\s]+)`),
	regexp.MustCompile(`(?i)khoản\s+\d+`),
	regexp.MustCompile(`(?i)chương\s+[IVX]+`),
}

var categoryPrefixRe = regexp.MustCompile(`(?i)^(luật|bộ luật|nghị định|quy định|pháp luật|văn bản)\s*`)

var questionTypeOrder = []struct {
	qtype   QuestionType
	pattern *regexp.Regexp
}{
	{QuestionDefinition, regexp.MustCompile(`(?i)^(định nghĩa|khái niệm|là gì|nghĩa là)`)},
	{QuestionProcedure, regexp.MustCompile(`(?i)^(thủ tục|quy trình|cách thức|làm thế nào)`)},
	{QuestionPenalty, regexp.MustCompile(`(?i)^(xử phạt|vi phạm|phạt|hình phạt)`)},
	{QuestionRights, regexp.MustCompile(`(?i)^(quyền|quyền lợi|được phép)`)},
	{QuestionObligations, regexp.MustCompile(`(?i)^(nghĩa vụ|phải|bắt buộc)`)},
	{QuestionConditions, regexp.MustCompile(`(?i)^(điều kiện|yêu cầu|tiêu chuẩn)`)},
}

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"tôi", "muốn", "biết", "về", "của", "là", "cái", "gì", "xin", "cho",
		"hỏi", "được", "cần", "như", "thế", "nào", "ai", "ở", "khi", "bao",
		"nhiêu", "vì", "sao", "có", "không", "phải", "hay", "và", "hoặc",
		"với", "trong", "ra", "đến", "tới", "để", "bằng", "theo", "nên",
		"nếu", "thì", "mà", "nhưng", "cũng", "đã", "đang", "sẽ", "vẫn",
		"chỉ", "rất", "hơn", "ít", "nhiều", "một", "hai", "ba", "bốn",
		"năm", "sáu", "bảy", "tám", "chín", "mười", "từ", "đây", "đó",
		"này", "kia", "đâu", "cuộc", "việc", "lần", "ngày",
	} {
		stopwords[w] = struct{}{}
	}
}

// Analyze runs the strategy cascade on a raw question. Question-type
// classification is independent of the chosen strategy and only influences
// prompt selection downstream.
func Analyze(question string) Result {
	trimmed := strings.TrimSpace(question)
	qtype := detectQuestionType(trimmed)

	if res, ok := detectClause(trimmed); ok {
		res.QuestionType = qtype
		return res
	}
	if res, ok := detectLegalPhrases(trimmed); ok {
		res.QuestionType = qtype
		return res
	}
	return generalFallback(trimmed, qtype)
}

func detectClause(text string) (Result, bool) {
	if m := clauseWithTitleRe.FindStringSubmatch(text); m != nil {
		number := m[1]
		title := strings.TrimSpace(m[2])
		full := strings.TrimSpace(m[0])
		marker := "điều " + number
		terms := []string{marker, title, marker + " " + title, full}
		return Result{
			Strategy:     StrategyClauseSpecific,
			Priority:     PriorityVeryHigh,
			Terms:        terms,
			Phrases:      []string{full},
			Keywords:     terms,
			ClauseNumber: number,
			ClauseTitle:  title,
		}, true
	}
	if m := clauseNumberRe.FindStringSubmatch(text); m != nil {
		number := m[1]
		marker := "điều " + number
		terms := []string{marker, number}
		return Result{
			Strategy:     StrategyClauseSpecific,
			Priority:     PriorityHigh,
			Terms:        terms,
			Phrases:      []string{strings.TrimSpace(m[0])},
			Keywords:     terms,
			ClauseNumber: number,
		}, true
	}
	return Result{}, false
}

func detectLegalPhrases(text string) (Result, bool) {
	var phrases []string
	for _, pattern := range legalPatterns {
		if m := pattern.FindString(text); m != "" {
			phrases = append(phrases, strings.TrimSpace(m))
		}
	}
	if len(phrases) == 0 {
		return Result{}, false
	}
	var keywords []string
	for _, phrase := range phrases {
		stripped := strings.TrimSpace(categoryPrefixRe.ReplaceAllString(phrase, ""))
		if stripped != "" {
			keywords = append(keywords, stripped)
		}
	}
	terms := make([]string, 0, len(phrases)+len(keywords))
	terms = append(terms, phrases...)
	terms = append(terms, keywords...)
	return Result{
		Strategy: StrategyLegalDocument,
		Priority: PriorityHigh,
		Terms:    terms,
		Phrases:  phrases,
		Keywords: keywords,
	}, true
}

func generalFallback(text string, qtype QuestionType) Result {
	cleaned := removeStopwords(text)
	var keywords []string
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) > 2 {
			keywords = append(keywords, word)
		}
	}
	terms := keywords
	if len(terms) == 0 {
		terms = []string{text}
	}
	return Result{
		Strategy:     StrategyGeneral,
		Priority:     PriorityMedium,
		QuestionType: qtype,
		Terms:        terms,
		Phrases:      []string{cleaned},
		Keywords:     keywords,
	}
}

func detectQuestionType(text string) QuestionType {
	for _, entry := range questionTypeOrder {
		if entry.pattern.MatchString(text) {
			return entry.qtype
		}
	}
	return QuestionGeneral
}

func removeStopwords(text string) string {
	words := strings.Fields(strings.ToLower(text))
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if _, stop := stopwords[word]; stop {
			continue
		}
		if len([]rune(word)) <= 1 {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
