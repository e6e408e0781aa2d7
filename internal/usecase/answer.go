package usecase

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"

	"cyberrag/internal/domain"
	"cyberrag/internal/port"
)

//go:embed templates/analyst_prompt.txt
var analystPromptText string

var analystPrompt = template.Must(template.New("analyst").Parse(analystPromptText))

// NoEvidenceAnswer is returned verbatim when retrieval produces no relevant
// documents, and is also the refusal line the model is instructed to use.
const NoEvidenceAnswer = "The available advisories do not cover this."

type promptSource struct {
	Name string
	Text string
}

type promptData struct {
	Question string
	Refusal  string
	Sources  []promptSource
}

// AnswerUseCase turns a question into a grounded answer: retrieval and
// relevance filtering via SearchUseCase, then one chat completion over the
// assembled evidence.
type AnswerUseCase struct {
	search *SearchUseCase
	llm    port.LLM
	log    logrus.FieldLogger
}

func NewAnswerUseCase(search *SearchUseCase, llm port.LLM, log logrus.FieldLogger) *AnswerUseCase {
	return &AnswerUseCase{
		search: search,
		llm:    llm,
		log:    log,
	}
}

// Answer returns the generated answer and the evidence it was grounded on.
// With no surviving evidence the canned refusal is returned without calling
// the model.
func (u *AnswerUseCase) Answer(ctx context.Context, question string) (string, domain.EvidenceMap, error) {
	evidence, err := u.search.Search(ctx, question)
	if err != nil {
		return "", nil, err
	}
	if len(evidence) == 0 {
		u.log.Debug("no evidence survived filtering, skipping generation")
		return NoEvidenceAnswer, evidence, nil
	}

	prompt, err := BuildPrompt(question, evidence)
	if err != nil {
		return "", nil, err
	}

	answer, err := u.llm.Generate(ctx, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate answer: %w", err)
	}
	return strings.TrimSpace(answer), evidence, nil
}

// BuildPrompt renders the analyst prompt over the evidence map. Sources are
// ordered by document name so the same evidence always yields the same
// prompt.
func BuildPrompt(question string, evidence domain.EvidenceMap) (string, error) {
	names := make([]string, 0, len(evidence))
	for name := range evidence {
		names = append(names, name)
	}
	sort.Strings(names)

	data := promptData{
		Question: question,
		Refusal:  NoEvidenceAnswer,
	}
	for _, name := range names {
		data.Sources = append(data.Sources, promptSource{Name: name, Text: evidence[name]})
	}

	var sb strings.Builder
	if err := analystPrompt.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return sb.String(), nil
}
