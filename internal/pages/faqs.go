package pages

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/record"
	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
)

const (
	faqsTitle       = "Frequently Asked Questions"
	faqsPlaceholder = "No FAQs have been published yet."
)

// FAQsAssembler renders question and answer cards. Items without a question
// are dropped.
type FAQsAssembler struct{}

func (FAQsAssembler) Page() Page { return FAQs }

type faqItem struct {
	Question string
	Answer   string
}

func faqAnswer(rec record.Record) string {
	if answer := resolve.FirstOf(rec, "answer"); answer != "" {
		return answer
	}
	if accepted, ok := rec["acceptedAnswer"].(map[string]any); ok {
		return resolve.FirstOf(accepted, "text")
	}
	return ""
}

func (FAQsAssembler) Assemble(ctx context.Context, env *Env) (Fragment, error) {
	dir := filepath.Join(env.Root, DirFAQs)
	res := env.Loader.LoadDir(dir, record.WithContainer("faqs", "mainEntity"))
	if !res.Exists {
		env.logger().Info("FAQ directory not found, using placeholder", logfields.Dir(dir))
		return placeholder(faqsTitle, faqsPlaceholder), nil
	}

	var (
		items    []faqItem
		entities []questionLD
		dropped  int
	)
	for _, rec := range res.Records() {
		if ctx.Err() != nil {
			return Fragment{}, ctx.Err()
		}
		question := resolve.FirstOf(rec, "question", "name")
		if question == "" {
			dropped++
			continue
		}
		answer := faqAnswer(rec)
		items = append(items, faqItem{Question: question, Answer: answer})
		entities = append(entities, questionLD{
			Type:           "Question",
			Name:           question,
			AcceptedAnswer: answerLD{Type: "Answer", Text: answer},
		})
	}
	if dropped > 0 {
		env.logger().Debug("Dropped FAQ items without a question", logfields.Count(dropped))
	}

	if len(items) == 0 {
		env.logger().Warn("No valid FAQs found, using placeholder", logfields.Dir(dir), logfields.Count(res.Scanned))
		return placeholder(faqsTitle, faqsPlaceholder), nil
	}

	html, err := renderFragment("faqs", items)
	if err != nil {
		return Fragment{}, err
	}
	ld, err := structuredData(faqPageLD{Context: schemaContext, Type: "FAQPage", MainEntity: entities})
	if err != nil {
		return Fragment{}, err
	}
	env.logger().Info("FAQ page assembled", logfields.Items(len(items)))
	return Fragment{Title: faqsTitle, HTML: html, StructuredData: ld, Items: len(items)}, nil
}
