package service

import (
	"studyhub/internal/extract"
	"studyhub/internal/model"
)

// fallbackGraph stands in whenever the model output carries no usable
// nodes. The id is arbitrary; clients only render labels.
func fallbackGraph() *model.ConceptGraph {
	return &model.ConceptGraph{
		Nodes: []model.Node{{ID: "n1", Label: "Key concepts"}},
		Edges: []model.Edge{},
	}
}

// normalizeGraph decodes raw model output into a ConceptGraph. Output
// without at least one usable node entry is replaced wholesale by the
// fallback graph; edges are kept best-effort and default to empty.
func normalizeGraph(raw string) *model.ConceptGraph {
	doc := extract.Object(raw)

	nodesVal, found := extract.Lookup(doc, "$.nodes")
	if !found {
		return fallbackGraph()
	}
	entries, ok := extract.AsSlice(nodesVal)
	if !ok || len(entries) == 0 {
		return fallbackGraph()
	}

	nodes := make([]model.Node, 0, len(entries))
	for _, entry := range entries {
		fields, ok := extract.AsMap(entry)
		if !ok {
			continue
		}
		nodes = append(nodes, model.Node{
			ID:    extract.AsString(fields["id"]),
			Label: extract.AsString(fields["label"]),
		})
	}
	if len(nodes) == 0 {
		return fallbackGraph()
	}

	edges := []model.Edge{}
	if edgesVal, found := extract.Lookup(doc, "$.edges"); found {
		if entries, ok := extract.AsSlice(edgesVal); ok {
			for _, entry := range entries {
				fields, ok := extract.AsMap(entry)
				if !ok {
					continue
				}
				edges = append(edges, model.Edge{
					From: extract.AsString(fields["from"]),
					To:   extract.AsString(fields["to"]),
				})
			}
		}
	}

	return &model.ConceptGraph{Nodes: nodes, Edges: edges}
}

// normalizeQuiz decodes raw model output into a QuizSet. The mcq and
// flashcards sections default to empty slices independently of each
// other, so a reply with only one usable section keeps it.
func normalizeQuiz(raw string) *model.QuizSet {
	doc := extract.Object(raw)

	mcq := []model.MCQItem{}
	if val, found := extract.Lookup(doc, "$.mcq"); found {
		if entries, ok := extract.AsSlice(val); ok {
			for _, entry := range entries {
				fields, ok := extract.AsMap(entry)
				if !ok {
					continue
				}
				mcq = append(mcq, model.MCQItem{
					Question: extract.AsString(fields["question"]),
					Options:  extract.AsStringSlice(fields["options"]),
					Answer:   extract.AsString(fields["answer"]),
				})
			}
		}
	}

	flashcards := []model.Flashcard{}
	if val, found := extract.Lookup(doc, "$.flashcards"); found {
		if entries, ok := extract.AsSlice(val); ok {
			for _, entry := range entries {
				fields, ok := extract.AsMap(entry)
				if !ok {
					continue
				}
				flashcards = append(flashcards, model.Flashcard{
					Front: extract.AsString(fields["front"]),
					Back:  extract.AsString(fields["back"]),
				})
			}
		}
	}

	return &model.QuizSet{MCQ: mcq, Flashcards: flashcards}
}
