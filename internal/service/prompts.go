package service

import "fmt"

// Prompt templates sent to the generation backend. The graph and quiz
// templates ask for strict JSON, but the reply is still free text and
// goes through the lenient extractor before anything trusts it.

const summaryPromptTemplate = "Summarize in simple terms:\n\n%s"

const graphPromptTemplate = `
Extract the key concepts from the following text and return a JSON object formatted as a mind map.
Format strictly as:
{
  "nodes": [{"id": "n1", "label": "concept1"}, ...],
  "edges": [{"from": "n1", "to": "n2"}, ...]
}
Text:
%s
`

const quizPromptTemplate = `
Generate educational content from the following text. Return a JSON object with exactly:
{
  "mcq": [
    {
      "question": "Your question here",
      "options": ["A)", "B)", "C)", "D)"],
      "answer": "Correct option letter"
    },
    ...
  ],
  "flashcards": [
    {
      "front": "Question front text",
      "back": "Answer back text"
    },
    ...
  ]
}
Make sure all MCQs have 4 options labeled A, B, C, D and include 2 flashcards.
Text:
%s
`

func summaryPrompt(content string) string {
	return fmt.Sprintf(summaryPromptTemplate, content)
}

func graphPrompt(content string) string {
	return fmt.Sprintf(graphPromptTemplate, content)
}

func quizPrompt(content string) string {
	return fmt.Sprintf(quizPromptTemplate, content)
}
