package rag

import "fmt"

// ToolName is the retrieval tool identifier offered to the decision model,
// kept from the original assistant.
const ToolName = "extraer"

// ToolDescription tells the decision model what the retrieval tool does.
const ToolDescription = "Reformula la pregunta del usuario en cinco versiones alternativas y recupera documentos relevantes del Código Nacional de Tránsito de Colombia desde una base de datos de vectores."

// Refusal is the fixed answer mandated for off-topic questions. It is a
// contract supplied by the prompt, not a guaranteed model output.
const Refusal = `La pregunta no está relacionada con el tema para el que fui entrenado (Código Nacional de Tránsito de Colombia) y no puedo responderla.`

// paraphraseTemplate asks for exactly five rephrasings, one per line,
// without numbering.
const paraphraseTemplate = "Eres una IA asistente experta en el Código Nacional de Tránsito de " +
	"Colombia. Tu tarea es generar cinco versiones alternativas y diversas " +
	"de la pregunta dada por el usuario, con el objetivo de maximizar la " +
	"recuperación de documentos relevantes de una base de datos de vectores. " +
	"Cada versión debe ser semántica y sintácticamente diferente, pero " +
	"mantener el sentido original de la pregunta. No inventes información ni " +
	"agregues detalles que no estén en la pregunta original. No incluyas " +
	"preguntas que no estén relacionadas con el Código Nacional de Tránsito " +
	"de Colombia. Escribe cada pregunta alternativa en una línea diferente, " +
	"sin enumerar ni listar. Pregunta original: %s"

// ParaphrasePrompt builds the multi-query expansion prompt for a question.
func ParaphrasePrompt(question string) string {
	return fmt.Sprintf(paraphraseTemplate, question)
}

// GroundingPrompt builds the system instruction for the answer generator:
// it restricts answers to the traffic code, mandates the fixed refusal for
// off-topic questions, requires the "Basado en el artículo X, ..." citation
// phrasing, and embeds the retrieved context.
func GroundingPrompt(docsContent string) string {
	return "Eres un asistente experto en el Código Nacional de Tránsito de Colombia. " +
		"Debes responder únicamente preguntas relacionadas con el Código Nacional " +
		"de Tránsito o con el contexto proporcionado. Si la pregunta no está " +
		"relacionada con el Código Nacional de Tránsito, responde: " +
		"\"" + Refusal + "\" " +
		"Si la respuesta está en el contexto, da la respuesta más aproximada " +
		"posible, citando el artículo en el que te basaste al inicio de cada " +
		"parte relevante, diciendo \"Basado en el artículo X,...\". Si la respuesta " +
		"no está en el contexto, responde que no sabes. Da detalles siempre que " +
		"sea posible.\n\nContexto con artículos:\n\n" + docsContent
}
