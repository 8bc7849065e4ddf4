package ai

import (
	"encoding/json"
	"strings"

	"monedero/internal"
)

const systemPrompt = `You simplify bank statement descriptions into short labels.

For every input item return one result with the same "id".
Rules:
1. "simplified" is a short human-readable merchant or operation name, 50 characters max.
2. "confidence" is a number between 0 and 1.
3. Descriptions are mostly Spanish banking text; keep brand names as-is.
4. Never invent ids and never omit an item.

Respond with a JSON object: {"results": [{"id": "...", "simplified": "...", "confidence": 0.0}]}`

func buildUserPrompt(items []internal.BatchItem) (string, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Simplify these statement descriptions:\n")
	b.Write(payload)
	return b.String(), nil
}
