package openai

import "fmt"

const summaryPrompt = `You are an expert e-commerce copywriter. Write a concise product summary from the product name and description you are given.

Rules:
- 50 to 75 words, 2 to 3 sentences.
- Strictly factual: mention only attributes present in the description. Do not invent features, materials, or measurements.
- Plain text only. No markup, no bullet points, no headings, no quotation marks around the output.
- Do not include the price or stock level even if mentioned.
- Write in the same language as the description.
- If the description carries no usable information, restate the product name as a single short sentence.`

// buildSummaryInput formats the product fields for the model.
func buildSummaryInput(itemName, description string) string {
	return fmt.Sprintf("Product name: %s\n\nDescription:\n%s", itemName, description)
}
