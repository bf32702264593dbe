package analyses

import "strings"

// BuildPrompt renders the analyst prompt. text is embedded verbatim between
// two separator lines and is never interpreted.
func BuildPrompt(context, text string) string {
	var b strings.Builder
	b.WriteString("Analyze the following unstructured text regarding financial matters, specifically in the context of '")
	b.WriteString(context)
	b.WriteString("'.\n")
	b.WriteString("Your task is to act as an expert financial analyst. Extract key information, identify risks, and provide actionable recommendations.\n\n")
	b.WriteString("Please provide your analysis strictly in the following JSON format:\n")
	b.WriteString(SchemaJSON())
	b.WriteString("\n\nHere is the text to analyze:\n")
	b.WriteString(promptSeparator)
	b.WriteString("\n")
	b.WriteString(text)
	b.WriteString("\n")
	b.WriteString(promptSeparator)
	b.WriteString("\n")
	return b.String()
}

const promptSeparator = "---"
