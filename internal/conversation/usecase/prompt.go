package usecase

import "strings"

const promptHeader = `You are an expert medical conversation analyst. Your task is to create a comprehensive yet concise
summary of a medical chatbot conversation between a user and MedBot (an AI medical assistant).

The summary should:
1. Highlight the main medical topics discussed
2. Note any symptoms or conditions mentioned
3. Summarize advice or explanations provided by the bot
4. Identify any follow-up actions recommended to the user
5. Maintain medical accuracy while being concise

Conversation History:
==================
`

const promptFooter = `
==================

Please provide a professional medical conversation summary in 3-5 key points.`

// BuildPrompt embeds the transcript verbatim between the instruction header and footer
func BuildPrompt(history string) string {
	var b strings.Builder
	b.Grow(len(promptHeader) + len(history) + len(promptFooter))
	b.WriteString(promptHeader)
	b.WriteString(history)
	b.WriteString(promptFooter)
	return b.String()
}
