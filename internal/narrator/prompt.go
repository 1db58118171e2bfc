package narrator

const systemPersona = "You are an expert audiobook narrator and editor. " +
	"Your task is to rewrite text to make it perfect for audio narration."

var stylePrompts = map[string]string{
	"storytelling": "Rewrite the following text in a natural, engaging storytelling narration style suitable for an audiobook. " +
		"Make it flow smoothly and sound conversational while maintaining the original meaning and key information.",
	"professional": "Rewrite the following text in a clear, professional narration style suitable for an educational or business audiobook. " +
		"Keep it formal but accessible.",
	"casual": "Rewrite the following text in a friendly, casual conversational style suitable for an audiobook. " +
		"Make it sound like a friend telling a story.",
}

const defaultStyle = "storytelling"

// SystemInstruction returns the fixed instruction for a narration style.
// Unknown styles fall back to storytelling.
func SystemInstruction(style string) string {
	prompt, ok := stylePrompts[style]
	if !ok {
		prompt = stylePrompts[defaultStyle]
	}
	return systemPersona + "\n\n" + prompt + " Reply with the rewritten text only."
}
