package videogen

import "strings"

const sentencePlaceholder = "{{sentence}}"

const promptTemplate = `Animate the uploaded image into a short cinematic video (6–8 seconds). Keep the style and characters exactly the same. Make Haman, who is leading the horse, walk forward and shout in clear hebrew: "{{sentence}}". Sync his mouth to the words. Add subtle motion: the horse walks, capes move slightly, and the crowd in the background has small cheering movements. Add a gentle camera push-in toward Haman and the rider. Keep lighting and colors unchanged. Audio: only Haman voice, bold and confident. No music, no text overlays, no subtitles. Output 16:9, smooth cinematic motion.`

// BuildPrompt renders the provider instruction with sentence substituted
// verbatim at the single placeholder.
func BuildPrompt(sentence string) string {
	return strings.Replace(promptTemplate, sentencePlaceholder, sentence, 1)
}
