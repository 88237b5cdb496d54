package persona

import "strings"

// Facet describes one section of the persona document.
type Facet struct {
	Name    string // used in logs and the fallback text
	Heading string
	System  string
	Prompt  string // {content} and {tags} are substituted
}

// Facets are the six persona sections, in document order.
var Facets = []Facet{
	{
		Name:    "demographics",
		Heading: "DEMOGRAPHICS",
		System:  "You are an expert at analyzing text to identify demographic information. Be conservative in your estimates and only make claims based on clear evidence.",
		Prompt: `Analyze the following Reddit posts and comments to infer demographic information about the user.
Consider:
- Approximate age range
- Likely location or region
- Occupation or field of study
- Life stage and living situation
State "unknown" for anything the content does not support.

Content: {content}`,
	},
	{
		Name:    "personality",
		Heading: "PERSONALITY TRAITS",
		System:  "You are an expert at analyzing writing style and communication patterns to identify personality traits. Focus on observable behaviors and communication patterns.",
		Prompt: `Analyze the following Reddit posts and comments to describe the user's personality.
Look for:
- Tone and communication style
- Introversion or extroversion signals
- How they handle disagreement
- Humor, empathy and openness

Content: {content}`,
	},
	{
		Name:    "interests",
		Heading: "INTERESTS & HOBBIES",
		System:  "You are an expert at identifying interests and hobbies from online activity. Consider both explicit mentions and implicit interests shown through participation.",
		Prompt: `Analyze the following Reddit posts and comments to identify the user's interests and hobbies.
The user is active in these communities: {tags}
Look for:
- Topics they return to
- Hobbies and pastimes they mention
- Media, products or activities they discuss with enthusiasm

Content: {content}`,
	},
	{
		Name:    "behaviors",
		Heading: "BEHAVIORS & HABITS",
		System:  "You are an expert at analyzing behavioral patterns from online activity. Focus on observable patterns in posting, engagement, and interaction styles.",
		Prompt: `Analyze the following Reddit posts and comments to describe the user's online behaviors and habits.
Look for:
- Posting versus commenting patterns
- How they engage with other users
- Whether they ask for help, give advice or share experiences
- Routines and habits they mention

Content: {content}`,
	},
	{
		Name:    "motivations",
		Heading: "MOTIVATIONS & GOALS",
		System:  "You are an expert at identifying underlying motivations and goals from online behavior. Look for patterns that reveal what drives the person.",
		Prompt: `Analyze the following Reddit posts and comments to identify what motivates the user.
Look for:
- Goals they are working towards
- Values they express
- Reasons they participate in these communities

Content: {content}`,
	},
	{
		Name:    "frustrations",
		Heading: "FRUSTRATIONS & PAIN POINTS",
		System:  "You are an expert at identifying frustrations and pain points from online communication. Focus on explicit complaints and recurring negative themes.",
		Prompt: `Analyze the following Reddit posts and comments to identify frustrations, complaints, and pain points expressed by the user.
Look for:
- Explicit complaints or frustrations
- Recurring problems they face
- Things that annoy or bother them
- Challenges they're trying to overcome
- Negative experiences they share

Content: {content}`,
	},
}

// FallbackText is the analysis recorded when a facet cannot be generated.
func FallbackText(facet string) string {
	return "Unable to analyze " + facet
}

func (f Facet) render(evidence, tags string) string {
	return strings.NewReplacer("{content}", evidence, "{tags}", tags).Replace(f.Prompt)
}
