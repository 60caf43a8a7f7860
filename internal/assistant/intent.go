package assistant

import "strings"

// Intent labels what a visitor asked about.
type Intent string

const (
	IntentGeneral    Intent = "general"
	IntentSkills     Intent = "skills"
	IntentProjects   Intent = "projects"
	IntentExperience Intent = "experience"
	IntentPhilosophy Intent = "philosophy"
	IntentReviews    Intent = "reviews"
	IntentContact    Intent = "contact"
)

// Classification is the outcome of Classify.
type Classification struct {
	Intent     Intent
	Confidence float64
	Sources    []string
}

type intentBucket struct {
	intent   Intent
	keywords []string
	sources  []string
}

// buckets are scored independently; ties go to the earlier bucket.
var buckets = []intentBucket{
	{IntentSkills, []string{"skill", "stack", "language", "tool", "framework", "good at", "expertise"}, []string{"about", "timeline"}},
	{IntentProjects, []string{"project", "portfolio", "built", "work on", "case study", "app"}, []string{"projects"}},
	{IntentExperience, []string{"experience", "career", "job", "worked", "company", "role", "timeline"}, []string{"timeline"}},
	{IntentPhilosophy, []string{"philosophy", "approach", "believe", "process", "values", "design"}, []string{"about"}},
	{IntentReviews, []string{"review", "testimonial", "client", "feedback", "recommend"}, []string{"reviews"}},
	{IntentContact, []string{"contact", "email", "hire", "reach", "available", "linkedin"}, []string{"contact"}},
}

// Classify tags a visitor message with the best matching intent.
func Classify(message string) Classification {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return Classification{Intent: IntentGeneral}
	}

	best, bestScore, total := -1, 0, 0
	for i, b := range buckets {
		score := 0
		for _, kw := range b.keywords {
			if strings.Contains(normalized, kw) {
				score++
			}
		}
		total += score
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best == -1 {
		return Classification{Intent: IntentGeneral, Confidence: 0.3}
	}

	confidence := 0.5 + 0.5*float64(bestScore)/float64(total)
	return Classification{
		Intent:     buckets[best].intent,
		Confidence: confidence,
		Sources:    append([]string(nil), buckets[best].sources...),
	}
}
