package quiz

import (
	"math/rand"
	"time"

	platerrors "github.com/novacredit/engine/internal/platform/errors"
)

var poolByID = func() map[int]Question {
	m := make(map[int]Question, len(Pool))
	for _, q := range Pool {
		m[q.ID] = q
	}
	return m
}()

// personaBand is one persona threshold/label/feedback triple.
type personaBand struct {
	minPercentage float64
	persona       string
	feedback      string
}

// personaBands is ordered highest threshold first; the first matching band wins.
var personaBands = []personaBand{
	{80, "Prudent Strategist", "Your responses show disciplined saving and deliberate financial planning."},
	{60, "Reliable Operator", "You manage day-to-day obligations reliably with room to build more buffer."},
	{40, "Emerging Professional", "You're building good habits; a few areas would benefit from more structure."},
	{0, "High-Touch Applicant", "Your responses suggest financial habits that would benefit from closer support."},
}

// SelectQuestions runs a Fisher-Yates shuffle over the fixed pool and
// returns the first QuizSize questions to present, plus the internal list
// of ids a submission must answer against.
func SelectQuestions() ([]PresentedQuestion, []int) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	indices := make([]int, len(Pool))
	for i := range indices {
		indices[i] = i
	}
	for i := len(indices) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}

	selected := indices[:QuizSize]
	presented := make([]PresentedQuestion, 0, QuizSize)
	ids := make([]int, 0, QuizSize)
	for _, idx := range selected {
		q := Pool[idx]
		presented = append(presented, PresentedQuestion{ID: q.ID, Text: q.Text, Options: Options})
		ids = append(ids, q.ID)
	}
	return presented, ids
}

// ValidateResponses enforces §4.12's shape rules: exactly QuizSize
// responses, no duplicate ids, every id drawn from the pool, and every
// choice one of the fixed Likert options.
func ValidateResponses(responses []Response) error {
	if len(responses) != QuizSize {
		return platerrors.Validation("exactly 5 responses are required", map[string]any{"got": len(responses)})
	}

	seen := make(map[int]bool, len(responses))
	for _, r := range responses {
		if seen[r.ID] {
			return platerrors.Validation("duplicate question id in responses", map[string]any{"id": r.ID})
		}
		seen[r.ID] = true

		if _, ok := poolByID[r.ID]; !ok {
			return platerrors.Validation("unknown question id", map[string]any{"id": r.ID})
		}
		if _, ok := optionValue[r.Choice]; !ok {
			return platerrors.Validation("choice must be one of the fixed Likert options", map[string]any{"choice": r.Choice})
		}
	}
	return nil
}

// Score validates and scores a response set: per-category rollups, the
// normalised behaviourScore, and a derived persona with fixed feedback.
func Score(responses []Response) (ScoredQuiz, error) {
	if err := ValidateResponses(responses); err != nil {
		return ScoredQuiz{}, err
	}

	categorySums := make(map[string]int)
	categoryMax := make(map[string]int)
	totalScore := 0

	for _, r := range responses {
		q := poolByID[r.ID]
		value := optionValue[r.Choice]
		totalScore += value
		categorySums[q.Category] += value
		categoryMax[q.Category] += 5
	}

	breakdown := make(map[string]CategoryBreakdown, len(categorySums))
	for category, score := range categorySums {
		max := categoryMax[category]
		var pct float64
		if max > 0 {
			pct = round4(float64(score) / float64(max) * 100)
		}
		breakdown[category] = CategoryBreakdown{Score: score, MaxScore: max, Percentage: pct}
	}

	behaviourScore := round4(float64(totalScore) / float64(QuizSize*5))
	overallPercentage := behaviourScore * 100

	persona, feedback := derivePersona(overallPercentage)

	return ScoredQuiz{
		TotalScore:        totalScore,
		BehaviourScore:    behaviourScore,
		CategoryBreakdown: breakdown,
		Persona:           persona,
		Feedback:          feedback,
	}, nil
}

func derivePersona(percentage float64) (string, string) {
	for _, band := range personaBands {
		if percentage > band.minPercentage {
			return band.persona, band.feedback
		}
	}
	last := personaBands[len(personaBands)-1]
	return last.persona, last.feedback
}

func round4(f float64) float64 {
	return float64(int(f*10000+0.5)) / 10000
}
