// Package quiz implements the behavioural questionnaire (C12): a fixed
// question pool, randomised per-session selection, Likert scoring, and
// persona derivation from the overall percentage score.
package quiz

// QuizSize is the number of questions presented per session.
const QuizSize = 5

// Options is the fixed five-point Likert scale every question uses.
var Options = []string{"Never", "Rarely", "Sometimes", "Often", "Always"}

// optionValue maps a Likert choice to its 1..5 scoring weight.
var optionValue = map[string]int{
	"Never":     1,
	"Rarely":    2,
	"Sometimes": 3,
	"Often":     4,
	"Always":    5,
}

// Question is one entry in the fixed 20-question pool.
type Question struct {
	ID       int
	Text     string
	Category string
}

// PresentedQuestion is what is returned to the caller for behaviour.questions
// — the internal scoring weight never leaves the service.
type PresentedQuestion struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// Response is one caller-supplied answer for behaviour.submit.
type Response struct {
	ID     int    `json:"id"`
	Choice string `json:"choice"`
}

// CategoryBreakdown is one category's rollup within a scored quiz.
type CategoryBreakdown struct {
	Score      int     `json:"score"`
	MaxScore   int     `json:"max_score"`
	Percentage float64 `json:"percentage"`
}

// ScoredQuiz is the behaviour.submit result.
type ScoredQuiz struct {
	TotalScore        int                          `json:"total_score"`
	BehaviourScore    float64                      `json:"behaviour_score"`
	CategoryBreakdown map[string]CategoryBreakdown `json:"category_breakdown"`
	Persona           string                       `json:"persona"`
	Feedback          string                       `json:"feedback"`
}

// Pool is the fixed 20-question behavioural pool, covering five financial
// habit categories.
var Pool = []Question{
	{1, "I set aside money for savings before spending on discretionary items.", "Savings Discipline"},
	{2, "I track my monthly expenses against a budget.", "Savings Discipline"},
	{3, "I have an emergency fund covering at least three months of expenses.", "Savings Discipline"},
	{4, "I pay my credit card balance in full each month.", "Debt Management"},
	{5, "I know the interest rate on my outstanding loans.", "Debt Management"},
	{6, "I avoid taking on new debt to cover existing debt.", "Debt Management"},
	{7, "I pay my bills before the due date.", "Payment Reliability"},
	{8, "I set reminders for upcoming payment deadlines.", "Payment Reliability"},
	{9, "I have missed a loan EMI in the past year.", "Payment Reliability"},
	{10, "I compare prices before making a large purchase.", "Spending Discipline"},
	{11, "I make impulse purchases I later regret.", "Spending Discipline"},
	{12, "I stick to a planned budget during festive/shopping seasons.", "Spending Discipline"},
	{13, "I review my bank statements for unexpected charges.", "Financial Awareness"},
	{14, "I understand the fees associated with my bank accounts.", "Financial Awareness"},
	{15, "I know my approximate credit score.", "Financial Awareness"},
	{16, "I invest a portion of my income regularly.", "Investment Orientation"},
	{17, "I diversify my savings across more than one instrument.", "Investment Orientation"},
	{18, "I research an investment before committing money to it.", "Investment Orientation"},
	{19, "I set long-term financial goals and revisit them periodically.", "Investment Orientation"},
	{20, "I would rather delay a purchase than miss a bill payment.", "Payment Reliability"},
}
