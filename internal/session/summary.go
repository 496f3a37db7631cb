package session

// Summary holds the data displayed after an attempt.
type Summary struct {
	LessonID       string
	LessonTitle    string
	Review         bool
	TotalQuestions int
	Answers        int
	WrongAnswers   int
	FirstTry       int
	Accuracy       float64
	Perfect        bool
}

// BuildSummary creates a Summary from the current session state.
func BuildSummary(s *Session) *Summary {
	first := 0
	for _, r := range s.results {
		if r.FirstTry {
			first++
		}
	}

	var accuracy float64
	if s.answers > 0 {
		accuracy = float64(s.answers-s.wrong) / float64(s.answers)
	}

	return &Summary{
		LessonID:       s.lesson.ID,
		LessonTitle:    s.lesson.Title,
		Review:         s.review,
		TotalQuestions: len(s.lesson.Questions),
		Answers:        s.answers,
		WrongAnswers:   s.wrong,
		FirstTry:       first,
		Accuracy:       accuracy,
		Perfect:        s.Perfect(),
	}
}
