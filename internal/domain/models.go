package domain

// Prefecture is a static question: a prefecture and the teams based there.
type Prefecture struct {
	Name  string   `json:"name" yaml:"name"`
	Teams []string `json:"teams" yaml:"teams"`
}

// Dataset is a named list of prefectures a quiz is drawn from.
type Dataset struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Prefectures []Prefecture `json:"prefectures" yaml:"prefectures"`
}

// Question is the player-facing view of the active prefecture. Team names are never exposed.
type Question struct {
	SessionID  string `json:"sessionId"`
	DatasetID  string `json:"datasetId"`
	Prefecture string `json:"prefecture"`
	Slots      int    `json:"slots"`
	Number     int    `json:"number"`
	Total      int    `json:"total"`
	Last       bool   `json:"last"`
}

// AnswerOutcome is returned after a question is scored. Next is nil after the last question.
type AnswerOutcome struct {
	Result QuestionResult `json:"result"`
	Next   *Question      `json:"next,omitempty"`
}

// Report is the end-of-quiz summary.
type Report struct {
	SessionID string           `json:"sessionId"`
	Results   []QuestionResult `json:"results"`
	Tally     Tally            `json:"tally"`
	Accuracy  float64          `json:"accuracy"`
	Summary   string           `json:"summary"`
	ShareText string           `json:"shareText"`
}
