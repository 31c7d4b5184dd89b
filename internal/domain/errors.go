package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session does not exist or has expired.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrDatasetNotFound indicates the prefecture dataset could not be loaded.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrInvalidDataset is wrapped by dataset validation failures.
	ErrInvalidDataset = errors.New("invalid dataset")
	// ErrAnswerCountMismatch indicates the number of answers differs from the number of slots.
	ErrAnswerCountMismatch = errors.New("answer count does not match team count")
	// ErrNoActiveQuestion is returned once the last question has been answered.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrQuizCompleted is returned when acting on a finished session.
	ErrQuizCompleted = errors.New("quiz already completed")
	// ErrQuizInProgress is returned when a report is requested before the quiz is finished.
	ErrQuizInProgress = errors.New("quiz still in progress")
)
