package vocab

import "errors"

var (
	// ErrInvalidInput is returned when a word or definition is empty after trimming.
	ErrInvalidInput = errors.New("word and definition cannot be empty")

	// ErrDuplicateWord is returned when a word already exists, compared case-insensitively.
	ErrDuplicateWord = errors.New("word is already in the list")

	// ErrNothingDue is informational: a review was requested but no record is due.
	ErrNothingDue = errors.New("no words to review right now")

	// ErrPersistence wraps storage write failures. In-memory state stays valid
	// and the save may be retried.
	ErrPersistence = errors.New("could not save vocabulary")

	// ErrCorruptState marks persisted data that could not be decoded. The store
	// recovers from it by starting with an empty list.
	ErrCorruptState = errors.New("stored vocabulary is unreadable")
)
