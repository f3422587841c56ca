package ui

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ReviewCallbackPrefix = "r:"
	ShowCallbackPrefix   = "r:show:"
	FeedbackPrefix       = "r:fb:"
	MaxCallbackDataLen   = 64
)

type ReviewOp string

const (
	OpShow     ReviewOp = "show"
	OpFeedback ReviewOp = "fb"
)

// ReviewAction is a decoded review button press. Remembered is only
// meaningful for OpFeedback.
type ReviewAction struct {
	Op         ReviewOp
	Token      string
	Remembered bool
}

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidAction       = errors.New("invalid callback action")
	errInvalidToken        = errors.New("invalid callback token")
	errInvalidAnswer       = errors.New("invalid callback answer")
	errCallbackDataTooLong = errors.New("callback data too long")
)

func BuildShowCallback(token string) (string, error) {
	if err := validateToken(token); err != nil {
		return "", err
	}
	return ensureLength(ShowCallbackPrefix + token)
}

func BuildFeedbackCallback(token string, remembered bool) (string, error) {
	if err := validateToken(token); err != nil {
		return "", err
	}
	answer := "n"
	if remembered {
		answer = "y"
	}
	return ensureLength(fmt.Sprintf("%s%s:%s", FeedbackPrefix, token, answer))
}

func ParseReviewCallback(data string) (ReviewAction, error) {
	if data == "" {
		return ReviewAction{}, errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return ReviewAction{}, errCallbackDataTooLong
	}
	if !strings.HasPrefix(data, ReviewCallbackPrefix) {
		return ReviewAction{}, errInvalidPrefix
	}

	parts := strings.Split(data, ":")
	switch {
	case len(parts) == 3 && parts[1] == string(OpShow):
		if err := validateToken(parts[2]); err != nil {
			return ReviewAction{}, err
		}
		return ReviewAction{Op: OpShow, Token: parts[2]}, nil
	case len(parts) == 4 && parts[1] == string(OpFeedback):
		if err := validateToken(parts[2]); err != nil {
			return ReviewAction{}, err
		}
		switch parts[3] {
		case "y":
			return ReviewAction{Op: OpFeedback, Token: parts[2], Remembered: true}, nil
		case "n":
			return ReviewAction{Op: OpFeedback, Token: parts[2]}, nil
		default:
			return ReviewAction{}, errInvalidAnswer
		}
	default:
		return ReviewAction{}, errInvalidAction
	}
}

func validateToken(token string) error {
	if token == "" || strings.Contains(token, ":") {
		return errInvalidToken
	}
	return nil
}

func ensureLength(data string) (string, error) {
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	return data, nil
}
