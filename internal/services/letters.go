package services

import (
	"context"
	"errors"
	"strings"

	"github.com/playfinity/playfinity-backend/internal/clients/azure"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/types"
)

// LetterService verifies hand-drawn letters for the drawing game by
// running the submitted image through text recognition and comparing
// against the expected letter.
type LetterService struct {
	log    *logger.Logger
	reader azure.ReadClient
}

func NewLetterService(log *logger.Logger, reader azure.ReadClient) *LetterService {
	return &LetterService{
		log:    log.With("service", "LetterService"),
		reader: reader,
	}
}

func (ls *LetterService) Enabled() bool {
	return ls.reader != nil
}

// CheckLetter recognizes text in the image and reports whether the
// expected letter appears. Exact line matches are high confidence;
// substring and leading-character matches are low. Recognition
// timeouts are reported distinctly from a wrong answer.
func (ls *LetterService) CheckLetter(ctx context.Context, img []byte, expected string) types.LetterCheckResult {
	want := strings.ToUpper(strings.TrimSpace(expected))
	if want == "" {
		return types.LetterCheckResult{Expected: expected, Error: "no expected letter provided"}
	}
	if ls.reader == nil {
		return types.LetterCheckResult{Expected: want, Error: "letter recognition unavailable"}
	}

	result, err := ls.reader.RecognizeText(ctx, img)
	if err != nil {
		if errors.Is(err, azure.ErrTimeout) {
			ls.log.Warn("Letter recognition timed out", "expected", want)
			return types.LetterCheckResult{Expected: want, Error: "recognition timed out"}
		}
		ls.log.Error("Letter recognition failed", "expected", want, "error", err.Error())
		return types.LetterCheckResult{Expected: want, Error: err.Error()}
	}

	detected := make([]string, 0, len(result.Texts))
	for _, t := range result.Texts {
		if u := strings.ToUpper(strings.TrimSpace(t)); u != "" {
			detected = append(detected, u)
		}
	}

	out := types.LetterCheckResult{
		Success:     true,
		Expected:    want,
		AllDetected: detected,
	}

	for _, d := range detected {
		if d == want {
			out.Correct = true
			out.Detected = d
			out.Confidence = "high"
			return out
		}
	}
	for _, d := range detected {
		if strings.Contains(d, want) || strings.HasPrefix(d, want) {
			out.Correct = true
			out.Detected = d
			out.Confidence = "low"
			return out
		}
	}

	if len(detected) > 0 {
		out.Detected = detected[0]
	}
	ls.log.Info("Letter check mismatch", "expected", want, "detected", out.Detected)
	return out
}
