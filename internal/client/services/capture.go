// Package services contains application services for the label-scanning
// client. CaptureService turns a photo into the current analysis.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/healthyindia/labelscan/internal/client/archive"
	"github.com/healthyindia/labelscan/internal/client/labels"
	"github.com/healthyindia/labelscan/internal/client/models"
	"github.com/healthyindia/labelscan/internal/logging"
)

// ErrEmptyImage is returned for a zero-length photo.
var ErrEmptyImage = errors.New("image is empty")

// Analyzer is the remote analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte) (*labels.AnalysisResult, error)
}

// CaptureService analyzes photos, publishes the result on a Board and
// archives the photo.
//
// Contract:
//   - Capture: clear the board, analyze, publish on success, archive.
//   - Matches: ingredients behind a label of a given capture.
//
// Archive failures are logged and never fail a capture.
type CaptureService struct {
	analyzer Analyzer
	archive  archive.Archive
	board    *labels.Board
	log      logging.Logger
}

// NewCaptureService wires the service. A nil archive disables archiving.
func NewCaptureService(analyzer Analyzer, arch archive.Archive, board *labels.Board, log logging.Logger) *CaptureService {
	if arch == nil {
		arch = archive.Nop{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &CaptureService{
		analyzer: analyzer,
		archive:  arch,
		board:    board,
		log:      log.With("component", "capture"),
	}
}

// Capture runs one photo through the analysis service. The previous result
// is discarded before the request is sent, so a failed capture leaves the
// board empty.
func (s *CaptureService) Capture(ctx context.Context, who models.Identity, image []byte) (labels.Capture, error) {
	s.board.Reset()

	if len(image) == 0 {
		return labels.Capture{}, ErrEmptyImage
	}

	result, err := s.analyzer.Analyze(ctx, image)
	if err != nil {
		s.log.Warn(ctx, "analysis failed", "error", err)
		return labels.Capture{}, fmt.Errorf("analyze: %w", err)
	}

	c := s.board.Replace(result)
	s.log.Info(ctx, "capture analyzed",
		"capture_id", c.ID,
		"labels", len(result.ProductLabels),
		"ingredients", len(result.IngredientsAnalyzed))

	key, err := s.archive.Put(ctx, who.UserID, c.ID, image)
	if err != nil {
		s.log.Warn(ctx, "capture not archived", "capture_id", c.ID, "error", err)
	} else {
		s.log.Debug(ctx, "capture archived", "key", key)
	}
	return c, nil
}

// Current returns the capture on the board.
func (s *CaptureService) Current() (labels.Capture, error) {
	return s.board.Current()
}

// Chips returns the current labels with their warning flag.
func (s *CaptureService) Chips() []labels.Chip {
	return s.board.Chips()
}

// Matches returns the ingredients justifying label in capture captureID.
func (s *CaptureService) Matches(captureID, label string) ([]string, error) {
	return s.board.Matches(captureID, label)
}

// Ingredients returns the ingredients, with their details, justifying label
// in capture captureID.
func (s *CaptureService) Ingredients(captureID, label string) ([]labels.Ingredient, error) {
	return s.board.Ingredients(captureID, label)
}

// Discard clears the board, e.g. on logout.
func (s *CaptureService) Discard() {
	s.board.Reset()
}
