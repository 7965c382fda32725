package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthyindia/labelscan/internal/client/labels"
	"github.com/healthyindia/labelscan/internal/client/models"
	"github.com/healthyindia/labelscan/internal/logging"
)

type fakeAnalyzer struct {
	result *labels.AnalysisResult
	err    error
	calls  int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ []byte) (*labels.AnalysisResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeArchive struct {
	keys []string
	err  error
}

func (f *fakeArchive) Put(_ context.Context, userID, captureID string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	k := userID + "/" + captureID
	f.keys = append(f.keys, k)
	return k, nil
}

var who = models.Identity{UserID: "u-1", Name: "Asha"}

func sampleResult() *labels.AnalysisResult {
	return &labels.AnalysisResult{
		ProductLabels: []string{"Unhealthy Level", "Processed"},
		IngredientsAnalyzed: []labels.Ingredient{
			{Name: "Sugar", SafetyLevel: "Above Safe Limit", ProcessingLevel: "Processed"},
			{Name: "Oats", SafetyLevel: "Within Safe Limit", ProcessingLevel: "Unprocessed"},
		},
	}
}

func TestCapture_PublishesAndArchives(t *testing.T) {
	an := &fakeAnalyzer{result: sampleResult()}
	arch := &fakeArchive{}
	svc := NewCaptureService(an, arch, labels.NewBoard(), nil)

	c, err := svc.Capture(context.Background(), who, []byte("jpeg"))
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	assert.Equal(t, []string{"u-1/" + c.ID}, arch.keys)

	got, err := svc.Matches(c.ID, "Unhealthy Level")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sugar"}, got)

	ings, err := svc.Ingredients(c.ID, "Unhealthy Level")
	require.NoError(t, err)
	require.Len(t, ings, 1)
	assert.Equal(t, "Sugar", ings[0].Name)

	assert.Equal(t, []labels.Chip{
		{Label: "Unhealthy Level", Warning: true},
		{Label: "Processed"},
	}, svc.Chips())
}

func TestCapture_FailureClearsPrevious(t *testing.T) {
	an := &fakeAnalyzer{result: sampleResult()}
	svc := NewCaptureService(an, nil, labels.NewBoard(), nil)

	first, err := svc.Capture(context.Background(), who, []byte("jpeg"))
	require.NoError(t, err)

	an.err = errors.New("analysis failed: no text")
	_, err = svc.Capture(context.Background(), who, []byte("jpeg"))
	require.Error(t, err)

	_, err = svc.Current()
	assert.ErrorIs(t, err, labels.ErrNoCapture)
	_, err = svc.Matches(first.ID, "Processed")
	assert.ErrorIs(t, err, labels.ErrStaleCapture)
}

func TestCapture_ArchiveFailureIsNotFatal(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Options{Level: "debug", Format: logging.FormatJSON, Output: &buf})

	svc := NewCaptureService(&fakeAnalyzer{result: sampleResult()}, &fakeArchive{err: errors.New("bucket gone")}, labels.NewBoard(), log)
	c, err := svc.Capture(context.Background(), who, []byte("jpeg"))
	require.NoError(t, err)

	cur, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, c.ID, cur.ID)
	assert.Contains(t, buf.String(), "capture not archived")
}

func TestCapture_EmptyImage(t *testing.T) {
	an := &fakeAnalyzer{result: sampleResult()}
	svc := NewCaptureService(an, nil, labels.NewBoard(), nil)

	_, err := svc.Capture(context.Background(), who, nil)
	assert.ErrorIs(t, err, ErrEmptyImage)
	assert.Equal(t, 0, an.calls)
}

func TestDiscard(t *testing.T) {
	svc := NewCaptureService(&fakeAnalyzer{result: sampleResult()}, nil, labels.NewBoard(), nil)
	_, err := svc.Capture(context.Background(), who, []byte("jpeg"))
	require.NoError(t, err)

	svc.Discard()
	assert.Nil(t, svc.Chips())
}
