package executor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macroplay/internal/calibration"
	"macroplay/internal/command"
	imageInternal "macroplay/internal/image"
	"macroplay/internal/logger"
	"macroplay/internal/session"
)

type recordingBackend struct {
	events    []string
	clipboard string
	failMove  bool
}

func (r *recordingBackend) MoveTo(x, y int) error {
	if r.failMove {
		return errors.New("pointer locked")
	}
	r.events = append(r.events, fmt.Sprintf("move %d,%d", x, y))
	return nil
}

func (r *recordingBackend) Click(button string, count int) error {
	r.events = append(r.events, fmt.Sprintf("click %s %d", button, count))
	return nil
}

func (r *recordingBackend) KeyPress(key string) error {
	r.events = append(r.events, "press "+key)
	return nil
}

func (r *recordingBackend) KeyRelease(key string) error {
	r.events = append(r.events, "release "+key)
	return nil
}

func (r *recordingBackend) Position() (int, int, error) { return 0, 0, nil }

func (r *recordingBackend) SetClipboard(text string) error {
	r.clipboard = text
	r.events = append(r.events, "clipboard")
	return nil
}

type stubLocator struct {
	results map[string]*imageInternal.MatchResult
	calls   []string
}

func (s *stubLocator) LocateFile(path string, threshold float64) (*imageInternal.MatchResult, error) {
	s.calls = append(s.calls, path)
	res, ok := s.results[path]
	if !ok {
		return nil, &imageInternal.ImageLoadError{Path: path, Err: os.ErrNotExist}
	}
	return res, nil
}

type fakeJournal struct {
	started  int
	steps    []StepResult
	finished RunStatus
	stopAt   int
	polls    int
}

func (j *fakeJournal) StartRun(total int) (int64, error) {
	j.started = total
	return 7, nil
}

func (j *fakeJournal) RecordStep(runID int64, result StepResult) error {
	j.steps = append(j.steps, result)
	return nil
}

func (j *fakeJournal) FinishRun(runID int64, status RunStatus) error {
	j.finished = status
	return nil
}

func (j *fakeJournal) StopRequested() (bool, error) {
	j.polls++
	return j.stopAt > 0 && j.polls >= j.stopAt, nil
}

func newTestEngine(b *recordingBackend, loc Locator, opts ...Option) (*Engine, *[]time.Duration) {
	var sleeps []time.Duration
	base := []Option{
		WithGuard(&session.Guard{}),
		WithSleep(func(d time.Duration) { sleeps = append(sleeps, d) }),
		WithPasteModifier("ctrl"),
	}
	if loc == nil {
		loc = &stubLocator{}
	}
	return NewEngine(b, loc, logger.Nop(), append(base, opts...)...), &sleeps
}

func TestExecuteMoveWithOffsetThenClick(t *testing.T) {
	b := &recordingBackend{}
	e, _ := newTestEngine(b, nil)

	list := command.CommandList{
		command.NewMouseMoveTo(10, 10, 1),
		command.NewMouseClick(2, 2),
	}
	report, err := e.Execute(context.Background(), list, calibration.OffsetParams{OffsetX: 5, OffsetY: -5})
	require.NoError(t, err)

	assert.Equal(t, []string{"move 15,5", "click left 2"}, b.events)
	assert.Equal(t, RunCompleted, report.Status)
	assert.Equal(t, 2, report.Count(OutcomeDone))
}

func TestExecuteOrdersByOrderStable(t *testing.T) {
	b := &recordingBackend{}
	e, _ := newTestEngine(b, nil)

	list := command.CommandList{
		command.NewMouseClick(3, 2),
		command.NewMouseMoveTo(1, 1, 1),
		command.NewMouseClick(1, 2),
	}
	_, err := e.Execute(context.Background(), list, calibration.OffsetParams{})
	require.NoError(t, err)

	assert.Equal(t, []string{"move 1,1", "click left 3", "click left 1"}, b.events)
}

func TestExecuteShortcutOrder(t *testing.T) {
	b := &recordingBackend{}
	e, _ := newTestEngine(b, nil)

	list := command.CommandList{command.NewKeyboardShortcut([]string{"ctrl", "a"}, 1)}
	_, err := e.Execute(context.Background(), list, calibration.OffsetParams{})
	require.NoError(t, err)

	assert.Equal(t, []string{"press ctrl", "press a", "release ctrl", "release a"}, b.events)
}

func TestExecuteKeyboardInputPastes(t *testing.T) {
	b := &recordingBackend{}
	e, _ := newTestEngine(b, nil)

	list := command.CommandList{command.NewKeyboardInput("Hello", 1)}
	_, err := e.Execute(context.Background(), list, calibration.OffsetParams{})
	require.NoError(t, err)

	assert.Equal(t, "Hello", b.clipboard)
	assert.Equal(t, []string{"clipboard", "press ctrl", "press v", "release v", "release ctrl"}, b.events)
}

func TestExecuteImageMoveIgnoresOffset(t *testing.T) {
	b := &recordingBackend{}
	loc := &stubLocator{results: map[string]*imageInternal.MatchResult{
		"btn.png": {Center: image.Pt(300, 200), Confidence: 0.97},
	}}
	e, _ := newTestEngine(b, loc)

	list := command.CommandList{command.NewMouseMoveToImage("btn.png", 1)}
	_, err := e.Execute(context.Background(), list, calibration.OffsetParams{OffsetX: 50, OffsetY: 50})
	require.NoError(t, err)

	assert.Equal(t, []string{"move 300,200"}, b.events)
}

func TestExecuteFailedImageMoveContinues(t *testing.T) {
	b := &recordingBackend{}
	loc := &stubLocator{results: map[string]*imageInternal.MatchResult{"absent.png": nil}}
	e, sleeps := newTestEngine(b, loc)

	list := command.CommandList{
		command.NewMouseMoveToImage("absent.png", 1),
		command.NewMouseMoveToImage("broken.png", 2),
		command.NewMouseClick(1, 3),
	}
	report, err := e.Execute(context.Background(), list, calibration.OffsetParams{})
	require.NoError(t, err)

	assert.Equal(t, []string{"click left 1"}, b.events)
	assert.Equal(t, []string{"absent.png", "broken.png"}, loc.calls)
	require.Len(t, report.Steps, 3)
	assert.Equal(t, OutcomeSkipped, report.Steps[0].Outcome)
	assert.ErrorIs(t, report.Steps[0].Err, ErrNoMatch)
	assert.Equal(t, OutcomeSkipped, report.Steps[1].Outcome)
	var loadErr *imageInternal.ImageLoadError
	assert.ErrorAs(t, report.Steps[1].Err, &loadErr)
	assert.Equal(t, OutcomeDone, report.Steps[2].Outcome)
	assert.Len(t, *sleeps, 3, "пауза после каждого шага, даже неудачного")
}

func TestExecuteBackendErrorFailsStep(t *testing.T) {
	b := &recordingBackend{failMove: true}
	e, _ := newTestEngine(b, nil)

	list := command.CommandList{command.NewMouseMoveTo(1, 1, 1), command.NewMouseClick(1, 2)}
	report, err := e.Execute(context.Background(), list, calibration.OffsetParams{})
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, report.Steps[0].Outcome)
	assert.Equal(t, OutcomeDone, report.Steps[1].Outcome)
	assert.Equal(t, []string{"click left 1"}, b.events)
}

func TestExecuteDelays(t *testing.T) {
	b := &recordingBackend{}
	e, sleeps := newTestEngine(b, nil)

	slow := command.WithStep(command.NewMouseClick(1, 1), command.NewMouseClick(1, 1).StepInfo().WithDelay(0.5))
	list := command.CommandList{slow, command.NewMouseClick(1, 2)}
	_, err := e.Execute(context.Background(), list, calibration.OffsetParams{})
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{500 * time.Millisecond, command.DefaultDelay}, *sleeps)
}

func TestExecuteBusy(t *testing.T) {
	guard := &session.Guard{}
	release, err := guard.TryAcquire("calibration")
	require.NoError(t, err)
	defer release()

	b := &recordingBackend{}
	e, _ := newTestEngine(b, nil, WithGuard(guard))

	_, err = e.Execute(context.Background(), command.CommandList{command.NewMouseClick(1, 1)}, calibration.OffsetParams{})
	assert.ErrorIs(t, err, session.ErrBusy)
	assert.Empty(t, b.events)
}

func TestExecuteReleasesGuard(t *testing.T) {
	guard := &session.Guard{}
	e, _ := newTestEngine(&recordingBackend{}, nil, WithGuard(guard))

	_, err := e.Execute(context.Background(), nil, calibration.OffsetParams{})
	require.NoError(t, err)
	assert.Empty(t, guard.Owner())
}

func TestExecuteInterruptBetweenSteps(t *testing.T) {
	b := &recordingBackend{}
	interrupts := make(chan bool, 1)
	var e *Engine
	e, _ = newTestEngine(b, nil,
		WithInterrupts(interrupts),
		WithSleep(func(time.Duration) {
			select {
			case interrupts <- true:
			default:
			}
		}),
	)

	list := command.CommandList{command.NewMouseClick(1, 1), command.NewMouseClick(2, 2)}
	report, err := e.Execute(context.Background(), list, calibration.OffsetParams{})
	require.NoError(t, err)

	assert.Equal(t, []string{"click left 1"}, b.events)
	assert.Equal(t, RunStopped, report.Status)
	assert.Len(t, report.Steps, 1)
}

func TestExecuteCancelledContext(t *testing.T) {
	b := &recordingBackend{}
	e, _ := newTestEngine(b, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := e.Execute(ctx, command.CommandList{command.NewMouseClick(1, 1)}, calibration.OffsetParams{})
	require.NoError(t, err)

	assert.Empty(t, b.events)
	assert.Equal(t, RunStopped, report.Status)
}

func TestExecuteJournal(t *testing.T) {
	b := &recordingBackend{}
	j := &fakeJournal{stopAt: 3}
	e, _ := newTestEngine(b, nil, WithJournal(j))

	list := command.CommandList{
		command.NewMouseClick(1, 1),
		command.NewMouseClick(2, 2),
		command.NewMouseClick(3, 3),
	}
	report, err := e.Execute(context.Background(), list, calibration.OffsetParams{})
	require.NoError(t, err)

	assert.Equal(t, 3, j.started)
	assert.Len(t, j.steps, 2)
	assert.Equal(t, RunStopped, j.finished)
	assert.Equal(t, RunStopped, report.Status)
}

func TestExecuteWithRealLocatorMissingFile(t *testing.T) {
	b := &recordingBackend{}
	loc := imageInternal.NewScreenLocator(staticCapturer{}, 1, 0, logger.Nop())
	e, _ := newTestEngine(b, loc)

	missing := filepath.Join(t.TempDir(), "none.png")
	report, err := e.Execute(context.Background(), command.CommandList{command.NewMouseMoveToImage(missing, 1)}, calibration.OffsetParams{})
	require.NoError(t, err)

	assert.Empty(t, b.events)
	assert.Equal(t, OutcomeSkipped, report.Steps[0].Outcome)
}

type staticCapturer struct{}

func (staticCapturer) CaptureScreen() (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}
