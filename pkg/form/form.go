package form

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"agentrix/entities"
	"agentrix/pkg/advice/client"
)

const (
	DefaultGPS      = "17.3850, 78.4867"
	DefaultSoilType = "alluvial soil"

	requestLang = "en"

	errPrefix      = "Error: "
	fallbackDetail = "Something went wrong"
	connectMessage = "Error: Could not connect to the backend. Is it running?"
)

// Form owns the input fields and the request state of one advice form.
// All methods are safe for concurrent use.
type Form struct {
	client client.Client
	log    *zap.Logger

	mu    sync.Mutex
	input entities.FormInput
	state State
	seq   uint64
}

func New(c client.Client, log *zap.Logger) *Form {
	if log == nil {
		log = zap.NewNop()
	}
	return &Form{
		client: c,
		log:    log,
		input:  entities.FormInput{GPS: DefaultGPS, SoilType: DefaultSoilType},
	}
}

func (f *Form) SetGPS(v string) {
	f.mu.Lock()
	f.input.GPS = v
	f.mu.Unlock()
}

func (f *Form) SetSoilType(v string) {
	f.mu.Lock()
	f.input.SoilType = v
	f.mu.Unlock()
}

// SetLeafPhoto replaces the selected photo; nil clears it.
func (f *Form) SetLeafPhoto(p *entities.LeafPhoto) {
	f.mu.Lock()
	f.input.LeafPhoto = p
	f.mu.Unlock()
}

func (f *Form) Input() entities.FormInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Task tracks one in-flight submit.
type Task struct {
	Seq  uint64
	done chan struct{}

	// written before done is closed
	outcome State
	applied bool
}

// Done is closed once the request has settled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the request settles. It reports the state this submit
// resolved to and whether that state was applied to the form; a submit
// superseded by a newer one is never applied.
func (t *Task) Wait(ctx context.Context) (State, bool, error) {
	select {
	case <-t.done:
		return t.outcome, t.applied, nil
	case <-ctx.Done():
		return State{}, false, ctx.Err()
	}
}

// Submit moves the form to Loading and sends the current input in the
// background. Only the most recent submit may move the form out of Loading.
func (f *Form) Submit(ctx context.Context) *Task {
	f.mu.Lock()
	f.seq++
	seq := f.seq
	f.state = State{Phase: Loading, Seq: seq}
	in := f.input
	f.mu.Unlock()

	t := &Task{Seq: seq, done: make(chan struct{})}
	req := entities.AdviceRequest{GPS: in.GPS, SoilType: in.SoilType, Lang: requestLang}

	go func() {
		defer close(t.done)
		adv, err := f.client.GetAdvice(ctx, req, in.LeafPhoto)
		out := resolve(adv, err)
		out.Seq = seq

		f.mu.Lock()
		if f.seq == seq {
			f.state = out
			t.applied = true
		}
		f.mu.Unlock()
		t.outcome = out

		if err != nil {
			f.log.Warn("advice request failed", zap.Uint64("seq", seq), zap.Error(err))
		}
		if !t.applied {
			f.log.Debug("discarding stale advice result", zap.Uint64("seq", seq))
		}
	}()
	return t
}

// resolve maps a client outcome onto the state the form shows.
func resolve(adv *entities.Advice, err error) State {
	if err == nil && adv != nil {
		return State{Phase: Succeeded, Result: adv}
	}
	var se *client.ServerError
	if errors.As(err, &se) {
		detail := se.Detail
		if detail == "" {
			detail = fallbackDetail
		}
		return State{Phase: Failed, Result: &entities.Advice{En: errPrefix + detail}}
	}
	return State{Phase: Failed, Result: &entities.Advice{En: connectMessage}}
}
