// Package upload validates and submits a resume with its job description.
package upload

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/UtsavYadav1/CareerBERT/internal/alerts"
	"github.com/UtsavYadav1/CareerBERT/internal/apiclient"
	"github.com/UtsavYadav1/CareerBERT/internal/push"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/metrics"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/sched"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
	"github.com/UtsavYadav1/CareerBERT/internal/view"
)

// Simulated progress parameters.
const (
	SimulationTick = 200 * time.Millisecond
	SimulationStep = 15.0
	SimulationCap  = 90.0
)

const (
	msgRequestFailed = "An error occurred while processing your request"
	msgRejected      = "An error occurred"
)

// Backend accepts uploads.
type Backend interface {
	Upload(ctx context.Context, in apiclient.UploadInput) (apiclient.UploadResponse, error)
}

// Starter opens server-side processing over the push channel.
type Starter interface {
	Start(p push.StartPayload) error
}

// Controller drives one upload page.
type Controller struct {
	s        *sched.Scheduler
	bar      *view.ProgressBar
	submit   *view.Control
	notifier *alerts.Notifier
	backend  Backend
	channel  Starter

	rand      func() float64
	sim       *sched.Task
	simulated float64
	onStart   func()
}

// NewController builds a controller. The page session owns s, bar, submit and notifier.
func NewController(s *sched.Scheduler, bar *view.ProgressBar, submit *view.Control, notifier *alerts.Notifier, backend Backend, channel Starter) *Controller {
	return &Controller{
		s:        s,
		bar:      bar,
		submit:   submit,
		notifier: notifier,
		backend:  backend,
		channel:  channel,
		rand:     rand.Float64,
	}
}

// SetRand replaces the increment source used by the simulation.
func (c *Controller) SetRand(fn func() float64) { c.rand = fn }

// OnStart registers fn to run inside the scheduler once the upload is accepted.
func (c *Controller) OnStart(fn func()) { c.onStart = fn }

// SelectFile checks a picked file and reports the outcome as an alert.
func (c *Controller) SelectFile(path string) (Form, error) {
	f, err := ReadResume(path)
	c.s.Do(func() {
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				c.notifier.Show(view.LevelWarning, ve.Message)
				return
			}
			c.notifier.Show(view.LevelDanger, err.Error())
			return
		}
		c.notifier.Show(view.LevelSuccess, MsgFileSelected)
	})
	return f, err
}

// Submit validates f, uploads it, and sends the start message. Invalid input
// returns an ErrValidation error without touching the network.
func (c *Controller) Submit(ctx context.Context, f Form) error {
	if err := Validate(f); err != nil {
		metrics.IncValidationError()
		c.s.Do(func() {
			c.notifier.Show(view.LevelWarning, Message(err))
		})
		return err
	}

	c.s.Do(func() {
		c.bar.Show()
		c.startSimulation()
		c.submit.Busy(view.SubmitBusyLabel)
	})
	metrics.IncUploadStarted()
	telemetry.Info("upload.start", map[string]any{"filename": f.FileName, "bytes": len(f.Resume), "has_location": f.Location != ""})

	resp, err := c.backend.Upload(ctx, apiclient.UploadInput{
		FileName:       f.FileName,
		Resume:         f.Resume,
		JobDescription: f.JobDescription,
		Location:       f.Location,
	})
	if err == nil {
		err = c.channel.Start(push.StartPayload{
			Filename:       resp.Filename,
			JobDescription: f.JobDescription,
			Location:       f.Location,
		})
	}

	c.s.Do(func() {
		if err != nil {
			c.rollback(err)
			return
		}
		if c.onStart != nil {
			c.onStart()
		}
	})
	if err != nil {
		return err
	}
	telemetry.Info("upload.accepted", map[string]any{"filename": resp.Filename})
	return nil
}

func (c *Controller) rollback(err error) {
	metrics.IncUploadFailed()
	telemetry.Error("upload.failed", map[string]any{"error": err})

	msg := msgRequestFailed
	var rej *apiclient.RejectedError
	if errors.As(err, &rej) {
		msg = msgRejected
		if rej.Message != "" {
			msg = rej.Message
		}
	}
	c.StopSimulation()
	c.bar.Hide()
	c.notifier.Show(view.LevelDanger, msg)
	c.submit.Restore(view.SubmitLabel)
}

func (c *Controller) startSimulation() {
	c.StopSimulation()
	c.simulated = 0
	c.sim = c.s.Every(SimulationTick, func() {
		c.simulated += c.rand() * SimulationStep
		if c.simulated > SimulationCap {
			c.simulated = SimulationCap
			c.StopSimulation()
		}
		c.bar.Update(c.simulated, c.simulated)
	})
}

// StopSimulation cancels the simulated progress. Safe to call at any time.
func (c *Controller) StopSimulation() {
	c.sim.Cancel()
	c.sim = nil
}

// Simulating reports whether simulated progress is still ticking.
func (c *Controller) Simulating() bool { return c.sim.Active() }
