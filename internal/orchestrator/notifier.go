package orchestrator

import "github.com/law-makers/collegecrawl/pkg/models"

// Notifier receives one-way run notifications. Implementations must return quickly;
// the run never waits on the consumer for anything but the call itself.
type Notifier interface {
	Progress(models.ProgressEvent)
	Result(models.ResultEvent)
	Done(models.DoneEvent)
}

// NotifierFuncs adapts plain functions to Notifier. Nil fields are skipped.
type NotifierFuncs struct {
	OnProgress func(models.ProgressEvent)
	OnResult   func(models.ResultEvent)
	OnDone     func(models.DoneEvent)
}

func (f NotifierFuncs) Progress(e models.ProgressEvent) {
	if f.OnProgress != nil {
		f.OnProgress(e)
	}
}

func (f NotifierFuncs) Result(e models.ResultEvent) {
	if f.OnResult != nil {
		f.OnResult(e)
	}
}

func (f NotifierFuncs) Done(e models.DoneEvent) {
	if f.OnDone != nil {
		f.OnDone(e)
	}
}

type nopNotifier struct{}

func (nopNotifier) Progress(models.ProgressEvent) {}
func (nopNotifier) Result(models.ResultEvent)     {}
func (nopNotifier) Done(models.DoneEvent)         {}
