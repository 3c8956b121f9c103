// Package confirm implements the asynchronous confirmation workflow backing
// destructive actions and unsaved-changes prompts.
//
// A Workflow shows at most one prompt at a time; concurrent requests queue
// and start in order. The acknowledgment rule for destructive prompts is
// enforced here, not trusted to callers: Confirm is a no-op until the user
// has acknowledged.
package confirm

import (
	"context"
	"sync"

	"github.com/trezcool/darasa/core/reactive"
)

// Request describes a confirmation prompt.
type Request struct {
	Title          string
	Message        string
	AdditionalInfo string
	ConfirmText    string
	CancelText     string
	Destructive    bool
	// RequireAcknowledgment adds a checkbox the user must tick before the
	// confirm action becomes available. Only meaningful with Destructive.
	RequireAcknowledgment bool
	AcknowledgmentText    string
}

// Result is the user's answer.
type Result struct {
	Confirmed    bool
	Acknowledged bool
}

// Delete builds the standard deletion prompt for a named item.
func Delete(itemName, additionalInfo string) Request {
	if additionalInfo == "" {
		additionalInfo = "This action cannot be undone."
	}
	return Request{
		Title:                 "Delete Confirmation",
		Message:               `Are you sure you want to delete "` + itemName + `"?`,
		AdditionalInfo:        additionalInfo,
		ConfirmText:           "Delete",
		CancelText:            "Cancel",
		Destructive:           true,
		RequireAcknowledgment: true,
		AcknowledgmentText:    "I understand this action cannot be undone",
	}
}

// UnsavedChanges builds the standard leave-without-saving prompt.
func UnsavedChanges() Request {
	return Request{
		Title:          "Unsaved Changes",
		Message:        "You have unsaved changes that will be lost.",
		AdditionalInfo: "Are you sure you want to continue without saving?",
		ConfirmText:    "Leave Without Saving",
		CancelText:     "Stay",
		Destructive:    true,
	}
}

// Action builds an informational prompt.
func Action(title, message, confirmText string) Request {
	if confirmText == "" {
		confirmText = "Continue"
	}
	return Request{
		Title:       title,
		Message:     message,
		ConfirmText: confirmText,
		CancelText:  "Cancel",
	}
}

// Workflow queues and runs confirmation prompts.
type Workflow struct {
	mu     sync.Mutex
	active *Prompt
	queue  []*Prompt

	// current renderable prompt; nil when none is open
	activeCell *reactive.Cell[*Prompt]
}

func NewWorkflow() *Workflow {
	return &Workflow{activeCell: reactive.NewCell[*Prompt](nil)}
}

// Open submits a request. The returned prompt starts immediately if no other
// prompt is open, otherwise it is queued. The caller suspends on Done();
// cancelling ctx resolves the prompt as not confirmed.
func (wf *Workflow) Open(ctx context.Context, req Request) *Prompt {
	p := &Prompt{
		wf:   wf,
		req:  req,
		done: make(chan Result, 1),
	}

	wf.mu.Lock()
	start := wf.active == nil
	if start {
		wf.active = p
	} else {
		wf.queue = append(wf.queue, p)
	}
	wf.mu.Unlock()

	if start {
		p.start()
		wf.activeCell.Set(p)
	}
	if ctx != nil && ctx.Done() != nil {
		stop := context.AfterFunc(ctx, p.Cancel)
		p.mu.Lock()
		p.stopWatch = stop
		p.mu.Unlock()
	}
	return p
}

// Active exposes the currently open prompt for rendering; nil when none.
func (wf *Workflow) Active() *reactive.Cell[*Prompt] {
	return wf.activeCell
}

// finish retires p and starts the next queued prompt, if any.
func (wf *Workflow) finish(p *Prompt) {
	wf.mu.Lock()
	if wf.active == p {
		wf.active = nil
		if len(wf.queue) > 0 {
			wf.active = wf.queue[0]
			wf.queue = wf.queue[1:]
		}
	} else {
		// cancelled while still queued
		for i, q := range wf.queue {
			if q == p {
				wf.queue = append(wf.queue[:i], wf.queue[i+1:]...)
				break
			}
		}
	}
	next := wf.active
	wf.mu.Unlock()

	if next != nil {
		next.start()
	}
	wf.activeCell.Set(next)
}

// Prompt is a single open (or queued) confirmation.
type Prompt struct {
	wf  *Workflow
	req Request

	mu           sync.Mutex
	started      bool
	acknowledged bool
	resolved     bool
	stopWatch    func() bool

	done chan Result
}

func (p *Prompt) Request() Request { return p.req }

// start marks the prompt as the one on screen; the workflow calls it when the
// prompt opens or is promoted from the queue.
func (p *Prompt) start() {
	p.mu.Lock()
	p.started = true
	p.mu.Unlock()
}

// SetAcknowledged records the state of the acknowledgment checkbox.
// Clearing it re-disables the confirm action.
func (p *Prompt) SetAcknowledged(v bool) {
	p.mu.Lock()
	p.acknowledged = v
	p.mu.Unlock()
}

func (p *Prompt) Acknowledged() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acknowledged
}

// CanConfirm reports whether the confirm action is currently available.
// A destructive prompt requiring acknowledgment cannot confirm until the
// user has acknowledged.
func (p *Prompt) CanConfirm() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canConfirmLocked()
}

func (p *Prompt) canConfirmLocked() bool {
	if !p.started || p.resolved {
		return false
	}
	if p.req.Destructive && p.req.RequireAcknowledgment && !p.acknowledged {
		return false
	}
	return true
}

// Confirm resolves the prompt positively. It reports false (and resolves
// nothing) while CanConfirm is false.
func (p *Prompt) Confirm() bool {
	p.mu.Lock()
	if !p.canConfirmLocked() {
		p.mu.Unlock()
		return false
	}
	res := Result{Confirmed: true, Acknowledged: p.acknowledged}
	p.resolveLocked(res)
	p.mu.Unlock()

	p.wf.finish(p)
	return true
}

// Cancel resolves the prompt negatively. Safe to call at any point;
// resolving twice is a no-op.
func (p *Prompt) Cancel() {
	p.mu.Lock()
	if p.resolved {
		p.mu.Unlock()
		return
	}
	res := Result{Confirmed: false, Acknowledged: p.acknowledged}
	p.resolveLocked(res)
	p.mu.Unlock()

	p.wf.finish(p)
}

// Dismiss is a dismissal gesture (escape, click-away); it cancels.
func (p *Prompt) Dismiss() { p.Cancel() }

// Done delivers the result once the user (or a cancellation) resolves the
// prompt.
func (p *Prompt) Done() <-chan Result { return p.done }

// resolveLocked finalizes the result. Caller holds p.mu.
func (p *Prompt) resolveLocked(res Result) {
	p.resolved = true
	if p.stopWatch != nil {
		p.stopWatch()
		p.stopWatch = nil
	}
	p.done <- res
	close(p.done)
}
