package tui

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/alastify/vufind/internal/core/lightbox"
)

// CallbackMsg carries a transport completion back onto the event loop.
// The model runs Fn during Update so controller callbacks never race
// with rendering.
type CallbackMsg struct {
	Fn func()
}

// ModalClosedMsg signals that a modal dismissal should complete.
type ModalClosedMsg struct{}

// Dispatcher queues messages for a Bubble Tea program. It is created
// before the program so the AJAX client and modal view can be wired
// first; messages sent before Attach are replayed once the program's
// send function is available.
type Dispatcher struct {
	mu    sync.Mutex
	send  func(tea.Msg)
	queue []tea.Msg
}

// NewDispatcher creates an unattached dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Attach connects the dispatcher to a running program and flushes any
// queued messages in order.
func (d *Dispatcher) Attach(send func(tea.Msg)) {
	d.mu.Lock()
	d.send = send
	queued := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, msg := range queued {
		send(msg)
	}
}

// Send delivers a message to the program, queueing it if the program
// has not started yet.
func (d *Dispatcher) Send(msg tea.Msg) {
	d.mu.Lock()
	if d.send == nil {
		d.queue = append(d.queue, msg)
		d.mu.Unlock()
		return
	}
	send := d.send
	d.mu.Unlock()
	send(msg)
}

// Dispatch schedules fn to run on the event loop.
func (d *Dispatcher) Dispatch(fn func()) {
	d.Send(CallbackMsg{Fn: fn})
}

// ModalView is the terminal rendition of the modal surface. The
// controller mutates it from event-loop callbacks and the model reads
// it during rendering, so no locking is needed.
//
// Close is asynchronous: it requests dismissal via the dispatcher and
// the model completes it with FinishClose when the message arrives.
type ModalView struct {
	dispatch *Dispatcher

	visible bool
	closing bool
	content string
	title   string

	closedFns []func()
}

var _ lightbox.View = (*ModalView)(nil)

// NewModalView creates a modal view that reports dismissals through
// the given dispatcher.
func NewModalView(d *Dispatcher) *ModalView {
	return &ModalView{dispatch: d}
}

// Open makes the modal visible.
func (v *ModalView) Open() {
	v.visible = true
}

// Close requests dismissal. The modal stays visible until the
// dismissal message is processed.
func (v *ModalView) Close() {
	if !v.visible || v.closing {
		return
	}
	v.closing = true
	v.dispatch.Send(ModalClosedMsg{})
}

// FinishClose completes a pending dismissal: it hides the modal and
// runs the registered closed callbacks.
func (v *ModalView) FinishClose() {
	if !v.closing {
		return
	}
	v.closing = false
	v.visible = false
	for _, fn := range v.closedFns {
		fn()
	}
}

// Visible reports whether the modal is displayed.
func (v *ModalView) Visible() bool { return v.visible }

// Content returns the current markup fragment.
func (v *ModalView) Content() string { return v.content }

// SetContent replaces the markup fragment.
func (v *ModalView) SetContent(fragment string) { v.content = fragment }

// Title returns the modal title.
func (v *ModalView) Title() string { return v.title }

// SetTitle replaces the modal title.
func (v *ModalView) SetTitle(title string) { v.title = title }

// NotifyOnClosed registers fn to run every time a dismissal completes.
func (v *ModalView) NotifyOnClosed(fn func()) {
	v.closedFns = append(v.closedFns, fn)
}
