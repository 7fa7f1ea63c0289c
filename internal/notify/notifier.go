package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

// Notifier surfaces outcomes to the user.
type Notifier interface {
	Success(message string)
	Failure(message string, err error)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *logging.Logger
}

// NewLogNotifier creates a notifier backed by logger.
func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(message string) {
	n.logger.Info("notify: success", "message", message)
}

func (n *LogNotifier) Failure(message string, err error) {
	n.logger.Error("notify: failure", "message", message, "error", err)
}

// WriterNotifier prints notifications for a terminal user.
type WriterNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriterNotifier creates a notifier printing to out.
func NewWriterNotifier(out io.Writer) *WriterNotifier {
	return &WriterNotifier{out: out}
}

func (n *WriterNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, message)
}

func (n *WriterNotifier) Failure(message string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		fmt.Fprintf(n.out, "%s: %v\n", message, err)
		return
	}
	fmt.Fprintln(n.out, message)
}

// Notification is one recorded notification.
type Notification struct {
	Message string
	Err     error
}

// Failed reports whether the notification was a failure.
func (n Notification) Failed() bool { return n.Err != nil }

// Recorder keeps notifications in memory for tests.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Message: message})
}

func (r *Recorder) Failure(message string, err error) {
	if err == nil {
		err = fmt.Errorf("%s", message)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Message: message, Err: err})
}

// Notifications returns everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the latest notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
