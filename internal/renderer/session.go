// ABOUTME: Session tracks one running renderer: exit observation, one-shot exit callbacks, stop
// ABOUTME: A watcher goroutine reaps the child; Stop after exit is a silent no-op

package renderer

import (
	"os/exec"
	"sync"

	"github.com/mauromedda/pi-overlay-go/internal/log"
)

// Session is a live renderer process.
type Session struct {
	cmd *exec.Cmd
	pid int

	mu        sync.Mutex
	exited    bool
	err       error
	callbacks []func()
	done      chan struct{}
}

func newSession(cmd *exec.Cmd) *Session {
	s := &Session{
		cmd:  cmd,
		pid:  cmd.Process.Pid,
		done: make(chan struct{}),
	}
	go s.watch()
	return s
}

func (s *Session) watch() {
	err := s.cmd.Wait()

	s.mu.Lock()
	s.exited = true
	s.err = err
	callbacks := s.callbacks
	s.callbacks = nil
	close(s.done)
	s.mu.Unlock()

	log.Debug("renderer: pid=%d exited: %v", s.pid, err)
	for _, fn := range callbacks {
		fn()
	}
}

// PID returns the child's process id.
func (s *Session) PID() int {
	return s.pid
}

// OnExit registers fn to run once when the child terminates for any reason.
// If the child has already exited fn runs immediately on the caller's
// goroutine.
func (s *Session) OnExit(fn func()) {
	s.mu.Lock()
	if !s.exited {
		s.callbacks = append(s.callbacks, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn()
}

// Exited reports whether the child has been reaped.
func (s *Session) Exited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exited
}

// Done is closed once the child has been reaped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the wait error after Done is closed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stop sends SIGTERM to the renderer process. It does not wait for
// the child to die and does nothing once the child has exited.
func (s *Session) Stop() {
	if s.Exited() {
		return
	}
	if err := terminate(s.cmd); err != nil {
		log.Debug("renderer: stopping pid=%d: %v", s.pid, err)
	}
}
