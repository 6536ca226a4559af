// ABOUTME: Event sources feeding the bus: JSON lines from a reader and timed YAML scripts
// ABOUTME: Both stop at end of input or when the context is cancelled

package lifecycle

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mauromedda/pi-overlay-go/internal/eventbus"
	"github.com/mauromedda/pi-overlay-go/internal/log"
)

const maxLineSize = 1 << 20

// ReadJSONLines publishes one Event per non-empty line of r. Lines that do
// not decode are logged and skipped. Returns at EOF or when ctx is done.
//
// r is read on a separate goroutine, so a blocked read does not delay
// cancellation; the goroutine exits when r does.
func ReadJSONLines(ctx context.Context, r io.Reader, bus *eventbus.Bus[Event]) error {
	lines := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for sc.Scan() {
			line := bytes.TrimSpace(sc.Bytes())
			if len(line) == 0 {
				continue
			}
			select {
			case lines <- bytes.Clone(line):
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					if err != nil {
						return fmt.Errorf("reading events: %w", err)
					}
				default:
				}
				return nil
			}
			n++
			ev, err := DecodeEvent(line)
			if err != nil || ev.Type == "" {
				log.Warn("lifecycle: line %d: not an event: %v", n, err)
				continue
			}
			bus.Publish(ev)
		}
	}
}

// Step is one scripted event, published After the previous one.
type Step struct {
	After time.Duration `yaml:"after"`
	Event `yaml:",inline"`
}

// Script is a timed sequence of events for demos and manual testing.
type Script struct {
	Name  string `yaml:"name"`
	Loop  bool   `yaml:"loop"`
	Steps []Step `yaml:"steps"`
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	for i, st := range s.Steps {
		if st.Type == "" {
			return nil, fmt.Errorf("parsing script: step %d has no type", i+1)
		}
		if st.After < 0 {
			return nil, fmt.Errorf("parsing script: step %d has negative delay", i+1)
		}
	}
	return &s, nil
}

// LoadScript reads and decodes a YAML script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return ParseScript(data)
}

// Play publishes the steps with their delays. A looping script repeats
// until ctx is done; otherwise Play returns after the last step.
func (s *Script) Play(ctx context.Context, bus *eventbus.Bus[Event]) error {
	if len(s.Steps) == 0 {
		return nil
	}
	for {
		for _, st := range s.Steps {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(st.After):
			}
			bus.Publish(st.Event)
		}
		if !s.Loop {
			return nil
		}
	}
}

// DefaultScript is a looping agent turn: think, call a tool, think, answer.
const DefaultScript = `
name: agent turn
loop: true
steps:
  - after: 1s
    type: before_agent_start
  - after: 3s
    type: tool_execution_start
    tool: bash
  - after: 1s
    type: tool_execution_end
    tool: bash
  - after: 3s
    type: message_update
    role: assistant
  - after: 2s
    type: agent_end
`
