package shutdown

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"student-records/internal/logger"
)

const componentTimeout = 10 * time.Second

type component struct {
	name  string
	close func() error
}

// Manager closes registered resources in reverse order, once, on a signal
// or an explicit Shutdown
type Manager struct {
	components []component
	logger     logger.Logger
	mu         sync.Mutex
	done       chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	err        error
	onSignal   func()
}

func NewManager(log logger.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		components: make([]component, 0),
		logger:     log,
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}

	return m
}

// Register adds a resource closed by fn
func (m *Manager) Register(name string, fn func() error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.components = append(m.components, component{name: name, close: fn})
}

// RegisterCloser adds an io.Closer
func (m *Manager) RegisterCloser(name string, c io.Closer) {
	m.Register(name, c.Close)
}

// OnSignal sets the callback run on SIGINT or SIGTERM, e.g. to quit the UI
// loop. The caller then runs Shutdown. Without a callback the signal shuts
// down directly.
func (m *Manager) OnSignal(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSignal = fn
}

// Listen handles SIGINT and SIGTERM until shutdown
func (m *Manager) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			m.logger.Info("ShutdownManager", "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.mu.Lock()
			fn := m.onSignal
			m.mu.Unlock()
			if fn != nil {
				fn()
				return
			}
			m.Shutdown()
		case <-m.done:
		}
	}()
}

// Shutdown closes every component in reverse registration order. Later
// calls return the first call's result.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return m.err
	default:
		close(m.done)
	}

	m.logger.Info("ShutdownManager", "shutdown sequence initiated", map[string]interface{}{
		"components": len(m.components),
	})

	m.cancel()

	var errs []error
	for i := len(m.components) - 1; i >= 0; i-- {
		c := m.components[i]

		result := make(chan error, 1)
		go func() {
			result <- c.close()
		}()

		select {
		case err := <-result:
			if err != nil {
				m.logger.Error("ShutdownManager", err, map[string]interface{}{"component": c.name})
				errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			}
		case <-time.After(componentTimeout):
			m.logger.Warning("ShutdownManager", "component shutdown timeout", map[string]interface{}{
				"component": c.name,
			})
			errs = append(errs, fmt.Errorf("%s: close timed out", c.name))
		}
	}

	m.err = errors.Join(errs...)
	m.logger.Info("ShutdownManager", "shutdown sequence completed", nil)
	return m.err
}

// Context is cancelled when shutdown starts
func (m *Manager) Context() context.Context {
	return m.ctx
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}
