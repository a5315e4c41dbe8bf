/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package worker is the control loop of the type-checking worker. It
// accepts one init message, then runs a recheck cycle for every compile
// message, in arrival order.
package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"bennypowers.dev/tsworker/checker"
	"bennypowers.dev/tsworker/compiler"
	"bennypowers.dev/tsworker/engine"
	"bennypowers.dev/tsworker/fs"
	"bennypowers.dev/tsworker/host"
	"bennypowers.dev/tsworker/protocol"
	"bennypowers.dev/tsworker/resolution"
	"bennypowers.dev/tsworker/vfs"
)

// DefaultInboxSize is how many decoded messages may wait while a cycle runs.
const DefaultInboxSize = 16

var (
	// ErrNotInitialized is returned for a compile message before init.
	ErrNotInitialized = zerr.New("compile received before init")

	// ErrAlreadyInitialized is returned for a second init message.
	ErrAlreadyInitialized = zerr.New("worker already initialized")

	// ErrUnexpectedMessage is returned for messages the worker only sends.
	ErrUnexpectedMessage = zerr.New("unexpected message")
)

// Sender delivers outbound messages to the parent process.
type Sender interface {
	Write(msg protocol.Message) error
}

// Source yields inbound messages. Read returns io.EOF when the parent closes
// the channel; Close unblocks a pending Read.
type Source interface {
	Read() (protocol.Message, error)
	Close() error
}

// State exists once init has been handled.
type State struct {
	Options     compiler.Options
	Info        compiler.Info
	Files       *vfs.Store
	Resolutions *resolution.Cache
	Session     engine.Session
	Checker     *checker.Checker
}

// Worker owns the worker state. Messages are handled one at a time.
type Worker struct {
	registry  *engine.Registry
	sender    Sender
	fs        fs.FileSystem
	logger    *slog.Logger
	reporter  checker.Reporter
	ignore    []string
	inboxSize int
	state     *State
}

// New creates an uninitialized worker.
func New(registry *engine.Registry, sender Sender) *Worker {
	return &Worker{
		registry:  registry,
		sender:    sender,
		fs:        fs.NewOSFileSystem(),
		logger:    slog.Default(),
		inboxSize: DefaultInboxSize,
	}
}

// WithFileSystem sets the filesystem the host exposes to the engine.
func (w *Worker) WithFileSystem(fsys fs.FileSystem) *Worker {
	w.fs = fsys
	return w
}

// WithLogger sets the logger.
func (w *Worker) WithLogger(logger *slog.Logger) *Worker {
	w.logger = logger
	return w
}

// WithReporter sets where cycle outcomes are printed.
func (w *Worker) WithReporter(r checker.Reporter) *Worker {
	w.reporter = r
	return w
}

// WithIgnore sets doublestar patterns of files whose diagnostics are
// dropped. Patterns are validated on init.
func (w *Worker) WithIgnore(patterns []string) *Worker {
	w.ignore = patterns
	return w
}

// WithInboxSize sets the inbound queue length used by Serve.
func (w *Worker) WithInboxSize(n int) *Worker {
	w.inboxSize = max(n, 0)
	return w
}

// State returns the worker state, or nil before init.
func (w *Worker) State() *State {
	return w.state
}

// Handle processes one inbound message. It returns the cycle result for
// compile messages and nil for init.
func (w *Worker) Handle(ctx context.Context, msg protocol.Message) (*checker.Result, error) {
	switch m := msg.(type) {
	case *protocol.Init:
		return nil, w.init(m)
	case *protocol.Compile:
		return w.compile(ctx, m)
	default:
		return nil, zerr.With(ErrUnexpectedMessage, "messageType", string(msg.Type()))
	}
}

func (w *Worker) init(m *protocol.Init) error {
	if w.state != nil {
		return ErrAlreadyInitialized
	}
	eng, err := w.registry.Lookup(m.CompilerInfo.CompilerName)
	if err != nil {
		return err
	}

	files := vfs.NewStore()
	resolutions := resolution.NewCache()
	h := host.New(files, resolutions, m.CompilerOptions, m.CompilerInfo).
		WithFileSystem(w.fs).
		WithLogger(w.logger)

	session, err := eng.NewSession(h)
	if err != nil {
		return zerr.Wrap(err, "failed to create session")
	}

	c := checker.New(files, resolutions, session, progressNotifier{w.sender}).WithLogger(w.logger)
	if w.reporter != nil {
		c = c.WithReporter(w.reporter)
	}
	if c, err = c.WithIgnore(w.ignore); err != nil {
		return err
	}

	w.state = &State{
		Options:     m.CompilerOptions,
		Info:        m.CompilerInfo,
		Files:       files,
		Resolutions: resolutions,
		Session:     session,
		Checker:     c,
	}

	target, _ := m.CompilerOptions.Target()
	w.logger.Info("worker initialized",
		"engine", eng.Name(),
		"target", target.String(),
		"defaultLib", h.DefaultLibFileName(m.CompilerOptions),
	)
	return nil
}

func (w *Worker) compile(ctx context.Context, m *protocol.Compile) (*checker.Result, error) {
	if w.state == nil {
		return nil, ErrNotInitialized
	}
	return w.state.Checker.Check(ctx, m.Files, m.ResolutionCache)
}

// Serve reads messages from src until it is exhausted, the context is
// cancelled, or a message fails. Reading continues while a cycle runs, so
// messages queue behind it. A failure is reported to the parent as a fatal
// error message before Serve returns it.
func (w *Worker) Serve(ctx context.Context, src Source) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inbox := make(chan inbound, w.inboxSize)
	g, gctx := errgroup.WithContext(ctx)

	// A read failure is queued behind the messages read before it.
	g.Go(func() error {
		defer close(inbox)
		for {
			msg, err := src.Read()
			if err != nil {
				if errors.Is(err, io.EOF) || gctx.Err() != nil {
					return nil
				}
				err = zerr.Wrap(err, "failed to read message")
			}
			select {
			case inbox <- inbound{msg: msg, err: err}:
			case <-gctx.Done():
				return nil
			}
			if err != nil {
				return nil
			}
		}
	})

	g.Go(func() error {
		defer cancel()
		for in := range inbox {
			if gctx.Err() != nil {
				return nil
			}
			if in.err != nil {
				return in.err
			}
			w.logger.Debug("message received", "messageType", string(in.msg.Type()))
			if _, err := w.Handle(gctx, in.msg); err != nil {
				return err
			}
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		if err := src.Close(); err != nil {
			w.logger.Debug("closing message source", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil {
		zerr.Log(ctx, w.logger, err)
		if serr := w.sender.Write(&protocol.Error{Message: err.Error(), Fatal: true}); serr != nil {
			return errors.Join(err, serr)
		}
	}
	return err
}

type inbound struct {
	msg protocol.Message
	err error
}

type progressNotifier struct {
	sender Sender
}

func (n progressNotifier) Progress(_ context.Context, inProgress bool) error {
	return n.sender.Write(&protocol.Progress{InProgress: inProgress})
}
