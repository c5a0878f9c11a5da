package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// task fetches data and renders it for the terminal.
type task func(ctx context.Context) (string, error)

// runTask runs fn behind a spinner and returns its rendered output.
func runTask(ctx context.Context, label string, fn task) error {
	p := tea.NewProgram(newTaskModel(ctx, label, fn))
	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("run %s: %w", label, err)
	}

	tm, ok := m.(taskModel)
	if !ok {
		return errors.New("unexpected model type from tea program")
	}
	if !tm.done {
		return context.Canceled
	}
	if tm.err != nil {
		return &displayError{err: tm.err}
	}
	return nil
}

// displayError reports a catalog failure with its user-facing message.
type displayError struct {
	err error
}

func (e *displayError) Error() string { return userMessage(e.err) }

func (e *displayError) Unwrap() error { return e.err }

// taskResultMsg carries the task outcome back to the TUI.
type taskResultMsg struct {
	output string
	err    error
}

type taskModel struct {
	ctx     context.Context
	label   string
	fn      task
	spinner spinner.Model
	output  string
	err     error
	done    bool
}

func newTaskModel(ctx context.Context, label string, fn task) taskModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo
	return taskModel{
		ctx:     ctx,
		label:   label,
		fn:      fn,
		spinner: s,
	}
}

func (m taskModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run())
}

func (m taskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case taskResultMsg:
		m.output = msg.output
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m taskModel) View() string {
	if m.done {
		if m.err != nil {
			return ""
		}
		return m.output + "\n"
	}
	return m.spinner.View() + styleDim.Render(" "+m.label+"...") + "\n"
}

func (m taskModel) run() tea.Cmd {
	return func() tea.Msg {
		out, err := m.fn(m.ctx)
		return taskResultMsg{output: out, err: err}
	}
}
