package printing

import (
	"context"
	"sync"
)

type runCall struct {
	Name string
	Args []string
}

// fakeRunner replays scripted results in call order
type fakeRunner struct {
	mu      sync.Mutex
	calls   []runCall
	results []fakeResult
}

type fakeResult struct {
	res *CommandResult
	err error
	// block waits for ctx to be done before returning ctx.Err()
	block bool
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	f.mu.Lock()
	i := len(f.calls)
	f.calls = append(f.calls, runCall{Name: name, Args: args})
	f.mu.Unlock()

	if i >= len(f.results) {
		return &CommandResult{}, nil
	}
	r := f.results[i]
	if r.block {
		<-ctx.Done()
		return &CommandResult{}, ctx.Err()
	}
	if r.res == nil {
		r.res = &CommandResult{}
	}
	return r.res, r.err
}

func (f *fakeRunner) Calls() []runCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runCall(nil), f.calls...)
}

type staticLocator struct {
	path string
	err  error
}

func (l staticLocator) Locate() (string, error) {
	return l.path, l.err
}
