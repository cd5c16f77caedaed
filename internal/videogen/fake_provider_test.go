package videogen

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"videorelay/internal/providers/xai"
)

// scriptedProvider replays status bodies in order; the last body repeats.
type scriptedProvider struct {
	mu        sync.Mutex
	submitErr error
	submitID  string
	bodies    []string
	statusErr error

	submits []xai.GenerationRequest
	polls   int
	onPoll  func(n int)
}

func (p *scriptedProvider) Submit(ctx context.Context, req xai.GenerationRequest) (*xai.SubmitResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.submits = append(p.submits, req)
	if p.submitErr != nil {
		return nil, p.submitErr
	}
	id, _ := json.Marshal(p.submitID)
	return &xai.SubmitResponse{RequestID: id}, nil
}

func (p *scriptedProvider) Status(ctx context.Context, jobID string) (*xai.StatusResponse, error) {
	p.mu.Lock()
	p.polls++
	n := p.polls
	hook := p.onPoll
	var body string
	if len(p.bodies) > 0 {
		idx := n - 1
		if idx >= len(p.bodies) {
			idx = len(p.bodies) - 1
		}
		body = p.bodies[idx]
	}
	statusErr := p.statusErr
	p.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if statusErr != nil {
		return nil, statusErr
	}
	if body == "" {
		return nil, errors.New("no scripted body")
	}
	var resp xai.StatusResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, err
	}
	resp.Raw = []byte(body)
	return &resp, nil
}

func (p *scriptedProvider) pollCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.polls
}

func (p *scriptedProvider) submitCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.submits)
}
