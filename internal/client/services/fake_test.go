package services

import (
	"context"
	"encoding/json"
)

type call struct {
	Method string
	Path   string
	Body   any
}

// fakeTransport records calls and answers with a canned JSON body.
type fakeTransport struct {
	calls []call
	resp  string
	err   error
}

func (f *fakeTransport) do(method, path string, body, out any) error {
	f.calls = append(f.calls, call{Method: method, Path: path, Body: body})
	if f.err != nil {
		return f.err
	}
	if out != nil && f.resp != "" {
		return json.Unmarshal([]byte(f.resp), out)
	}
	return nil
}

func (f *fakeTransport) Get(_ context.Context, path string, out any) error {
	return f.do("GET", path, nil, out)
}

func (f *fakeTransport) Post(_ context.Context, path string, body, out any) error {
	return f.do("POST", path, body, out)
}

func (f *fakeTransport) Put(_ context.Context, path string, body, out any) error {
	return f.do("PUT", path, body, out)
}
