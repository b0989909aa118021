package services

import "context"

// Transport is the slice of api.Client the facade needs.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
}

// dataEnvelope matches the {"data": ...} wrapper most endpoints use.
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}
