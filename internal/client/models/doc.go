// Package models holds the plain records exchanged with the tasklist REST
// API. The client keeps them only for rendering.
package models
