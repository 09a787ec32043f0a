package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"somweb-bridge/internal/ports"
)

func TestSessionAuthenticateStoresToken(t *testing.T) {
	client := new(MockDeviceClient)
	client.On("Authenticate", mock.Anything).Return(ports.AuthResult{Token: "tok1", Page: "page1"}, nil)

	s := NewSession(client, zap.NewNop())
	err := s.Authenticate(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "tok1", s.Token())
	assert.Equal(t, "page1", s.Page())
}

func TestSessionAuthenticateFailureKeepsToken(t *testing.T) {
	client := new(MockDeviceClient)
	client.On("Authenticate", mock.Anything).Return(ports.AuthResult{Token: "tok1"}, nil).Once()
	client.On("Authenticate", mock.Anything).Return(ports.AuthResult{}, errors.New("portal down")).Once()

	s := NewSession(client, zap.NewNop())
	assert.NoError(t, s.Authenticate(context.Background()))
	assert.Error(t, s.Authenticate(context.Background()))
	assert.Equal(t, "tok1", s.Token())
}

func TestSessionAuthenticateRejectsEmptyToken(t *testing.T) {
	client := new(MockDeviceClient)
	client.On("Authenticate", mock.Anything).Return(ports.AuthResult{Token: ""}, nil)

	s := NewSession(client, zap.NewNop())
	assert.Error(t, s.Authenticate(context.Background()))
	assert.Empty(t, s.Token())
}

func TestSessionReconnectUnreachableSkipsAuth(t *testing.T) {
	client := new(MockDeviceClient)
	client.On("Authenticate", mock.Anything).Return(ports.AuthResult{Token: "tok1"}, nil).Once()
	client.On("IsAlive", mock.Anything).Return(false)

	s := NewSession(client, zap.NewNop())
	assert.NoError(t, s.Authenticate(context.Background()))

	ok := s.Reconnect(context.Background())

	assert.False(t, ok)
	assert.Equal(t, "tok1", s.Token())
	client.AssertNumberOfCalls(t, "Authenticate", 1)
}

func TestSessionReconnectAuthFailure(t *testing.T) {
	client := new(MockDeviceClient)
	client.On("IsAlive", mock.Anything).Return(true)
	client.On("Authenticate", mock.Anything).Return(ports.AuthResult{}, errors.New("bad credentials"))

	s := NewSession(client, zap.NewNop())
	assert.False(t, s.Reconnect(context.Background()))
	assert.Empty(t, s.Token())
}

func TestSessionReconnectReplacesToken(t *testing.T) {
	client := new(MockDeviceClient)
	client.On("Authenticate", mock.Anything).Return(ports.AuthResult{Token: "tok1"}, nil).Once()
	client.On("IsAlive", mock.Anything).Return(true)
	client.On("Authenticate", mock.Anything).Return(ports.AuthResult{Token: "tok2"}, nil).Once()

	s := NewSession(client, zap.NewNop())
	assert.NoError(t, s.Authenticate(context.Background()))
	assert.True(t, s.Reconnect(context.Background()))
	assert.Equal(t, "tok2", s.Token())
}
