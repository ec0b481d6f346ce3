package services

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, code, email, event, name string) error {
	args := m.Called(ctx, code, email, event, name)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, mail Mail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}
