package mcp

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	report    domain.UploadReport
	answer    domain.Answer
	uploadErr error
	queryErr  error
	stats     domain.Stats

	uploaded []string
	asked    string
}

func (m *mockChatService) Upload(_ context.Context, paths []string) (domain.UploadReport, error) {
	m.uploaded = paths
	return m.report, m.uploadErr
}

func (m *mockChatService) Query(_ context.Context, query string) (domain.Answer, error) {
	m.asked = query
	return m.answer, m.queryErr
}

func (m *mockChatService) Ready() bool {
	return m.stats.Ready
}

func (m *mockChatService) Stats() domain.Stats {
	return m.stats
}
