package mcp

import (
	"context"
	"slices"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestServer_ListsAndCallsTools(t *testing.T) {
	ctx := context.Background()

	svc := &mockToolService{schema: "# Progression DB Schema\n"}
	s := mcp.NewServer(&mcp.Implementation{Name: "gymprogress-test", Version: "test"}, nil)
	addTools(s, NewHandler(svc))

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer clientSession.Close()

	tools, err := clientSession.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range []string{
		"get_progression_schema",
		"analyze_progress",
		"detect_plateaus",
		"generate_recommendations",
		"sync_exercise_history",
		"get_progression_settings",
	} {
		if !slices.Contains(names, want) {
			t.Errorf("tool %q not registered, got %v", want, names)
		}
	}

	res, err := clientSession.CallTool(ctx, &mcp.CallToolParams{
		Name:      "detect_plateaus",
		Arguments: map[string]any{"user_id": "u-9", "plateau_weeks": 5},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	if svc.gotUserID != "u-9" || svc.gotDays != 5 {
		t.Fatalf("service called with %q, %d", svc.gotUserID, svc.gotDays)
	}
}
