package routing

import (
	"errors"
	"testing"
)

func mustTable(t *testing.T, routes []RouteConfig, defaultTarget string) *Table {
	t.Helper()
	table, err := NewTable(routes, defaultTarget)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return table
}

func TestResolveTarget(t *testing.T) {
	routes := []RouteConfig{
		{Prefix: "/api", Target: "http://backend-a:8080"},
		{Prefix: "/api/graphql", Target: "http://backend-b:9090"},
		{Prefix: "/ws", Target: "ws://backend-c:7070"},
	}

	tests := []struct {
		name          string
		path          string
		defaultTarget string
		wantHost      string
		wantErr       error
	}{
		{
			name:     "exact match",
			path:     "/api",
			wantHost: "backend-a:8080",
		},
		{
			name:     "longest prefix outranks shorter",
			path:     "/api/graphql/x",
			wantHost: "backend-b:9090",
		},
		{
			name:     "shorter prefix when longer does not match",
			path:     "/api/users",
			wantHost: "backend-a:8080",
		},
		{
			name:     "exact match on longer prefix",
			path:     "/api/graphql",
			wantHost: "backend-b:9090",
		},
		{
			name:          "default target for unmatched path",
			path:          "/metrics-scraper",
			defaultTarget: "http://fallback:8080",
			wantHost:      "fallback:8080",
		},
		{
			name:    "no route and no default",
			path:    "/nowhere",
			wantErr: ErrNoRoute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mustTable(t, routes, tt.defaultTarget)

			target, err := table.ResolveTarget(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveTarget(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveTarget(%q) error = %v", tt.path, err)
			}
			if target.Host != tt.wantHost {
				t.Errorf("ResolveTarget(%q) = %q, want host %q", tt.path, target.Host, tt.wantHost)
			}
		})
	}
}

func TestResolveProtocol(t *testing.T) {
	routes := []RouteConfig{
		{Prefix: "/api", Target: "http://backend-a:8080"},
		{Prefix: "/chat", Target: "ws://backend-c:7070", Protocol: "chat.v2"},
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "per-route protocol override",
			path: "/chat/room/1",
			want: "chat.v2",
		},
		{
			name: "graphql heuristic",
			path: "/api/graphql",
			want: SubprotocolGraphQL,
		},
		{
			name: "subscription heuristic",
			path: "/api/subscriptions/live",
			want: SubprotocolGraphQL,
		},
		{
			name: "no protocol for plain path",
			path: "/api/users",
			want: "",
		},
		{
			name: "heuristic applies to unrouted path",
			path: "/v2/graphql",
			want: SubprotocolGraphQL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mustTable(t, routes, "")
			if got := table.ResolveProtocol(tt.path); got != tt.want {
				t.Errorf("ResolveProtocol(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveIsPure(t *testing.T) {
	table := mustTable(t, []RouteConfig{
		{Prefix: "/api", Target: "http://backend:8080"},
	}, "")

	// Repeated resolution must not change results or table state.
	for i := 0; i < 3; i++ {
		target, err := table.ResolveTarget("/api/x")
		if err != nil {
			t.Fatalf("ResolveTarget() error = %v", err)
		}
		if target.Host != "backend:8080" {
			t.Errorf("ResolveTarget() host = %q, want %q", target.Host, "backend:8080")
		}
		if table.Len() != 1 {
			t.Errorf("table.Len() = %d after resolution, want 1", table.Len())
		}
	}
}
