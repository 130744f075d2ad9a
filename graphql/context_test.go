package graphql

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestGetStoreID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		header string
		want   uint16
		ok     bool
	}{
		{"header wins", "/graphql?__Store=2", "3", 3, true},
		{"query param", "/graphql?__Store=2", "", 2, true},
		{"bad header falls through", "/graphql?__Store=2", "x", 2, true},
		{"none", "/graphql", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", tt.url, nil)
			if tt.header != "" {
				r.Header.Set(HeaderStore, tt.header)
			}
			got, ok := GetStoreID(r)
			if got != tt.want || ok != tt.ok {
				t.Errorf("GetStoreID = %d, %t; want %d, %t", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseStoreFromVariables(t *testing.T) {
	for body, want := range map[string]uint16{
		`{"variables":{"__Store":"4"}}`: 4,
		`{"variables":{"__Store":5}}`:   5,
		`{"variables":{}}`:              0,
		`not json`:                      0,
	} {
		if got, _ := ParseStoreFromVariables([]byte(body)); got != want {
			t.Errorf("ParseStoreFromVariables(%s) = %d, want %d", body, got, want)
		}
	}
}

func TestStoreIDContext(t *testing.T) {
	if got := StoreIDFromContext(context.Background()); got != 0 {
		t.Errorf("empty context store = %d", got)
	}
	if got := StoreIDFromContext(WithStoreID(context.Background(), 7)); got != 7 {
		t.Errorf("store = %d, want 7", got)
	}
}

func TestSchemaExtension(t *testing.T) {
	base := Schema()
	RegisterSchemaExtension("  extend type Query { ping: String }  ")
	defer func() {
		schemaMu.Lock()
		schemaExtensions = nil
		schemaMu.Unlock()
	}()
	if got, want := Schema(), base+"\n\nextend type Query { ping: String }"; got != want {
		t.Errorf("Schema() = %q", got[len(base):])
	}
}
