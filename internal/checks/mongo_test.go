package checks

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type stubMongo struct {
	err    error
	lastRP *readpref.ReadPref
}

func (s *stubMongo) Ping(ctx context.Context, rp *readpref.ReadPref) error {
	s.lastRP = rp
	return s.err
}

func TestMongoPing(t *testing.T) {
	t.Run("nil client", func(t *testing.T) {
		if err := MongoPing(nil, nil)(context.Background()); err == nil {
			t.Fatal("expected error when client is nil")
		}
	})

	t.Run("defaults to primary", func(t *testing.T) {
		stub := &stubMongo{}
		if err := MongoPing(stub, nil)(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stub.lastRP == nil || stub.lastRP.Mode() != readpref.PrimaryMode {
			t.Errorf("expected primary read preference, got %v", stub.lastRP)
		}
	})

	t.Run("custom read preference", func(t *testing.T) {
		stub := &stubMongo{}
		if err := MongoPing(stub, readpref.SecondaryPreferred())(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stub.lastRP.Mode() != readpref.SecondaryPreferredMode {
			t.Errorf("expected secondaryPreferred, got %v", stub.lastRP.Mode())
		}
	})

	t.Run("failure wraps error", func(t *testing.T) {
		sentinel := errors.New("server selection timeout")
		if err := MongoPing(&stubMongo{err: sentinel}, nil)(context.Background()); !errors.Is(err, sentinel) {
			t.Fatalf("expected wrapped sentinel, got %v", err)
		}
	})
}

func TestMongo_InvalidURI(t *testing.T) {
	tests := []string{"", "http://not-mongo"}
	for _, uri := range tests {
		if err := Mongo(uri)(context.Background()); err == nil {
			t.Errorf("Mongo(%q) expected error", uri)
		}
	}
}
