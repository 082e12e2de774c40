package txn

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("connection reset"), false},
		{
			"command error code 20",
			mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"},
			true,
		},
		{
			"command error code 51",
			mongo.CommandError{Code: 51, Message: "Illegal operation"},
			true,
		},
		{
			"command error code 263",
			mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"},
			true,
		},
		{
			"unrelated command error code",
			mongo.CommandError{Code: 11000, Message: "duplicate key"},
			false,
		},
		{"transaction on non-replica-set", errors.New("transaction failed because this is not a replica set member"), true},
		{"sessions unsupported", errors.New("session operations are not supported on this server"), true},
		{"transaction alone is not enough", errors.New("transaction failed"), false},
		{"transaction in session", errors.New("cannot start transaction in current session state"), true},
		{"illegal operation in transaction", errors.New("illegal operation during transaction"), true},
		{"case insensitive", errors.New("TRANSACTION rejected on REPLICA SET"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRun_NilClientRunsDirectly(t *testing.T) {
	ran := false
	err := Run(context.Background(), nil, nil, func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if !ran {
		t.Fatal("fn was not executed")
	}
}

func TestRun_NilClientPropagatesError(t *testing.T) {
	want := errors.New("write failed")
	err := Run(context.Background(), nil, nil, func(ctx context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("Run returned %v, want %v", err, want)
	}
}
