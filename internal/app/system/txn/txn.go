// Package txn runs multi-document Mongo writes in a transaction when the
// server supports it.
//
// Multi-document transactions require a replica set or mongos. Standalone
// mongod (the common dev setup) rejects them, so Run detects that case and
// falls back to executing the function without a session. Callers that need
// stronger guarantees on standalone servers must pair the fallback with
// compare-and-swap update filters, which the report store does.
package txn

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// command error codes the server returns when transactions are unavailable.
const (
	codeIllegalOperation    = 20
	codeCommandNotSupported = 51
	codeOperationNotSupp    = 263
)

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone mongod, old wire version).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if ce, ok := err.(mongo.CommandError); ok {
		cmdErr = ce
	}
	switch cmdErr.Code {
	case codeIllegalOperation, codeCommandNotSupported, codeOperationNotSupp:
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") {
		if strings.Contains(msg, "replica set") ||
			strings.Contains(msg, "session") ||
			strings.Contains(msg, "illegal operation") {
			return true
		}
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}

// Run executes fn inside a Mongo transaction. If the client is nil or the
// server does not support transactions, fn runs without a session; the
// writes then apply sequentially and the caller's CAS filters carry the
// consistency guarantee.
func Run(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	if client == nil {
		return fn(ctx)
	}

	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		if log != nil {
			log.Debug("mongo transactions unavailable, applying writes without a session")
		}
		return fn(ctx)
	}
	return err
}
