package rpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/buildsignal/statusstore/internal/sqlitestore"
)

// toStatus maps a store error to a gRPC status per spec.md §7. Any error
// that isn't a *sqlitestore.Error (a bug, a context cancellation) is
// reported as Internal rather than guessed at.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var storeErr *sqlitestore.Error
	if !errors.As(err, &storeErr) {
		return status.Error(codes.Internal, err.Error())
	}

	switch storeErr.Kind {
	case sqlitestore.KindInvalidIdentifier, sqlitestore.KindEmptyColumns,
		sqlitestore.KindInvalidTimeRange, sqlitestore.KindMissingField:
		return status.Error(codes.InvalidArgument, storeErr.Error())
	case sqlitestore.KindNotInitialized:
		return status.Error(codes.FailedPrecondition, storeErr.Error())
	case sqlitestore.KindDuplicate:
		return status.Error(codes.AlreadyExists, storeErr.Error())
	default:
		return status.Error(codes.Internal, storeErr.Error())
	}
}

// errMissingHook is returned by RecordHook when the mandatory hook field
// is absent (spec.md §4.7).
var errMissingHook = missingFieldError("hook")

func missingFieldError(field string) error {
	return status.Errorf(codes.InvalidArgument, "%s is a mandatory field", field)
}
