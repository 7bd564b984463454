package repository

import (
	"errors"
	"time"

	"bookinghub/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func tableOrDefault(name, def string) string {
	if name != "" {
		return name
	}
	return def
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// classifyTransactErr maps a failed TransactWriteItems call. bookingIndex is
// the position of the booking write in the transaction (-1 if none): a
// failed condition there means the version moved. A failed condition on a
// stream item or a conflicting transaction is contention and the write can
// be retried. Any other cancellation reason (throttling, validation,
// capacity) is returned as is.
func classifyTransactErr(err error, bookingIndex int) error {
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		contended := false
		for i, reason := range tce.CancellationReasons {
			if reason.Code == nil {
				continue
			}
			switch *reason.Code {
			case "None":
			case "ConditionalCheckFailed":
				if i == bookingIndex {
					return interfaces.ErrVersionMismatch
				}
				contended = true
			case "TransactionConflict":
				contended = true
			default:
				return err
			}
		}
		if contended {
			return errors.Join(interfaces.ErrWriteContention, err)
		}
		return err
	}
	var tconf *types.TransactionConflictException
	if errors.As(err, &tconf) {
		return errors.Join(interfaces.ErrWriteContention, err)
	}
	return err
}
