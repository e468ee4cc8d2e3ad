// Package audit implements the bounded-queue audit recorder (§4.7): a
// non-blocking enqueue off the request's critical path, a background
// worker that drains it into storage, and an oldest-first drop policy
// with a dropped-count metric when the queue saturates.
package audit

import "github.com/HMB-research/open-accounting/internal/apierror"

var ErrNotFound = apierror.New(apierror.NotFound, "audit entry not found")
