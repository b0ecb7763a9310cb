// SPDX-License-Identifier: Apache-2.0

package doctor

import "context"

type contextKey string

const traceIdKey contextKey = "traceId"

// WithTraceId returns a context carrying the trace id reported by Diagnose
func WithTraceId(ctx context.Context, traceId string) context.Context {
	return context.WithValue(ctx, traceIdKey, traceId)
}

// TraceId returns the trace id stored in ctx, or "" when there is none
func TraceId(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceId, _ := ctx.Value(traceIdKey).(string)
	return traceId
}
