package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestDataRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: id, TokenString: "tok"})
	rd := GetRequestData(ctx)
	if rd == nil || rd.UserID != id {
		t.Fatalf("unexpected request data: %+v", rd)
	}
	if GetRequestData(context.Background()) != nil {
		t.Fatalf("expected nil request data on empty context")
	}
}

func TestLogFields(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	fields := LogFields(ctx)
	if len(fields) != 4 {
		t.Fatalf("expected 4 entries, got %v", fields)
	}
	ctx = WithRequestData(ctx, &RequestData{UserID: uuid.New()})
	if got := len(LogFields(ctx)); got != 6 {
		t.Fatalf("expected 6 entries, got %d", got)
	}
}
