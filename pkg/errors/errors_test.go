package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeConflict, "no entry")
	if got := As(err); got == nil || got.Code() != CodeConflict {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDomainConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		code   Code
		status int
	}{
		{name: "validation", err: ValidationFailed("price", "must match pattern"), code: CodeValidation, status: http.StatusBadRequest},
		{name: "duplicate slug", err: DuplicateSlug("brand", "acme"), code: CodeDuplicateSlug, status: http.StatusConflict},
		{name: "duplicate value", err: DuplicateValue("product", "sku"), code: CodeDuplicateValue, status: http.StatusConflict},
		{name: "not found", err: NotFound("category", "abc"), code: CodeNotFound, status: http.StatusNotFound},
		{name: "exhausted", err: NumberGenerationExhausted(5), code: CodeNumberExhausted, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code() != tt.code {
				t.Fatalf("expected code %s got %s", tt.code, tt.err.Code())
			}
			if MetadataFor(tt.code).HTTPStatus != tt.status {
				t.Fatalf("expected status %d got %d", tt.status, MetadataFor(tt.code).HTTPStatus)
			}
			if tt.err.Details() == nil {
				t.Fatalf("expected details on %s", tt.name)
			}
			if !IsCode(fmt.Errorf("outer: %w", tt.err), tt.code) {
				t.Fatalf("IsCode failed through wrapping for %s", tt.name)
			}
		})
	}
}

func TestValidationFailedDetails(t *testing.T) {
	err := ValidationFailed("quantity", "must be between 1 and 100")
	details, ok := err.Details().(FieldDetails)
	if !ok {
		t.Fatalf("expected FieldDetails, got %T", err.Details())
	}
	if details.Field != "quantity" || details.Reason != "must be between 1 and 100" {
		t.Fatalf("unexpected details %+v", details)
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("load brand: %w", NotFound("brand", "abc"))
	if !stdErrors.Is(err, New(CodeNotFound, "")) {
		t.Fatalf("expected errors.Is to match on code")
	}
	if stdErrors.Is(err, New(CodeConflict, "")) {
		t.Fatalf("codes should not cross-match")
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("connection refused"), "insert order")
	if got := err.Error(); got != "DEPENDENCY_ERROR: insert order: connection refused" {
		t.Fatalf("unexpected error string %q", got)
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(NumberGenerationExhausted(3)) {
		t.Fatalf("exhausted numbers should be retryable")
	}
	if Retryable(DuplicateSlug("brand", "acme")) {
		t.Fatalf("duplicate slug is not retryable")
	}
	if Retryable(stdErrors.New("plain")) {
		t.Fatalf("untyped errors are not retryable")
	}
}

func TestExposeMessageHidesInternalText(t *testing.T) {
	if MetadataFor(CodeInternal).ExposeMessage || MetadataFor(CodeDependency).ExposeMessage {
		t.Fatalf("internal and dependency messages must stay private")
	}
	if !MetadataFor(CodeDuplicateValue).ExposeMessage {
		t.Fatalf("duplicate value message should be exposed")
	}
}

func TestDumpCollectsPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_orders_number", TableName: "orders"}
	err := Wrap(CodeDependency, fmt.Errorf("insert: %w", pgErr), "create order")

	dump := Dump(err)
	if dump.Code != CodeDependency || !dump.Retryable {
		t.Fatalf("unexpected typed fields %+v", dump)
	}
	if dump.Postgres == nil || dump.Postgres.Constraint != "uq_orders_number" {
		t.Fatalf("expected postgres constraint, got %+v", dump.Postgres)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected three chain entries, got %v", dump.Chain)
	}

	fields := dump.Fields()
	if fields["pg_code"] != "23505" || fields["error_code"] != CodeDependency {
		t.Fatalf("unexpected log fields %v", fields)
	}
}

func TestDumpPlainError(t *testing.T) {
	dump := Dump(stdErrors.New("boom"))
	if dump.Postgres != nil || dump.Code != "" {
		t.Fatalf("plain error should not carry typed fields: %+v", dump)
	}
	if _, ok := dump.Fields()["error_chain"]; ok {
		t.Fatalf("single link chains are omitted")
	}
}
