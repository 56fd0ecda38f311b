package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
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
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeRedirect, status: http.StatusUnauthorized, publicMsg: "", detailsOK: true},
		{code: CodePayment, status: http.StatusPaymentRequired, publicMsg: "payment failed", retryable: true, detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
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
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestIsCodeWalksWrappedChain(t *testing.T) {
	typed := New(CodeStateConflict, "cart locked")
	wrapped := fmt.Errorf("terminal: %w", typed)

	if !IsCode(wrapped, CodeStateConflict) {
		t.Fatalf("expected IsCode to find state conflict through wrap")
	}
	if IsCode(wrapped, CodeNotFound) {
		t.Fatalf("IsCode matched wrong code")
	}
	if IsCode(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("plain errors carry no code")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("dial tcp: refused")
	err := Wrap(CodeDependency, cause, "load catalog")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %d: %v", len(dump.Chain), dump.Chain)
	}
	if dump.PGCode != "" {
		t.Fatalf("expected no pg details, got %q", dump.PGCode)
	}
	if empty := Dump(nil); empty.TopMessage != "" {
		t.Fatalf("expected empty dump for nil error")
	}
}

func TestDumpReadsPostgresDiagnostics(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key", TableName: "products", Message: "duplicate key"}
	dump := Dump(Wrap(CodeConflict, fmt.Errorf("insert product: %w", pgxErr), "save product"))
	if dump.PGCode != "23505" || dump.PGConstraint != "products_sku_key" || dump.PGTable != "products" {
		t.Fatalf("pgx fields not copied: %+v", dump)
	}

	pqErr := &pq.Error{Code: "23503", Constraint: "fk_member", Table: "members", Detail: "missing member"}
	dump = Dump(Wrap(CodeConflict, pqErr, "save member"))
	if dump.PGCode != "23503" || dump.PGConstraint != "fk_member" || dump.PGDetail != "missing member" {
		t.Fatalf("pq fields not copied: %+v", dump)
	}
}
