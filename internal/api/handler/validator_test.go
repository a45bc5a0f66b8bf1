package handler

import (
	"strings"
	"testing"
)

func TestValidator_TagMessages(t *testing.T) {
	v := NewValidator()

	type otpRequest struct {
		Email string `validate:"required,email"`
		Code  string `validate:"required,len=6"`
	}
	err := v.Validate(otpRequest{Email: "not-an-email", Code: "123"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "email must be a valid email") {
		t.Fatalf("email message missing: %s", msg)
	}
	if !strings.Contains(msg, "code must be exactly 6 characters") {
		t.Fatalf("len message missing: %s", msg)
	}

	type receiptRequest struct {
		Quantity int    `validate:"gte=0"`
		Role     string `validate:"required,oneof=admin staff vet customer"`
	}
	err = v.Validate(receiptRequest{Quantity: -1, Role: "superuser"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg = err.Error()
	if !strings.Contains(msg, "quantity must be 0 or more") {
		t.Fatalf("gte message missing: %s", msg)
	}
	if !strings.Contains(msg, "role must be one of: admin, staff, vet, customer") {
		t.Fatalf("oneof message missing: %s", msg)
	}
}

func TestValidator_PassesValidStruct(t *testing.T) {
	v := NewValidator()

	type loginRequest struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}
	if err := v.Validate(loginRequest{Email: "vet@clinic.example", Password: "longenough"}); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}
}
